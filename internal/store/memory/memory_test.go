package memory

import (
	"testing"

	"tweetsent/internal/store/storetest"
)

func TestStorage(t *testing.T) {
	storetest.Run(t, NewStorage())
}

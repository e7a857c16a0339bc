package store

import (
	"encoding/json"
	"fmt"

	"tweetsent/internal/domain"
)

// Artifact names shared by every pipeline stage.
const (
	KeyTrainText  = "X_train"
	KeyTestText   = "X_test"
	KeyTrainLabel = "y_train"
	KeyTestLabel  = "y_test"
	KeyTrainTFIDF = "X_train_tfidf"
	KeyTestTFIDF  = "X_test_tfidf"
	KeyVectorizer = "vectorizer"
	KeyModel      = "model"
	KeyProvenance = "provenance"
)

// Storage keeps named pipeline artifacts between stages.
type Storage = domain.ArtifactStore

// Encode serializes an artifact value for storage.
func Encode(key string, value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode artifact %s: %w", key, err)
	}
	return data, nil
}

// Decode restores an artifact value into out.
func Decode(key string, data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode artifact %s: %w", key, err)
	}
	return nil
}

// NotFound wraps domain.ErrNotFound with the missing key.
func NotFound(key string) error {
	return fmt.Errorf("%w: %s", domain.ErrNotFound, key)
}

// Package storetest holds behaviour checks shared by artifact store backends.
package storetest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweetsent/internal/domain"
	"tweetsent/internal/store"
)

type sample struct {
	Texts  []string       `json:"texts"`
	Labels []domain.Label `json:"labels"`
}

// Run exercises Put, Get, Keys and Clear against s, which must start empty.
func Run(t *testing.T, s store.Storage) {
	t.Helper()

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)

	var missing sample
	err = s.Get(store.KeyTrainText, &missing)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)

	in := sample{Texts: []string{"nonton bola"}, Labels: []domain.Label{"positif"}}
	require.NoError(t, s.Put(store.KeyTrainText, in))
	require.NoError(t, s.Put(store.KeyModel, map[string]float64{"c": 0.01}))

	var out sample
	require.NoError(t, s.Get(store.KeyTrainText, &out))
	assert.Equal(t, in, out)

	// Stored values are copies.
	in.Texts[0] = "changed"
	require.NoError(t, s.Get(store.KeyTrainText, &out))
	assert.Equal(t, "nonton bola", out.Texts[0])

	// Put overwrites.
	require.NoError(t, s.Put(store.KeyTrainText, sample{Texts: []string{"baru"}}))
	out = sample{}
	require.NoError(t, s.Get(store.KeyTrainText, &out))
	assert.Equal(t, []string{"baru"}, out.Texts)

	keys, err = s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{store.KeyTrainText, store.KeyModel}, keys)

	assert.Error(t, s.Put(store.KeyTestText, make(chan int)))

	require.NoError(t, s.Clear())
	keys, err = s.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

package stemmer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStem(t *testing.T) {
	t.Parallel()
	s := New()

	tests := []struct {
		input string
		want  string
	}{
		// Two syllables or fewer are roots
		{"makan", "makan"},
		{"bola", "bola"},
		{"nonton", "nonton"},
		{"chatgpt", "chatgpt"},
		{"", ""},

		// Suffixes
		{"makanan", "makan"},

		// Nasal prefixes with recoding
		{"memakan", "makan"},
		{"memukul", "pukul"},
		{"menulis", "tulis"},
		{"menyukai", "suka"},
		{"membantu", "bantu"},
		{"mengerjakan", "kerja"},
		{"pemilihan", "pilih"},

		// Other first-order prefixes
		{"dimakan", "makan"},
		{"kebaikan", "baik"},

		// Second-order prefixes
		{"bermain", "main"},
		{"belajar", "ajar"},
		{"pekerjaan", "kerja"},

		// Stacked prefixes
		{"memperbaiki", "baik"},
		{"pertandingan", "tanding"},

		// Possessives and particles
		{"bukuku", "buku"},
		{"rumahnya", "rumah"},
		{"sekolah", "sekolah"},

		// Reduplication
		{"kata-kata", "kata"},
		{"bermain-main", "main"},

		// Non-letters are left alone
		{"abc123", "abc123"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, s.Stem(tt.input))
		})
	}
}

func TestStemWithoutDictionaryAltersPemilu(t *testing.T) {
	// The pipeline keeps "pemilu" in an exception set because pure rules
	// read it as pem+pilu.
	assert.Equal(t, "pilu", NewWithRoots(nil).Stem("pemilu"))
	assert.Equal(t, "pemilu", New().Stem("pemilu"))
}

func TestDefaultRoots(t *testing.T) {
	roots := DefaultRoots()
	assert.NotEmpty(t, roots)
	assert.Contains(t, roots, "kerja")
	assert.NotContains(t, roots, "")
}

func TestStemIsDeterministic(t *testing.T) {
	s := New()
	for _, w := range []string{"pendidikan", "perubahan", "menyanyi", "pengalaman"} {
		assert.Equal(t, s.Stem(w), s.Stem(w))
	}
}

package pipeline

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sync"
	"time"
)

// StemCache memoizes the stemming stage for a whole document collection.
// Entries are keyed by CollectionKey and expire after ttl; a changed
// collection produces a different key, so stale output is never served.
type StemCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]stemEntry
}

type stemEntry struct {
	stemmed [][]string
	corpus  TermCorpus
	expires time.Time
}

// NewStemCache creates a cache whose entries live for ttl.
// A non-positive ttl disables caching.
func NewStemCache(ttl time.Duration) *StemCache {
	return &StemCache{ttl: ttl, now: time.Now, entries: make(map[string]stemEntry)}
}

// Get returns the cached stemming output for key.
func (c *StemCache) Get(key string) ([][]string, TermCorpus, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, nil, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, nil, false
	}
	return e.stemmed, e.corpus, true
}

// Put stores the stemming output for key. Expired entries are evicted.
func (c *StemCache) Put(key string, stemmed [][]string, corpus TermCorpus) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = stemEntry{stemmed: stemmed, corpus: corpus, expires: now.Add(c.ttl)}
}

// Len returns the number of live entries.
func (c *StemCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CollectionKey hashes a tokenized document collection. Lengths are mixed
// in so that ["ab"] and ["a","b"] hash differently.
func CollectionKey(docs [][]string) string {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(docs)))
	h.Write(buf[:])
	for _, tokens := range docs {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(tokens)))
		h.Write(buf[:])
		for _, tok := range tokens {
			binary.LittleEndian.PutUint64(buf[:], uint64(len(tok)))
			h.Write(buf[:])
			h.Write([]byte(tok))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

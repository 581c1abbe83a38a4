package tools

import "sync"

// Entry is one query a tool has seen.
type Entry struct {
	Question string
	MetaData string // JSON of the full request
	Answer   string
}

// Cache remembers every query a tool has run during this process.
type Cache struct {
	mu      sync.Mutex
	entries []*Entry
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// LoadOrAdd returns the existing entry for question and metaData, or records
// a new one. loaded is true when the entry already existed.
func (c *Cache) LoadOrAdd(question, metaData string) (entry *Entry, loaded bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if e.Question == question && e.MetaData == metaData {
			return e, true
		}
	}
	entry = &Entry{Question: question, MetaData: metaData}
	c.entries = append(c.entries, entry)
	return entry, false
}

// SetAnswer records the answer of entry.
func (c *Cache) SetAnswer(entry *Entry, answer string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry.Answer = answer
}

// Answer returns the answer recorded for entry.
func (c *Cache) Answer(entry *Entry) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return entry.Answer
}

// Len returns the number of recorded entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

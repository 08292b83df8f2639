// Package book implements the address book: records keyed by name in
// insertion order, the upcoming-birthday calculation and snapshots.
package book

import (
	"fmt"
	"slices"
	"strings"

	"github.com/smileynet/abook/internal/contact"
)

// Book maps contact names to Records and remembers insertion order.
// It is not safe for concurrent use.
type Book struct {
	order   []string
	records map[string]*contact.Record
}

// New creates an empty Book.
func New() *Book {
	return &Book{records: make(map[string]*contact.Record)}
}

// AddRecord stores r under its name. An existing entry with the same name
// is replaced and keeps its position.
func (b *Book) AddRecord(r *contact.Record) {
	key := r.Name().String()
	if _, ok := b.records[key]; !ok {
		b.order = append(b.order, key)
	}
	b.records[key] = r
}

// Find returns the Record stored under name.
func (b *Book) Find(name string) (*contact.Record, bool) {
	r, ok := b.records[name]
	return r, ok
}

// Delete removes the Record stored under name.
// Returns contact.ErrNotFound and changes nothing if there is none.
func (b *Book) Delete(name string) error {
	if _, ok := b.records[name]; !ok {
		return fmt.Errorf("%w: %q", contact.ErrNotFound, name)
	}
	delete(b.records, name)
	if i := slices.Index(b.order, name); i >= 0 {
		b.order = slices.Delete(b.order, i, i+1)
	}
	return nil
}

// Records returns all Records in insertion order.
func (b *Book) Records() []*contact.Record {
	out := make([]*contact.Record, len(b.order))
	for i, name := range b.order {
		out[i] = b.records[name]
	}
	return out
}

// Len returns the number of contacts.
func (b *Book) Len() int { return len(b.order) }

// String renders one line per contact.
func (b *Book) String() string {
	lines := make([]string, len(b.order))
	for i, r := range b.Records() {
		lines[i] = r.String()
	}
	return strings.Join(lines, "\n")
}

package book

import (
	"fmt"

	"github.com/smileynet/abook/internal/contact"
)

// SnapshotVersion is the current snapshot schema version.
const SnapshotVersion = 1

// Snapshot is the persisted form of a Book. Contacts and phones are slices
// so that order survives any codec.
type Snapshot struct {
	Version  int               `json:"version" yaml:"version"`
	Contacts []ContactSnapshot `json:"contacts" yaml:"contacts"`
}

// ContactSnapshot is the persisted form of one Record.
type ContactSnapshot struct {
	Name     string   `json:"name" yaml:"name"`
	Phones   []string `json:"phones,omitempty" yaml:"phones,omitempty"`
	Birthday string   `json:"birthday,omitempty" yaml:"birthday,omitempty"`
}

// Snapshot captures the full state of the Book.
func (b *Book) Snapshot() Snapshot {
	s := Snapshot{Version: SnapshotVersion, Contacts: make([]ContactSnapshot, 0, b.Len())}
	for _, r := range b.Records() {
		cs := ContactSnapshot{Name: r.Name().String()}
		for _, p := range r.Phones() {
			cs.Phones = append(cs.Phones, p.String())
		}
		if bday, ok := r.Birthday(); ok {
			cs.Birthday = bday.String()
		}
		s.Contacts = append(s.Contacts, cs)
	}
	return s
}

// Restore rebuilds a Book from s, validating every field. A snapshot with
// any invalid field is rejected as a whole.
func Restore(s Snapshot) (*Book, error) {
	if s.Version > SnapshotVersion {
		return nil, fmt.Errorf("book: snapshot version %d is newer than supported %d", s.Version, SnapshotVersion)
	}

	b := New()
	for i, cs := range s.Contacts {
		r, err := contact.NewRecord(cs.Name)
		if err != nil {
			return nil, fmt.Errorf("book: contact %d: %w", i, err)
		}
		for _, p := range cs.Phones {
			if err := r.AddPhone(p); err != nil {
				return nil, fmt.Errorf("book: contact %q: %w", cs.Name, err)
			}
		}
		if cs.Birthday != "" {
			if err := r.AddBirthday(cs.Birthday); err != nil {
				return nil, fmt.Errorf("book: contact %q: %w", cs.Name, err)
			}
		}
		if _, dup := b.Find(cs.Name); dup {
			return nil, fmt.Errorf("book: duplicate contact %q", cs.Name)
		}
		b.AddRecord(r)
	}
	return b, nil
}

package contact

import (
	"fmt"
	"slices"
	"strings"
)

// noBirthday is shown in place of an unset birthday.
const noBirthday = "No information"

// Record is a single contact: one immutable Name, an ordered list of
// Phones (duplicates allowed) and an optional Birthday.
type Record struct {
	name     Name
	phones   []Phone
	birthday *Birthday
}

// NewRecord creates an empty Record for name.
func NewRecord(name string) (*Record, error) {
	n, err := NewName(name)
	if err != nil {
		return nil, err
	}
	return &Record{name: n}, nil
}

// Name returns the contact's name.
func (r *Record) Name() Name { return r.name }

// Phones returns a copy of the phone list in insertion order.
func (r *Record) Phones() []Phone { return slices.Clone(r.phones) }

// Birthday returns the birthday and whether one is set.
func (r *Record) Birthday() (Birthday, bool) {
	if r.birthday == nil {
		return Birthday{}, false
	}
	return *r.birthday, true
}

// AddPhone validates value and appends it. Duplicates are not rejected.
func (r *Record) AddPhone(value string) error {
	p, err := NewPhone(value)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, p)
	return nil
}

// RemovePhone removes the first phone equal to value.
// Returns ErrPhoneNotFound if there is none.
func (r *Record) RemovePhone(value string) error {
	i := r.indexOf(value)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrPhoneNotFound, value)
	}
	r.phones = slices.Delete(r.phones, i, i+1)
	return nil
}

// EditPhone replaces the first phone equal to oldValue with newValue.
// Both values are validated; the list is left untouched on any error.
func (r *Record) EditPhone(oldValue, newValue string) error {
	old, err := NewPhone(oldValue)
	if err != nil {
		return err
	}
	p, err := NewPhone(newValue)
	if err != nil {
		return err
	}
	i := r.indexOf(old.value)
	if i < 0 {
		return &ValidationError{Field: "phone", Value: oldValue, Reason: "not found", Err: ErrPhoneNotFound}
	}
	r.phones[i] = p
	return nil
}

// FindPhone returns the phone equal to value, if present.
func (r *Record) FindPhone(value string) (Phone, bool) {
	i := r.indexOf(value)
	if i < 0 {
		return Phone{}, false
	}
	return r.phones[i], true
}

// AddBirthday validates value and sets or overwrites the birthday.
func (r *Record) AddBirthday(value string) error {
	b, err := NewBirthday(value)
	if err != nil {
		return err
	}
	r.birthday = &b
	return nil
}

// PhoneList joins the phone values with "; ".
func (r *Record) PhoneList() string {
	vals := make([]string, len(r.phones))
	for i, p := range r.phones {
		vals[i] = p.value
	}
	return strings.Join(vals, "; ")
}

func (r *Record) String() string {
	bday := noBirthday
	if r.birthday != nil {
		bday = r.birthday.value
	}
	return fmt.Sprintf("Contact name: %s, phones: %s, birthday: %s", r.name, r.PhoneList(), bday)
}

func (r *Record) indexOf(value string) int {
	return slices.IndexFunc(r.phones, func(p Phone) bool { return p.value == value })
}

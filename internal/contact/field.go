// Package contact holds the validated field types and the Record that owns them.
package contact

import (
	"errors"
	"fmt"
	"time"
)

// BirthdayLayout is the external DD-MM-YYYY representation of a Birthday.
const BirthdayLayout = "02-01-2006"

// phoneDigits is the exact length of a valid phone number.
const phoneDigits = 10

// Sentinel errors for caller-checkable conditions.
var (
	ErrValidation    = errors.New("contact: invalid value")
	ErrNotFound      = errors.New("contact: not found")
	ErrPhoneNotFound = errors.New("contact: phone not found")
)

// ValidationError reports a malformed Name, Phone, or Birthday.
// It matches ErrValidation via errors.Is.
type ValidationError struct {
	Field  string // "name", "phone" or "birthday"
	Value  string
	Reason string
	Err    error // optional cause, e.g. ErrPhoneNotFound
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("contact: invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Name is a non-empty contact name.
type Name struct {
	value string
}

// NewName validates value as a Name.
func NewName(value string) (Name, error) {
	if value == "" {
		return Name{}, &ValidationError{Field: "name", Value: value, Reason: "empty name"}
	}
	return Name{value: value}, nil
}

func (n Name) String() string { return n.value }

// Phone is a phone number of exactly ten ASCII digits.
type Phone struct {
	value string
}

// NewPhone validates value as a Phone.
func NewPhone(value string) (Phone, error) {
	if !isPhone(value) {
		return Phone{}, &ValidationError{Field: "phone", Value: value, Reason: "must be 10 digits"}
	}
	return Phone{value: value}, nil
}

func (p Phone) String() string { return p.value }

func isPhone(s string) bool {
	if len(s) != phoneDigits {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Birthday is a calendar date written as DD-MM-YYYY.
type Birthday struct {
	value string
	date  time.Time
}

// NewBirthday parses value with BirthdayLayout. Impossible dates such as
// 31-02-2000 are rejected along with wrong separators and non-numeric fields.
func NewBirthday(value string) (Birthday, error) {
	t, err := time.Parse(BirthdayLayout, value)
	if err != nil {
		return Birthday{}, &ValidationError{Field: "birthday", Value: value, Reason: "bad date format", Err: err}
	}
	return Birthday{value: value, date: t}, nil
}

func (b Birthday) String() string { return b.value }

// Date returns the birthday at midnight UTC.
func (b Birthday) Date() time.Time { return b.date }

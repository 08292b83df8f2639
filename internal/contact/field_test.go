package contact

import (
	"errors"
	"testing"
	"time"
)

func TestNewName(t *testing.T) {
	if _, err := NewName(""); !errors.Is(err, ErrValidation) {
		t.Errorf("NewName(\"\") error = %v, want ErrValidation", err)
	}

	n, err := NewName("Alice")
	if err != nil {
		t.Fatalf("NewName() error = %v", err)
	}
	if n.String() != "Alice" {
		t.Errorf("String() = %q, want %q", n.String(), "Alice")
	}
}

func TestNewPhone(t *testing.T) {
	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{name: "ten digits", value: "1234567890", ok: true},
		{name: "leading zeros", value: "0000000000", ok: true},
		{name: "nine digits", value: "123456789"},
		{name: "eleven digits", value: "12345678901"},
		{name: "empty", value: ""},
		{name: "letter", value: "12345a7890"},
		{name: "plus prefix", value: "+123456789"},
		{name: "dashes", value: "123-456-78"},
		{name: "non-ascii digits", value: "١٢٣٤٥٦٧٨٩٠"},
		{name: "spaces", value: "12345 6789"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPhone(tt.value)
			if tt.ok {
				if err != nil {
					t.Fatalf("NewPhone(%q) error = %v", tt.value, err)
				}
				if p.String() != tt.value {
					t.Errorf("String() = %q, want %q", p.String(), tt.value)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("NewPhone(%q) error = %v, want *ValidationError", tt.value, err)
			}
			if verr.Field != "phone" || verr.Reason != "must be 10 digits" {
				t.Errorf("ValidationError = %+v, want phone/must be 10 digits", verr)
			}
		})
	}
}

func TestNewBirthday(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{value: "25-12-1990", ok: true},
		{value: "29-02-2000", ok: true},
		{value: "01-01-0001", ok: true},
		{value: "29-02-2001"},
		{value: "31-04-2020"},
		{value: "32-01-2020"},
		{value: "00-01-2020"},
		{value: "15-13-2020"},
		{value: "25/12/1990"},
		{value: "1990-12-25"},
		{value: "aa-bb-cccc"},
		{value: ""},
		{value: "25-12-1990 "},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			b, err := NewBirthday(tt.value)
			if !tt.ok {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("NewBirthday(%q) error = %v, want ErrValidation", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBirthday(%q) error = %v", tt.value, err)
			}
			if b.String() != tt.value {
				t.Errorf("String() = %q, want %q", b.String(), tt.value)
			}
		})
	}
}

func TestBirthday_Date(t *testing.T) {
	b, err := NewBirthday("25-12-1990")
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(1990, time.December, 25, 0, 0, 0, 0, time.UTC)
	if !b.Date().Equal(want) {
		t.Errorf("Date() = %v, want %v", b.Date(), want)
	}
}

func TestValidationError_Message(t *testing.T) {
	_, err := NewBirthday("31-02-2000")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if verr.Reason != "bad date format" {
		t.Errorf("Reason = %q, want %q", verr.Reason, "bad date format")
	}
	if got, want := err.Error(), `contact: invalid birthday "31-02-2000": bad date format`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

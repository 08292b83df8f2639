package command

import (
	"strings"
	"testing"
	"time"

	"github.com/smileynet/abook/internal/book"
)

// friday is 20-12-2024.
var friday = time.Date(2024, time.December, 20, 10, 0, 0, 0, time.UTC)

func newTestDispatcher() *Dispatcher {
	return New(book.New(), WithClock(func() time.Time { return friday }))
}

// run feeds lines to d and returns the last result.
func run(t *testing.T, d *Dispatcher, lines ...string) Result {
	t.Helper()
	var res Result
	for _, l := range lines {
		res = d.Handle(l)
	}
	return res
}

func TestHandle_Replies(t *testing.T) {
	tests := []struct {
		name  string
		setup []string
		line  string
		want  string
	}{
		{name: "hello", line: "hello", want: "How can I help you?"},
		{name: "case-insensitive command", line: "HeLLo", want: "How can I help you?"},
		{name: "empty line", line: "   ", want: "Enter a command."},
		{name: "unknown", line: "dance", want: "Invalid command."},
		{name: "add new", line: "add Alice 1234567890", want: "Contact added."},
		{name: "add existing", setup: []string{"add Alice 1234567890"}, line: "add Alice 0987654321", want: "Contact updated."},
		{name: "add missing phone", line: "add Alice", want: "Please give me: add <name> <phone>"},
		{name: "add bad phone", line: "add Alice 123", want: `Invalid phone "123": must be 10 digits. Please give me: add <name> <phone>`},
		{
			name:  "change",
			setup: []string{"add Alice 1234567890"},
			line:  "change Alice 1234567890 1111111111",
			want:  "Old contact: Alice 1234567890. Updated to: 1111111111",
		},
		{name: "change unknown contact", line: "change Bob 1234567890 1111111111", want: "There is no such contact, try command: add"},
		{
			name:  "change unknown phone",
			setup: []string{"add Alice 1234567890"},
			line:  "change Alice 2222222222 1111111111",
			want:  "There is no such phone in the contact list.",
		},
		{name: "change too few args", line: "change Alice 1234567890", want: "Please give me: change <name> <old phone> <new phone>"},
		{name: "phone", setup: []string{"add Alice 1234567890", "add Alice 1111111111"}, line: "phone Alice", want: "Alice: 1234567890; 1111111111"},
		{name: "phone unknown", line: "phone Bob", want: "There is no such contact in database!"},
		{name: "phone no name", line: "phone", want: "Please give me: phone <name>"},
		{name: "all empty", line: "all", want: "No contacts."},
		{
			name:  "all",
			setup: []string{"add Alice 1234567890", "add Bob 1111111111", "add-birthday Bob 01-01-1990"},
			line:  "all",
			want: "Contact name: Alice, phones: 1234567890, birthday: No information\n" +
				"Contact name: Bob, phones: 1111111111, birthday: 01-01-1990",
		},
		{name: "add-birthday", setup: []string{"add Alice 1234567890"}, line: "add-birthday Alice 25-12-1990", want: "Birthday for Alice set to 25-12-1990."},
		{
			name:  "add-birthday bad date",
			setup: []string{"add Alice 1234567890"},
			line:  "add-birthday Alice 1990-12-25",
			want:  `Invalid birthday "1990-12-25": bad date format. Please give me: add-birthday <name> <DD-MM-YYYY>`,
		},
		{name: "add-birthday unknown", line: "add-birthday Bob 25-12-1990", want: "There is no such contact, try command: add"},
		{name: "show-birthday", setup: []string{"add Alice 1234567890", "add-birthday Alice 25-12-1990"}, line: "show-birthday Alice", want: "Birthday for Alice: 25-12-1990"},
		{name: "show-birthday unset", setup: []string{"add Alice 1234567890"}, line: "show-birthday Alice", want: "No birthday set for this contact."},
		{name: "show-birthday unknown", line: "show-birthday Bob", want: "There is no such contact"},
		{name: "birthdays none", line: "birthdays", want: "No upcoming birthdays."},
		{
			name: "birthdays",
			setup: []string{
				"add Alice 1234567890", "add-birthday Alice 25-12-1990",
				"add Bob 1111111111", "add-birthday Bob 21-12-1985",
				"add Carol 2222222222", "add-birthday Carol 01-06-1985",
			},
			line: "birthdays",
			want: "Upcoming birthdays:\nAlice: 25-12-2024\nBob: 23-12-2024",
		},
		{name: "delete", setup: []string{"add Alice 1234567890"}, line: "delete Alice", want: "Contact Alice deleted."},
		{name: "delete unknown", line: "delete Bob", want: "There is no contact with this name."},
		{name: "remove-phone", setup: []string{"add Alice 1234567890"}, line: "remove-phone Alice 1234567890", want: "Phone 1234567890 removed from Alice."},
		{name: "remove-phone unknown", setup: []string{"add Alice 1234567890"}, line: "remove-phone Alice 1111111111", want: "There is no such phone in the contact list."},
		{name: "close", line: "close", want: "Good bye!"},
		{name: "exit", line: "EXIT", want: "Good bye!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDispatcher()
			run(t, d, tt.setup...)

			got := d.Handle(tt.line)

			if got.Output != tt.want {
				t.Errorf("Handle(%q) =\n%q\nwant\n%q", tt.line, got.Output, tt.want)
			}
		})
	}
}

func TestHandle_ExitFlag(t *testing.T) {
	d := newTestDispatcher()
	for _, line := range []string{"close", "exit", "Close now"} {
		if res := d.Handle(line); !res.Exit {
			t.Errorf("Handle(%q).Exit = false, want true", line)
		}
	}
	for _, line := range []string{"hello", "all", "", "quit"} {
		if res := d.Handle(line); res.Exit {
			t.Errorf("Handle(%q).Exit = true, want false", line)
		}
	}
}

func TestHandle_AddThenFind(t *testing.T) {
	// Given an empty book
	d := newTestDispatcher()

	// When Alice is added
	run(t, d, "add Alice 1234567890")

	// Then the book holds her record with one phone
	r, ok := d.Book().Find("Alice")
	if !ok {
		t.Fatal("Alice not found after add")
	}
	if r.PhoneList() != "1234567890" {
		t.Errorf("phones = %q, want %q", r.PhoneList(), "1234567890")
	}
}

func TestHandle_FailedAddLeavesBookUnchanged(t *testing.T) {
	d := newTestDispatcher()

	run(t, d, "add Alice notaphone")

	if d.Book().Len() != 0 {
		t.Errorf("book has %d contacts after failed add, want 0", d.Book().Len())
	}
}

func TestHandle_FailedChangeLeavesPhonesUnchanged(t *testing.T) {
	d := newTestDispatcher()
	run(t, d, "add Alice 1234567890", "change Alice 1234567890 bad")

	r, _ := d.Book().Find("Alice")
	if r.PhoneList() != "1234567890" {
		t.Errorf("phones = %q, want unchanged", r.PhoneList())
	}
}

func TestHandle_MutatedFlag(t *testing.T) {
	d := newTestDispatcher()

	if res := d.Handle("add Alice 1234567890"); !res.Mutated {
		t.Error("successful add should report Mutated")
	}
	if res := d.Handle("add Alice bad"); res.Mutated {
		t.Error("failed add should not report Mutated")
	}
	if res := d.Handle("all"); res.Mutated {
		t.Error("all should not report Mutated")
	}
	if res := d.Handle("delete Nobody"); res.Mutated {
		t.Error("deleting a missing contact should not report Mutated")
	}
	if res := d.Handle("delete Alice"); !res.Mutated {
		t.Error("deleting an existing contact should report Mutated")
	}
}

func TestHandle_Window(t *testing.T) {
	d := New(book.New(),
		WithClock(func() time.Time { return friday }),
		WithWindow(14),
	)
	run(t, d, "add Alice 1234567890", "add-birthday Alice 31-12-1990")

	got := d.Handle("birthdays").Output

	if got != "Upcoming birthdays:\nAlice: 31-12-2024" {
		t.Errorf("birthdays with 14-day window = %q", got)
	}
}

func TestHandle_Help(t *testing.T) {
	got := newTestDispatcher().Handle("help").Output

	for _, c := range commands {
		if !strings.Contains(got, c.usage) {
			t.Errorf("help output missing %q", c.usage)
		}
	}
}

func TestHandle_FailedFlag(t *testing.T) {
	d := newTestDispatcher()
	for _, line := range []string{"dance", "add Alice", "add Alice 1", "phone Nobody", "delete Nobody"} {
		if res := d.Handle(line); !res.Failed {
			t.Errorf("Handle(%q).Failed = false, want true", line)
		}
	}
	for _, line := range []string{"hello", "add Alice 1234567890"} {
		if res := d.Handle(line); res.Failed {
			t.Errorf("Handle(%q).Failed = true, want false", line)
		}
	}
}

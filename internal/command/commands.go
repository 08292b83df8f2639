package command

import (
	"fmt"
	"strings"

	"github.com/smileynet/abook/internal/contact"
)

// command describes one dispatcher entry.
type command struct {
	name     string
	usage    string
	help     string
	minArgs  int
	mutates  bool   // only reported when run succeeds
	notFound string // reply for an unknown contact; empty uses the default
	exit     bool
	run      func(d *Dispatcher, args []string) (string, error)
}

// commands is the dispatch table in help order. Populated in init to
// break the reference cycle through (*Dispatcher).help.
var commands []command

func init() {
	commands = []command{
		{name: "hello", usage: "hello", help: "greeting", run: (*Dispatcher).hello},
		{name: "add", usage: "add <name> <phone>", help: "create a contact or add a phone to it", minArgs: 2, mutates: true, run: (*Dispatcher).add},
		{name: "change", usage: "change <name> <old phone> <new phone>", help: "replace a phone", minArgs: 3, mutates: true, run: (*Dispatcher).change},
		{name: "phone", usage: "phone <name>", help: "show a contact's phones", minArgs: 1, notFound: "There is no such contact in database!", run: (*Dispatcher).phone},
		{name: "remove-phone", usage: "remove-phone <name> <phone>", help: "remove a phone from a contact", minArgs: 2, mutates: true, run: (*Dispatcher).removePhone},
		{name: "all", usage: "all", help: "list all contacts", run: (*Dispatcher).all},
		{name: "add-birthday", usage: "add-birthday <name> <DD-MM-YYYY>", help: "set a birthday", minArgs: 2, mutates: true, run: (*Dispatcher).addBirthday},
		{name: "show-birthday", usage: "show-birthday <name>", help: "show a birthday", minArgs: 1, notFound: "There is no such contact", run: (*Dispatcher).showBirthday},
		{name: "birthdays", usage: "birthdays", help: "birthdays in the coming week", run: (*Dispatcher).birthdays},
		{name: "delete", usage: "delete <name>", help: "remove a contact", minArgs: 1, mutates: true, notFound: "There is no contact with this name.", run: (*Dispatcher).deleteContact},
		{name: "help", usage: "help", help: "show this list", run: (*Dispatcher).help},
		{name: "close", usage: "close", help: "save and quit", exit: true, run: (*Dispatcher).bye},
		{name: "exit", usage: "exit", help: "save and quit", exit: true, run: (*Dispatcher).bye},
	}
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func (d *Dispatcher) hello([]string) (string, error) {
	return "How can I help you?", nil
}

// add creates the contact if needed and appends the phone. The phone is
// validated first so a bad phone never leaves an empty new contact behind.
func (d *Dispatcher) add(args []string) (string, error) {
	name, phone := args[0], args[1]
	if _, err := contact.NewPhone(phone); err != nil {
		return "", err
	}

	if r, ok := d.book.Find(name); ok {
		if err := r.AddPhone(phone); err != nil {
			return "", err
		}
		return "Contact updated.", nil
	}

	r, err := contact.NewRecord(name)
	if err != nil {
		return "", err
	}
	if err := r.AddPhone(phone); err != nil {
		return "", err
	}
	d.book.AddRecord(r)
	return "Contact added.", nil
}

func (d *Dispatcher) change(args []string) (string, error) {
	name, oldPhone, newPhone := args[0], args[1], args[2]
	r, err := d.find(name)
	if err != nil {
		return "", err
	}
	if err := r.EditPhone(oldPhone, newPhone); err != nil {
		return "", err
	}
	return fmt.Sprintf("Old contact: %s %s. Updated to: %s", name, oldPhone, newPhone), nil
}

func (d *Dispatcher) phone(args []string) (string, error) {
	r, err := d.find(args[0])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s: %s", r.Name(), r.PhoneList()), nil
}

func (d *Dispatcher) removePhone(args []string) (string, error) {
	name, phone := args[0], args[1]
	r, err := d.find(name)
	if err != nil {
		return "", err
	}
	if err := r.RemovePhone(phone); err != nil {
		return "", err
	}
	return fmt.Sprintf("Phone %s removed from %s.", phone, name), nil
}

func (d *Dispatcher) all([]string) (string, error) {
	if d.book.Len() == 0 {
		return "No contacts.", nil
	}
	return d.book.String(), nil
}

func (d *Dispatcher) addBirthday(args []string) (string, error) {
	name, date := args[0], args[1]
	r, err := d.find(name)
	if err != nil {
		return "", err
	}
	if err := r.AddBirthday(date); err != nil {
		return "", err
	}
	return fmt.Sprintf("Birthday for %s set to %s.", name, date), nil
}

func (d *Dispatcher) showBirthday(args []string) (string, error) {
	name := args[0]
	r, err := d.find(name)
	if err != nil {
		return "", err
	}
	bday, ok := r.Birthday()
	if !ok {
		return "No birthday set for this contact.", nil
	}
	return fmt.Sprintf("Birthday for %s: %s", name, bday), nil
}

func (d *Dispatcher) birthdays([]string) (string, error) {
	upcoming := d.book.UpcomingWithin(d.now(), d.window)
	if len(upcoming) == 0 {
		return "No upcoming birthdays.", nil
	}
	lines := make([]string, 0, len(upcoming)+1)
	lines = append(lines, "Upcoming birthdays:")
	for _, u := range upcoming {
		lines = append(lines, fmt.Sprintf("%s: %s", u.Name, u.Birthday()))
	}
	return strings.Join(lines, "\n"), nil
}

func (d *Dispatcher) deleteContact(args []string) (string, error) {
	name := args[0]
	if err := d.book.Delete(name); err != nil {
		return "", err
	}
	return fmt.Sprintf("Contact %s deleted.", name), nil
}

func (d *Dispatcher) help([]string) (string, error) {
	var sb strings.Builder
	sb.WriteString("Commands:")
	for _, c := range commands {
		fmt.Fprintf(&sb, "\n  %-36s %s", c.usage, c.help)
	}
	return sb.String(), nil
}

func (d *Dispatcher) bye([]string) (string, error) {
	return "Good bye!", nil
}

func (d *Dispatcher) find(name string) (*contact.Record, error) {
	r, ok := d.book.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", contact.ErrNotFound, name)
	}
	return r, nil
}

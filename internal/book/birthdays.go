package book

import (
	"time"

	"github.com/smileynet/abook/internal/contact"
)

// DefaultWindowDays is how far ahead UpcomingBirthdays looks, inclusive.
const DefaultWindowDays = 7

// Weekday indices with Monday = 0.
const (
	monday   = 0
	saturday = 5
)

// Upcoming is a contact whose congratulation date falls inside the window.
type Upcoming struct {
	Name string
	Date time.Time
}

// Birthday returns the congratulation date as DD-MM-YYYY.
func (u Upcoming) Birthday() string {
	return u.Date.Format(contact.BirthdayLayout)
}

// UpcomingBirthdays lists birthdays from ref's date through the next
// DefaultWindowDays days.
func (b *Book) UpcomingBirthdays(ref time.Time) []Upcoming {
	return b.UpcomingWithin(ref, DefaultWindowDays)
}

// UpcomingWithin lists contacts whose birthday, moved into ref's year,
// is between 0 and days days after ref's date. Weekend birthdays are
// congratulated on the following Monday. Results keep insertion order.
//
// Dates are never matched against the next year: with ref on 30 Dec a
// birthday on 2 Jan is not reported.
func (b *Book) UpcomingWithin(ref time.Time, days int) []Upcoming {
	today := calendarDate(ref.Year(), ref.Month(), ref.Day())

	var out []Upcoming
	for _, r := range b.Records() {
		bday, ok := r.Birthday()
		if !ok {
			continue
		}
		d := bday.Date()
		// Feb 29 rolls to Mar 1 in non-leap years.
		thisYear := calendarDate(today.Year(), d.Month(), d.Day())

		delta := daysBetween(today, thisYear)
		if delta < 0 || delta > days {
			continue
		}

		congrats := thisYear
		if mondayIndex(thisYear) >= saturday {
			congrats = nextWeekday(thisYear, monday)
		}
		out = append(out, Upcoming{Name: r.Name().String(), Date: congrats})
	}
	return out
}

// nextWeekday returns the first date strictly after d that falls on target
// (Monday = 0). It never returns d itself.
func nextWeekday(d time.Time, target int) time.Time {
	ahead := (target - mondayIndex(d)) % 7
	if ahead <= 0 {
		ahead += 7
	}
	return d.AddDate(0, 0, ahead)
}

// mondayIndex converts time.Weekday (Sunday = 0) to Monday = 0 numbering.
func mondayIndex(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

func calendarDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole days from a to b. Both must be UTC midnights.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

package book

import (
	"testing"
	"time"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("02-01-2006", s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func bookWithBirthdays(t *testing.T, birthdays map[string]string, order ...string) *Book {
	t.Helper()
	b := New()
	for _, name := range order {
		r := mustRecord(t, name)
		if bd := birthdays[name]; bd != "" {
			if err := r.AddBirthday(bd); err != nil {
				t.Fatal(err)
			}
		}
		b.AddRecord(r)
	}
	return b
}

func TestUpcomingBirthdays(t *testing.T) {
	tests := []struct {
		name     string
		ref      string // 20-12-2024 is a Friday
		birthday string
		want     string // empty means not reported
	}{
		{name: "weekday within window", ref: "20-12-2024", birthday: "25-12-1990", want: "25-12-2024"},
		{name: "today", ref: "20-12-2024", birthday: "20-12-1985", want: "20-12-2024"},
		{name: "saturday moves to monday", ref: "20-12-2024", birthday: "21-12-2000", want: "23-12-2024"},
		{name: "sunday moves to monday", ref: "20-12-2024", birthday: "22-12-2000", want: "23-12-2024"},
		{name: "seventh day inclusive", ref: "20-12-2024", birthday: "27-12-1970", want: "27-12-2024"},
		{name: "weekend on last day moves past window", ref: "21-12-2024", birthday: "28-12-1970", want: "30-12-2024"},
		{name: "eighth day excluded", ref: "20-12-2024", birthday: "28-12-1970"},
		{name: "yesterday excluded", ref: "20-12-2024", birthday: "19-12-1990"},
		{name: "no year rollover", ref: "30-12-2024", birthday: "02-01-1990"},
		{name: "leap day in leap year", ref: "25-02-2024", birthday: "29-02-2000", want: "29-02-2024"},
		{name: "leap day in common year rolls to march", ref: "25-02-2025", birthday: "29-02-2000", want: "03-03-2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := bookWithBirthdays(t, map[string]string{"Alice": tt.birthday}, "Alice")

			got := b.UpcomingBirthdays(date(t, tt.ref))

			if tt.want == "" {
				if len(got) != 0 {
					t.Errorf("UpcomingBirthdays() = %v, want none", got)
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("UpcomingBirthdays() = %v, want one entry", got)
			}
			if got[0].Name != "Alice" || got[0].Birthday() != tt.want {
				t.Errorf("got {%s %s}, want {Alice %s}", got[0].Name, got[0].Birthday(), tt.want)
			}
		})
	}
}

func TestUpcomingBirthdays_InsertionOrderAndSkipsUnset(t *testing.T) {
	// Given contacts added out of date order, one without a birthday
	b := bookWithBirthdays(t, map[string]string{
		"Zed":    "26-12-1990",
		"Amy":    "23-12-1991",
		"Nobody": "",
	}, "Zed", "Nobody", "Amy")

	// When upcoming birthdays are computed
	got := b.UpcomingBirthdays(date(t, "20-12-2024"))

	// Then results follow insertion order, not date order
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2: %v", len(got), got)
	}
	if got[0].Name != "Zed" || got[1].Name != "Amy" {
		t.Errorf("order = [%s %s], want [Zed Amy]", got[0].Name, got[1].Name)
	}
}

func TestUpcomingBirthdays_IgnoresTimeOfDay(t *testing.T) {
	b := bookWithBirthdays(t, map[string]string{"Alice": "20-12-1990"}, "Alice")
	ref := time.Date(2024, time.December, 20, 23, 59, 0, 0, time.Local)

	got := b.UpcomingBirthdays(ref)

	if len(got) != 1 || got[0].Birthday() != "20-12-2024" {
		t.Errorf("UpcomingBirthdays(late evening) = %v, want today's birthday", got)
	}
}

func TestUpcomingWithin_CustomWindow(t *testing.T) {
	b := bookWithBirthdays(t, map[string]string{"Alice": "30-12-1990"}, "Alice")

	if got := b.UpcomingWithin(date(t, "20-12-2024"), 7); len(got) != 0 {
		t.Errorf("7-day window = %v, want none", got)
	}
	got := b.UpcomingWithin(date(t, "20-12-2024"), 10)
	if len(got) != 1 || got[0].Birthday() != "30-12-2024" {
		t.Errorf("10-day window = %v, want 30-12-2024", got)
	}
	if got := b.UpcomingWithin(date(t, "30-12-2024"), 0); len(got) != 1 {
		t.Errorf("0-day window on the day = %v, want one entry", got)
	}
}

func TestNextWeekday(t *testing.T) {
	tests := []struct {
		from   string
		target int
		want   string
	}{
		{from: "21-12-2024", target: monday, want: "23-12-2024"}, // Sat
		{from: "22-12-2024", target: monday, want: "23-12-2024"}, // Sun
		{from: "23-12-2024", target: monday, want: "30-12-2024"}, // Mon: strictly forward
		{from: "24-12-2024", target: monday, want: "30-12-2024"}, // Tue
		{from: "23-12-2024", target: 2, want: "25-12-2024"},      // Mon -> Wed
	}
	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			got := nextWeekday(date(t, tt.from), tt.target).Format("02-01-2006")
			if got != tt.want {
				t.Errorf("nextWeekday(%s, %d) = %s, want %s", tt.from, tt.target, got, tt.want)
			}
		})
	}
}

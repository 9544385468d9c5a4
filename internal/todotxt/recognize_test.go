package todotxt

import (
	"testing"
	"time"
)

func TestRecognizeDate(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  Date
		ok    bool
	}{
		{"valid", "2020-05-20", NewDate(2020, time.May, 20), true},
		{"leap day", "2020-02-29", NewDate(2020, time.February, 29), true},
		{"first day", "0001-01-01", NewDate(1, time.January, 1), true},
		{"month out of range", "2020-13-40", Date{}, false},
		{"day out of range", "2020-04-31", Date{}, false},
		{"not a leap year", "2021-02-29", Date{}, false},
		{"month zero", "2020-00-10", Date{}, false},
		{"day zero", "2020-01-00", Date{}, false},
		{"year zero", "0000-01-01", Date{}, false},
		{"trailing characters", "2020-05-20extra", Date{}, false},
		{"leading characters", "x2020-05-20", Date{}, false},
		{"short month", "2020-5-20", Date{}, false},
		{"slashes", "2020/05/20", Date{}, false},
		{"letters", "20a0-05-20", Date{}, false},
		{"empty", "", Date{}, false},
		{"key value", "due:2016-05-30", Date{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RecognizeDate(tt.token)
			if ok != tt.ok {
				t.Errorf("RecognizeDate(%q) ok: got %v, want %v", tt.token, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("RecognizeDate(%q): got %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestRecognizePriority(t *testing.T) {
	tests := []struct {
		token string
		want  Priority
		ok    bool
	}{
		{"(A)", 'A', true},
		{"(Z)", 'Z', true},
		{"(b)", 0, false},
		{"(A)x", 0, false},
		{"x(A)", 0, false},
		{"(AB)", 0, false},
		{"()", 0, false},
		{"A", 0, false},
		{"(1)", 0, false},
		{"[A]", 0, false},
		{"(B)->Submit", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := RecognizePriority(tt.token)
			if ok != tt.ok {
				t.Errorf("RecognizePriority(%q) ok: got %v, want %v", tt.token, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("RecognizePriority(%q): got %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestDateString(t *testing.T) {
	if got := NewDate(2011, time.March, 2).String(); got != "2011-03-02" {
		t.Errorf("String: got %q, want 2011-03-02", got)
	}
	if got := NewDate(999, time.December, 31).String(); got != "0999-12-31" {
		t.Errorf("String: got %q, want 0999-12-31", got)
	}
}

func TestDateOrdering(t *testing.T) {
	a := NewDate(2011, time.March, 2)
	b := NewDate(2011, time.March, 3)
	if !a.Before(b) {
		t.Errorf("%v should be before %v", a, b)
	}
	if b.Before(a) {
		t.Errorf("%v should not be before %v", b, a)
	}
	if a.Before(a) {
		t.Errorf("%v should not be before itself", a)
	}
	if !NewDate(2010, time.December, 31).Before(a) {
		t.Errorf("2010-12-31 should be before %v", a)
	}
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2016, time.May, 30, 23, 59, 0, 0, time.UTC)
	if got := DateOf(ts); got != NewDate(2016, time.May, 30) {
		t.Errorf("DateOf: got %v", got)
	}
	if got := DateOf(ts).Time(); !got.Equal(time.Date(2016, time.May, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Time: got %v", got)
	}
}

func TestDateText(t *testing.T) {
	var d Date
	if err := d.UnmarshalText([]byte("2016-05-30")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if d != NewDate(2016, time.May, 30) {
		t.Errorf("UnmarshalText: got %v", d)
	}

	text, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}
	if string(text) != "2016-05-30" {
		t.Errorf("MarshalText: got %q", text)
	}

	if err := d.UnmarshalText([]byte("2016-02-30")); err == nil {
		t.Error("Expected error for impossible date")
	}
}

func TestPriorityText(t *testing.T) {
	var p Priority
	if err := p.UnmarshalText([]byte("C")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if p != 'C' {
		t.Errorf("UnmarshalText: got %q, want 'C'", p)
	}
	if p.Tag() != "(C)" {
		t.Errorf("Tag: got %q", p.Tag())
	}

	for _, bad := range []string{"c", "AB"} {
		if err := p.UnmarshalText([]byte(bad)); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}

	if _, err := Priority('a').MarshalText(); err == nil {
		t.Error("Expected error marshaling lowercase priority")
	}
}

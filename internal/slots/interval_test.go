package slots

import (
	"errors"
	"testing"
)

func mustTime(t *testing.T, s string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("failed to parse time %q: %v", s, err)
	}
	return tod
}

func mustInterval(t *testing.T, date DateKey, start, end string) Interval {
	t.Helper()
	iv, err := NewInterval(date, mustTime(t, start), mustTime(t, end))
	if err != nil {
		t.Fatalf("failed to build interval %s-%s: %v", start, end, err)
	}
	return iv
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{input: "09:00", want: TimeOfDay{Hour: 9}},
		{input: "23:59", want: TimeOfDay{Hour: 23, Minute: 59}},
		{input: "00:00", want: TimeOfDay{}},
		{input: "24:00", wantErr: true},
		{input: "09:60", wantErr: true},
		{input: "9am", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q): expected error, got %v", tt.input, got)
			} else if !errors.Is(err, ErrInvalidTimeOfDay) {
				t.Errorf("ParseTimeOfDay(%q): expected ErrInvalidTimeOfDay, got %v", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseDateKey(t *testing.T) {
	if _, err := ParseDateKey("2026-02-30"); !errors.Is(err, ErrInvalidDateKey) {
		t.Errorf("expected ErrInvalidDateKey for impossible date, got %v", err)
	}
	if _, err := ParseDateKey("not-a-date"); !errors.Is(err, ErrInvalidDateKey) {
		t.Errorf("expected ErrInvalidDateKey for garbage, got %v", err)
	}
	d, err := ParseDateKey("2026-09-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2026-09-01" {
		t.Errorf("expected round-trip date key, got %s", d)
	}
}

func TestNewInterval_RejectsInverted(t *testing.T) {
	start := mustTime(t, "11:00")
	end := mustTime(t, "10:00")

	if _, err := NewInterval("2026-09-01", start, end); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval for inverted interval, got %v", err)
	}
	if _, err := NewInterval("2026-09-01", start, start); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval for zero-length interval, got %v", err)
	}
}

func TestInterval_Overlaps(t *testing.T) {
	const date = DateKey("2026-09-01")

	tests := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{
			name: "identical intervals overlap",
			a:    mustInterval(t, date, "10:00", "11:00"),
			b:    mustInterval(t, date, "10:00", "11:00"),
			want: true,
		},
		{
			name: "partial overlap",
			a:    mustInterval(t, date, "10:00", "11:00"),
			b:    mustInterval(t, date, "10:30", "11:30"),
			want: true,
		},
		{
			name: "containment overlaps",
			a:    mustInterval(t, date, "09:00", "12:00"),
			b:    mustInterval(t, date, "10:00", "11:00"),
			want: true,
		},
		{
			name: "touching endpoints do not overlap",
			a:    mustInterval(t, date, "10:00", "11:00"),
			b:    mustInterval(t, date, "11:00", "12:00"),
			want: false,
		},
		{
			name: "disjoint intervals",
			a:    mustInterval(t, date, "09:00", "10:00"),
			b:    mustInterval(t, date, "14:00", "15:00"),
			want: false,
		},
		{
			name: "same times on different dates",
			a:    mustInterval(t, date, "10:00", "11:00"),
			b:    mustInterval(t, "2026-09-02", "10:00", "11:00"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("reverse Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInterval_Contains(t *testing.T) {
	iv := mustInterval(t, "2026-09-01", "10:00", "11:00")

	if !iv.Contains(mustTime(t, "10:00")) {
		t.Error("start should be contained (inclusive)")
	}
	if !iv.Contains(mustTime(t, "10:59")) {
		t.Error("10:59 should be contained")
	}
	if iv.Contains(mustTime(t, "11:00")) {
		t.Error("end should not be contained (exclusive)")
	}
	if iv.Contains(mustTime(t, "09:59")) {
		t.Error("time before start should not be contained")
	}
}

func TestInterval_DurationMinutes(t *testing.T) {
	if got := mustInterval(t, "2026-09-01", "09:00", "11:30").DurationMinutes(); got != 150 {
		t.Errorf("expected 150 minutes, got %d", got)
	}
	if got := mustInterval(t, "2026-09-01", "13:00", "14:00").DurationMinutes(); got != 60 {
		t.Errorf("expected 60 minutes, got %d", got)
	}
}

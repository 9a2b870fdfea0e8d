package timeline

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		hours float64
		want  Status
	}{
		{"overdue", -5, Red},
		{"two hours", 2, Red},
		{"exactly three", 3, Red},
		{"just over three", 3.01, Amber},
		{"ten hours", 10, Amber},
		{"exactly a day", 24, Amber},
		{"two days", 48, Amber},
		{"just under three days", 71.9, Amber},
		{"exactly three days", 72, Green},
		{"hundred hours", 100, Green},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			due := now.Add(time.Duration(tc.hours * float64(time.Hour)))
			if got := Classify(due, now); got != tc.want {
				t.Fatalf("Classify(+%vh) = %q, want %q", tc.hours, got, tc.want)
			}
		})
	}
}

func TestClassify_DependsOnlyOnDifference(t *testing.T) {
	a := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2031, 7, 9, 18, 30, 0, 0, time.FixedZone("X", 5*3600))
	for _, h := range []time.Duration{2, 10, 30, 80} {
		if Classify(a.Add(h*time.Hour), a) != Classify(b.Add(h*time.Hour), b) {
			t.Fatalf("status for +%dh differs between reference times", h)
		}
	}
}

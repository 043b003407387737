package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// PeriodRange resolves a period expression to inclusive date bounds.
// Accepted forms: "YYYY", "YYYY-MM", "YYYY-MM-DD", and "start:end" where
// each side is one of the former.
func PeriodRange(period string) (from, to string, err error) {
	p := strings.TrimSpace(period)
	if p == "" {
		return "", "", fmt.Errorf("empty period")
	}

	if start, end, ok := strings.Cut(p, ":"); ok {
		f, _, err := periodBounds(start)
		if err != nil {
			return "", "", err
		}
		_, t, err := periodBounds(end)
		if err != nil {
			return "", "", err
		}
		if t < f {
			return "", "", fmt.Errorf("invalid period %q: end before start", period)
		}
		return f, t, nil
	}

	return periodBounds(p)
}

func periodBounds(p string) (from, to string, err error) {
	p = strings.TrimSpace(p)
	switch len(p) {
	case 10: // YYYY-MM-DD
		if _, err := ParseDate(p); err != nil {
			return "", "", err
		}
		return p, p, nil
	case 7: // YYYY-MM
		first, err := time.Parse("2006-01", p)
		if err != nil {
			return "", "", fmt.Errorf("invalid period %q", p)
		}
		last := first.AddDate(0, 1, -1)
		return first.Format(DateLayout), last.Format(DateLayout), nil
	case 4: // YYYY
		first, err := time.Parse("2006", p)
		if err != nil {
			return "", "", fmt.Errorf("invalid period %q", p)
		}
		last := first.AddDate(1, 0, -1)
		return first.Format(DateLayout), last.Format(DateLayout), nil
	}
	return "", "", fmt.Errorf("invalid period %q", p)
}

// CurrentMonth returns the bounds of the current local month.
func CurrentMonth() (from, to string) {
	now := time.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)
	return first.Format(DateLayout), last.Format(DateLayout)
}

// DatesBetween expands inclusive YYYY-MM-DD bounds into every date in
// between. Bounds are assumed valid.
func DatesBetween(from, to string) []string {
	start, err := ParseDate(from)
	if err != nil {
		return nil
	}
	end, err := ParseDate(to)
	if err != nil {
		return nil
	}
	var out []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(DateLayout))
	}
	return out
}

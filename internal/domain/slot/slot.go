package slot

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// TimeLabel names one bookable slot within a day. Labels come from a closed
// vocabulary; they are not free-form timestamps.
type TimeLabel string

const (
	Label0900 TimeLabel = "09:00"
	Label1000 TimeLabel = "10:00"
	Label1100 TimeLabel = "11:00"
	Label1200 TimeLabel = "12:00"
	Label1400 TimeLabel = "14:00"
	Label1500 TimeLabel = "15:00"
	Label1600 TimeLabel = "16:00"
	Label1700 TimeLabel = "17:00"
)

func (l TimeLabel) IsValid() bool {
	switch l {
	case Label0900, Label1000, Label1100, Label1200, Label1400, Label1500, Label1600, Label1700:
		return true
	}
	return false
}

// AllLabels returns the full vocabulary in day order.
func AllLabels() []TimeLabel {
	return []TimeLabel{
		Label0900, Label1000, Label1100, Label1200,
		Label1400, Label1500, Label1600, Label1700,
	}
}

const dateLayout = "2006-01-02"

// Date is a calendar date in "2006-01-02" form. It carries no time-of-day
// component; the TimeLabel does that.
type Date string

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", err
	}
	// Normalize so "2025-5-1" style inputs never slip through as-is.
	return Date(t.Format(dateLayout)), nil
}

func (d Date) IsValid() bool {
	_, err := time.Parse(dateLayout, string(d))
	return err == nil
}

func (d Date) Time() time.Time {
	t, _ := time.Parse(dateLayout, string(d))
	return t
}

func (d Date) String() string {
	return string(d)
}

// Key identifies one bookable unit of time for one provider. Equality is
// exact on all three fields, so Key is usable as a map key.
type Key struct {
	ProviderID uuid.UUID
	Date       Date
	Label      TimeLabel
}

// Dedupe returns labels without duplicates, sorted in day order.
func Dedupe(labels []TimeLabel) []TimeLabel {
	seen := make(map[TimeLabel]struct{}, len(labels))
	out := make([]TimeLabel, 0, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Union merges two label sets, sorted, without duplicates.
func Union(a, b []TimeLabel) []TimeLabel {
	return Dedupe(append(append([]TimeLabel{}, a...), b...))
}

package jobs

import (
	"fmt"
	"strings"
	"time"
)

// Schedule describes when a job should run. Supported expressions:
//
//	@every <duration>   fixed interval, e.g. "@every 5m"
//	@hourly             at the top of every hour
//	@daily, @midnight   at 00:00 UTC every day
type Schedule struct {
	expr  string
	every time.Duration
	align time.Duration
}

func ParseSchedule(expr string) (Schedule, error) {
	switch {
	case strings.HasPrefix(expr, "@every "):
		d, err := time.ParseDuration(strings.TrimPrefix(expr, "@every "))
		if err != nil {
			return Schedule{}, fmt.Errorf("invalid schedule %q: %w", expr, err)
		}
		if d <= 0 {
			return Schedule{}, fmt.Errorf("invalid schedule %q: interval must be positive", expr)
		}
		return Schedule{expr: expr, every: d}, nil
	case expr == "@hourly":
		return Schedule{expr: expr, align: time.Hour}, nil
	case expr == "@daily", expr == "@midnight":
		return Schedule{expr: expr, align: 24 * time.Hour}, nil
	default:
		return Schedule{}, fmt.Errorf("invalid schedule %q", expr)
	}
}

// MustParseSchedule is ParseSchedule for statically known expressions.
func MustParseSchedule(expr string) Schedule {
	s, err := ParseSchedule(expr)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Schedule) String() string {
	return s.expr
}

// Next returns the first activation strictly after t.
func (s Schedule) Next(t time.Time) time.Time {
	if s.every > 0 {
		return t.Add(s.every)
	}
	if s.align > 0 {
		return t.UTC().Truncate(s.align).Add(s.align)
	}
	// Zero value schedule never fires.
	return time.Time{}
}

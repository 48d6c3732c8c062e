package events

import (
	"log/slog"
	"slices"
	"strings"
	"time"
)

// MarketDayLabel is appended to the matched-event list when any weekly
// market pattern applies. It appears at most once per resolution.
const MarketDayLabel = "Market Day"

// DateLayout is the wire format for prediction dates.
const DateLayout = "2006-01-02"

// Resolution is the outcome of resolving a (district, date) pair against
// the event calendar.
type Resolution struct {
	Fiesta        bool
	Holiday       bool
	SpecialEvent  bool
	WeekendMarket bool
	Multiplier    float64
	Names         []string
}

// Calendar resolves districts and dates against a static event
// configuration. It is loaded once at startup and safe for concurrent use.
type Calendar struct {
	cfg    Config
	logger *slog.Logger
}

// NewCalendar wraps an already-parsed configuration.
func NewCalendar(cfg Config, logger *slog.Logger) *Calendar {
	return &Calendar{cfg: cfg, logger: logger}
}

// LoadCalendar reads the configuration at path, degrading to an empty
// calendar on any load failure.
func LoadCalendar(path string, logger *slog.Logger) *Calendar {
	cfg, err := LoadConfig(path)
	if err != nil {
		logger.Warn("event configuration unavailable, using empty calendar", "path", path, "error", err)
		return NewCalendar(Config{}, logger)
	}

	logger.Info("event configuration loaded", "path", path, "events", len(cfg.Events), "weekly_patterns", len(cfg.WeeklyPatterns))
	return NewCalendar(cfg, logger)
}

// Configured reports whether any calendar events are defined.
func (c *Calendar) Configured() bool {
	return len(c.cfg.Events) > 0
}

// ParseTargetDate parses a YYYY-MM-DD prediction date. Empty or
// unparseable values fall back to now; this is a recoverable default, not
// an error.
func ParseTargetDate(raw string, now time.Time) time.Time {
	if raw == "" {
		return now
	}
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return now
	}
	return d
}

// Resolve determines which events apply to the district on the given date
// and computes the combined multiplicative waste adjustment. Multipliers of
// independently matching events compose multiplicatively; the market-day
// label is idempotent across weekly patterns.
func (c *Calendar) Resolve(district string, date time.Time) Resolution {
	monthDay := date.Format("01-02")
	dayName := date.Weekday().String()

	res := Resolution{Multiplier: 1.0}

	for _, ev := range c.cfg.Events {
		if !dateMatches(ev.Dates, monthDay) {
			continue
		}
		if !ev.Affected.Matches(district) {
			continue
		}

		res.SpecialEvent = true
		res.Multiplier *= ev.Multiplier
		res.Names = append(res.Names, ev.Name)

		switch ev.Type {
		case TypeFestival:
			res.Fiesta = true
		case TypeHoliday:
			res.Holiday = true
		}
	}

	for _, pattern := range c.cfg.WeeklyPatterns {
		if !slices.Contains(pattern.Days, dayName) {
			continue
		}
		if !pattern.matchesDistrict(district) {
			continue
		}

		res.WeekendMarket = true
		res.Multiplier *= pattern.Multiplier
		if !slices.Contains(res.Names, MarketDayLabel) {
			res.Names = append(res.Names, MarketDayLabel)
		}
	}

	return res
}

// dateMatches reports whether the derived MM-DD appears as a substring of
// any configured date string. Multi-day strings such as "08-26,08-27" match
// each of their days.
func dateMatches(dates []string, monthDay string) bool {
	for _, d := range dates {
		if strings.Contains(d, monthDay) {
			return true
		}
	}
	return false
}

package events

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// EventType categorizes calendar events for the resolver's output flags.
type EventType string

const (
	TypeFestival EventType = "festival"
	TypeHoliday  EventType = "holiday"
	TypeOther    EventType = "other"
)

// PatternKind tags the variants a district pattern can take.
type PatternKind int

const (
	// PatternName is a string entry. It matches as an exact name, as a
	// case-insensitive substring, and finally as a case-sensitive
	// substring, in that precedence order.
	PatternName PatternKind = iota
	// PatternIndex is a numeric entry n that matches when the literal
	// string "barangay n" appears in the lowercased district name.
	PatternIndex
)

// DistrictPattern is one entry of an affected-district list.
type DistrictPattern struct {
	Kind  PatternKind
	Name  string
	Index int
}

// DistrictSpecifier describes which districts an event applies to: either
// every district, or any district matched by one of its patterns.
type DistrictSpecifier struct {
	All      bool
	Patterns []DistrictPattern
}

// UnmarshalJSON accepts the literal string "all" or a mixed list of string
// and integer entries, as found in the event configuration document.
func (s *DistrictSpecifier) UnmarshalJSON(data []byte) error {
	*s = DistrictSpecifier{}

	var all string
	if err := json.Unmarshal(data, &all); err == nil {
		if all == "all" {
			s.All = true
			return nil
		}
		return fmt.Errorf("unsupported district specifier %q", all)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("district specifier must be \"all\" or a list: %w", err)
	}

	for _, raw := range entries {
		var name string
		if err := json.Unmarshal(raw, &name); err == nil {
			s.Patterns = append(s.Patterns, DistrictPattern{Kind: PatternName, Name: name})
			continue
		}

		var index int
		if err := json.Unmarshal(raw, &index); err == nil {
			s.Patterns = append(s.Patterns, DistrictPattern{Kind: PatternIndex, Index: index})
			continue
		}

		return fmt.Errorf("district entry %s is neither string nor integer", string(raw))
	}

	return nil
}

// Matches reports whether the specifier applies to the named district.
// Precedence, checked across all patterns per rule: exact name match,
// case-insensitive substring, "barangay {n}" index match, case-sensitive
// substring.
func (s DistrictSpecifier) Matches(district string) bool {
	if s.All {
		return true
	}

	lower := strings.ToLower(district)

	for _, p := range s.Patterns {
		if p.Kind == PatternName && p.Name == district {
			return true
		}
	}

	for _, p := range s.Patterns {
		if p.Kind == PatternName && p.Name != "" && strings.Contains(lower, strings.ToLower(p.Name)) {
			return true
		}
	}

	for _, p := range s.Patterns {
		if p.Kind == PatternIndex && strings.Contains(lower, fmt.Sprintf("barangay %d", p.Index)) {
			return true
		}
	}

	for _, p := range s.Patterns {
		if p.Kind == PatternName && p.Name != "" && strings.Contains(district, p.Name) {
			return true
		}
	}

	return false
}

// Event is a configured calendar event with a waste-intensity multiplier.
type Event struct {
	Name       string
	Type       EventType
	Dates      []string
	Affected   DistrictSpecifier
	Multiplier float64
}

// UnmarshalJSON applies per-field defaults so that a partially specified
// event degrades to no-op behavior instead of failing the whole document.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name       string            `json:"name"`
		Type       EventType         `json:"type"`
		Dates      []string          `json:"dates"`
		Affected   DistrictSpecifier `json:"affected_barangays"`
		Multiplier *float64          `json:"waste_multiplier"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.Name = raw.Name
	if e.Name == "" {
		e.Name = "Unknown"
	}
	e.Type = raw.Type
	e.Dates = raw.Dates
	e.Affected = raw.Affected
	e.Multiplier = 1.0
	if raw.Multiplier != nil {
		e.Multiplier = *raw.Multiplier
	}

	return nil
}

// WeeklyPattern is a recurring non-calendar event such as market days.
type WeeklyPattern struct {
	Days       []string
	Districts  []string
	Multiplier float64
}

// UnmarshalJSON defaults a missing multiplier to 1.0.
func (p *WeeklyPattern) UnmarshalJSON(data []byte) error {
	var raw struct {
		Days       []string `json:"days"`
		Districts  []string `json:"barangays"`
		Multiplier *float64 `json:"multiplier"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Days = raw.Days
	p.Districts = raw.Districts
	p.Multiplier = 1.0
	if raw.Multiplier != nil {
		p.Multiplier = *raw.Multiplier
	}

	return nil
}

// matchesDistrict applies the weekly-pattern district rules: exact match or
// case-insensitive substring.
func (p WeeklyPattern) matchesDistrict(district string) bool {
	lower := strings.ToLower(district)
	for _, d := range p.Districts {
		if d == district {
			return true
		}
		if d != "" && strings.Contains(lower, strings.ToLower(d)) {
			return true
		}
	}
	return false
}

// Config is the event-configuration document.
type Config struct {
	Events         []Event                  `json:"events"`
	WeeklyPatterns map[string]WeeklyPattern `json:"weekly_patterns"`
}

// LoadConfig reads and parses the event document at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read events file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse events file: %w", err)
	}

	return cfg, nil
}

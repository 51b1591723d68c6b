package reprise

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// Quality is the SM-2 self-assessed recall score in 0..5.
// A rating of 3 or higher counts as a successful recall.
type Quality int

const (
	Blackout         Quality = iota // Complete failure to recall.
	Incorrect                       // Wrong, but the answer was recognized once shown.
	AlmostRecalled                  // Wrong, but the answer felt familiar.
	RecalledHard                    // Correct with serious difficulty.
	RecalledHesitant                // Correct after some hesitation.
	RecalledPerfect                 // Effortless, immediate recall.
)

var (
	qualityNames = [...]string{
		Blackout:         "Blackout",
		Incorrect:        "Incorrect",
		AlmostRecalled:   "AlmostRecalled",
		RecalledHard:     "RecalledHard",
		RecalledHesitant: "RecalledHesitant",
		RecalledPerfect:  "RecalledPerfect",
	}
	qualityByName = map[string]Quality{
		"Blackout":         Blackout,
		"Incorrect":        Incorrect,
		"AlmostRecalled":   AlmostRecalled,
		"RecalledHard":     RecalledHard,
		"RecalledHesitant": RecalledHesitant,
		"RecalledPerfect":  RecalledPerfect,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Quality(0)
	_ json.Marshaler           = Quality(0)
	_ json.Unmarshaler         = (*Quality)(nil)
	_ encoding.TextMarshaler   = Quality(0)
	_ encoding.TextUnmarshaler = (*Quality)(nil)
)

// IsValid reports whether q is a valid rating (Blackout through RecalledPerfect).
func (q Quality) IsValid() bool {
	return q >= Blackout && q <= RecalledPerfect
}

// Successful reports whether q counts as a successful recall (q >= 3).
func (q Quality) Successful() bool {
	return q >= RecalledHard
}

// String returns the name of the rating ("Blackout" .. "RecalledPerfect").
// For invalid values it returns "Quality(n)".
func (q Quality) String() string {
	if q.IsValid() {
		return qualityNames[q]
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}

// MarshalText implements encoding.TextMarshaler.
func (q Quality) MarshalText() ([]byte, error) {
	if !q.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuality, int(q))
	}
	return []byte(qualityNames[q]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *Quality) UnmarshalText(text []byte) error {
	v, ok := qualityByName[string(text)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidQuality, text)
	}
	*q = v
	return nil
}

// MarshalJSON implements json.Marshaler. Quality serializes as a JSON string.
func (q Quality) MarshalJSON() ([]byte, error) {
	text, err := q.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (q *Quality) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidQuality, data)
	}
	return q.UnmarshalText([]byte(s))
}

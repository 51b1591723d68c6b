package reprise

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// Algorithm identifies the scheduling algorithm governing an ItemState.
// Exactly one algorithm owns a state at a time; switching requires an
// explicit reset via NewState, never a reinterpretation of fields.
type Algorithm int

const (
	SM2     Algorithm = iota + 1 // SuperMemo-2 ease-factor scheduling.
	Leitner                      // Leitner box scheduling.
)

var (
	algorithmNames = [...]string{SM2: "SM2", Leitner: "Leitner"}
	algorithmByName = map[string]Algorithm{
		"SM2":     SM2,
		"Leitner": Leitner,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Algorithm(0)
	_ json.Marshaler           = Algorithm(0)
	_ json.Unmarshaler         = (*Algorithm)(nil)
	_ encoding.TextMarshaler   = Algorithm(0)
	_ encoding.TextUnmarshaler = (*Algorithm)(nil)
)

func (a Algorithm) isValid() bool {
	return a >= SM2 && a <= Leitner
}

// String returns the name of the algorithm ("SM2", "Leitner").
// For invalid values it returns "Algorithm(n)".
func (a Algorithm) String() string {
	if a.isValid() {
		return algorithmNames[a]
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	if !a.isValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(a))
	}
	return []byte(algorithmNames[a]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(text []byte) error {
	v, ok := algorithmByName[string(text)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, text)
	}
	*a = v
	return nil
}

// MarshalJSON implements json.Marshaler. Algorithm serializes as a JSON string.
func (a Algorithm) MarshalJSON() ([]byte, error) {
	text, err := a.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (a *Algorithm) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownAlgorithm, data)
	}
	return a.UnmarshalText([]byte(s))
}

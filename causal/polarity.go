package causal

import (
	"encoding/json"
	"fmt"
)

// Polarity is the sign of a relationship's effect on its target.
type Polarity int

const (
	Increases Polarity = iota // "+"
	Decreases                 // "-"
)

var polarityNames = map[Polarity]string{
	Increases: "increases",
	Decreases: "decreases",
}

func (p Polarity) String() string {
	if name, ok := polarityNames[p]; ok {
		return name
	}
	return "unknown"
}

// Marker returns the character that introduces the polarity in a description.
func (p Polarity) Marker() string {
	if p == Decreases {
		return "-"
	}
	return "+"
}

// Sign returns +1 for Increases and -1 for Decreases.
func (p Polarity) Sign() int {
	if p == Decreases {
		return -1
	}
	return 1
}

// PolarityForMarker maps a separator character to its polarity.
// The second result is false for anything other than '+' or '-'.
func PolarityForMarker(ch rune) (Polarity, bool) {
	switch ch {
	case '+':
		return Increases, true
	case '-':
		return Decreases, true
	default:
		return 0, false
	}
}

// MarshalJSON encodes the polarity as "increases" or "decreases".
func (p Polarity) MarshalJSON() ([]byte, error) {
	name, ok := polarityNames[p]
	if !ok {
		return nil, fmt.Errorf("invalid polarity %d", int(p))
	}
	return json.Marshal(name)
}

// UnmarshalJSON accepts the names produced by MarshalJSON.
func (p *Polarity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for k, v := range polarityNames {
		if v == name {
			*p = k
			return nil
		}
	}
	return fmt.Errorf("unknown polarity %q", name)
}

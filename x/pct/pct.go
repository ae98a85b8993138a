package pct

import (
	"encoding/json"
	"fmt"
)

// ErrOutOfBounds is returned when constructing a Percentage from a ratio
// outside [0, 1].
var ErrOutOfBounds = fmt.Errorf("ratio out of bounds [0, 1]")

// Percentage is a validated ratio in [0, 1]. The zero value is 0%.
type Percentage struct {
	ratio float64
}

// New constructs a Percentage from a ratio in [0, 1].
func New(ratio float64) (Percentage, error) {
	if ratio < 0 || ratio > 1 {
		return Percentage{}, fmt.Errorf("%w: %v", ErrOutOfBounds, ratio)
	}
	return Percentage{ratio: ratio}, nil
}

// MustNew is New for ratios known to be in bounds; it panics otherwise.
func MustNew(ratio float64) Percentage {
	p, err := New(ratio)
	if err != nil {
		panic(err)
	}
	return p
}

// Complete is 100%.
func Complete() Percentage { return Percentage{ratio: 1} }

// Ratio returns the underlying ratio in [0, 1].
func (p Percentage) Ratio() float64 { return p.ratio }

// Less reports whether p is strictly smaller than o.
func (p Percentage) Less(o Percentage) bool { return p.ratio < o.ratio }

func (p Percentage) String() string {
	return fmt.Sprintf("%.2f%%", p.ratio*100)
}

// MarshalJSON encodes the raw ratio, not the formatted string.
func (p Percentage) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ratio)
}

// UnmarshalJSON decodes and validates a raw ratio.
func (p *Percentage) UnmarshalJSON(data []byte) error {
	var ratio float64
	if err := json.Unmarshal(data, &ratio); err != nil {
		return err
	}
	parsed, err := New(ratio)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

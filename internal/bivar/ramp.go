package bivar

import "github.com/rotisserie/eris"

// RampSize is the number of colors in a bivariate ramp: one per cell
// of the 3x3 matrix.
const RampSize = 9

// Ramp is an ordered list of exactly nine colors indexed by joint
// class: index 0 is the low-x/low-y corner, index 8 the high-x/high-y
// corner, increasing left-to-right then bottom-to-top.
type Ramp []string

// Validate checks the ramp length.
func (r Ramp) Validate() error {
	if len(r) != RampSize {
		return eris.Wrapf(ErrInvalidColorCount, "got %d", len(r))
	}
	return nil
}

// Reversed returns a copy of the ramp in reverse order. Legend
// rectangles are drawn top-right to bottom-left while class indices
// run bottom-left to top-right, so the legend consumes the reversed
// ramp.
func (r Ramp) Reversed() Ramp {
	out := make(Ramp, len(r))
	for i, c := range r {
		out[len(r)-1-i] = c
	}
	return out
}

// ScaleStop is one stop of the renderer's color scale.
type ScaleStop struct {
	Pos   float64 `json:"pos"`
	Color string  `json:"color"`
}

// Stops maps the ramp onto nine stops at the normalized positions
// 0/8 .. 8/8. Joint classes are integers, so every data value lands
// exactly on a stop and no interpolation between classes can occur.
func (r Ramp) Stops() ([]ScaleStop, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	stops := make([]ScaleStop, RampSize)
	for i, c := range r {
		stops[i] = ScaleStop{Pos: float64(i) / 8, Color: c}
	}
	return stops, nil
}

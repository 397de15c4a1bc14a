package bivar

import "github.com/rotisserie/eris"

// Sentinel errors for the classification and composition pipeline.
// All are raised synchronously at the point of violation; none are
// downgraded to defaults. Any of them aborts map construction.
var (
	// ErrShapeMismatch indicates the x and y columns differ in length.
	ErrShapeMismatch = eris.New("bivar: x and y columns must have the same length")

	// ErrInvalidColorCount indicates a color ramp whose length is not 9.
	ErrInvalidColorCount = eris.New("bivar: color ramp must contain exactly 9 colors")

	// ErrUnknownScaleKey indicates a rescale key outside the enumerated set.
	ErrUnknownScaleKey = eris.New("bivar: unknown rescale key")
)

package bivar

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/bivarmap/internal/frame"
)

// BinsColumn is the name of the joint-class column Classify adds.
const BinsColumn = "biv_bins"

// Breaks holds the tercile break points of one variable.
// Lower <= Upper always; degenerate distributions may make them equal.
type Breaks struct {
	Lower float64 // 33rd percentile
	Upper float64 // 66th percentile
}

// TercileBreaks computes the 33rd and 66th percentile of values using
// linear interpolation between order statistics. The input slice is
// not modified. Panics on an empty slice; callers guard.
func TercileBreaks(values []float64) Breaks {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return Breaks{
		Lower: percentile(sorted, 33),
		Upper: percentile(sorted, 66),
	}
}

// percentile returns the p-th percentile of a sorted slice, with
// linear interpolation between adjacent order statistics.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := p / 100 * float64(n-1)
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// binFor assigns a value to one of three bins using closed-left
// intervals: v <= Lower -> 0, Lower < v <= Upper -> 1, else 2.
// A value exactly equal to a break resolves to the lower bin.
func binFor(v float64, b Breaks) int {
	switch {
	case v <= b.Lower:
		return 0
	case v <= b.Upper:
		return 1
	default:
		return 2
	}
}

// JointClass combines two tercile bins into the 0-8 index of the
// 3x3 color matrix. Indices increase left-to-right, then bottom-to-top.
func JointClass(xBin, yBin int) int {
	return xBin + 3*yBin
}

// Classify computes tercile breaks for the two named columns, assigns
// every row a joint class, and returns a new frame with the class
// stored in the BinsColumn int column. The input frame is never
// mutated and no row is dropped; output is deterministic for a fixed
// input.
func Classify(f *frame.Frame, xCol, yCol string) (*frame.Frame, error) {
	xs, err := f.Floats(xCol)
	if err != nil {
		return nil, eris.Wrap(err, "classify: x column")
	}
	ys, err := f.Floats(yCol)
	if err != nil {
		return nil, eris.Wrap(err, "classify: y column")
	}
	if len(xs) != len(ys) {
		return nil, eris.Wrapf(ErrShapeMismatch, "%q has %d rows, %q has %d", xCol, len(xs), yCol, len(ys))
	}

	classes := make([]int, len(xs))
	if len(xs) > 0 {
		xBreaks := TercileBreaks(xs)
		yBreaks := TercileBreaks(ys)
		for i := range xs {
			classes[i] = JointClass(binFor(xs[i], xBreaks), binFor(ys[i], yBreaks))
		}
	}

	out, err := f.WithInts(BinsColumn, classes)
	if err != nil {
		return nil, eris.Wrap(err, "classify: add bins column")
	}
	return out, nil
}

package filters

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// SavitzkyGolay implements Savitzky-Golay smoothing: a least-squares fit of a
// low-degree polynomial over a sliding window, evaluated at the window
// center. Unlike plain moving averages it preserves the height and position
// of genuine extrema while removing small fluctuations.
//
// Boundary samples are handled by fitting a single polynomial to the first
// and last full window (scipy.signal.savgol_filter "interp" mode).
//
// References:
//   - A. Savitzky, M.J.E. Golay, "Smoothing and Differentiation of Data by
//     Simplified Least Squares Procedures", Analytical Chemistry, 1964
type SavitzkyGolay struct {
	windowLength int
	polyOrder    int
	coeffs       []float64
}

// NewSavitzkyGolay creates a Savitzky-Golay smoother. The window length must
// be odd and greater than the polynomial order.
func NewSavitzkyGolay(windowLength, polyOrder int) (*SavitzkyGolay, error) {
	if windowLength%2 == 0 || windowLength < 1 {
		return nil, fmt.Errorf("window length must be odd and positive, got %d", windowLength)
	}
	if polyOrder >= windowLength {
		return nil, fmt.Errorf("polynomial order (%d) must be less than window length (%d)", polyOrder, windowLength)
	}

	sg := &SavitzkyGolay{
		windowLength: windowLength,
		polyOrder:    polyOrder,
	}
	if err := sg.computeCoefficients(); err != nil {
		return nil, err
	}

	return sg, nil
}

// computeCoefficients derives the convolution weights for the window center
// from the least-squares design matrix: c = (A^T A)^-1 A^T picked at order 0
func (sg *SavitzkyGolay) computeCoefficients() error {
	half := sg.windowLength / 2

	a := mat.NewDense(sg.windowLength, sg.polyOrder+1, nil)
	for i := 0; i < sg.windowLength; i++ {
		x := float64(i - half)
		p := 1.0
		for j := 0; j <= sg.polyOrder; j++ {
			a.Set(i, j, p)
			p *= x
		}
	}

	var ata mat.Dense
	ata.Mul(a.T(), a)

	var inv mat.Dense
	if err := inv.Inverse(&ata); err != nil {
		return fmt.Errorf("singular design matrix: %w", err)
	}

	var proj mat.Dense
	proj.Mul(&inv, a.T())

	sg.coeffs = make([]float64, sg.windowLength)
	for i := range sg.coeffs {
		sg.coeffs[i] = proj.At(0, i)
	}

	return nil
}

// Apply smooths the signal. Signals not longer than the window are returned
// unchanged, the caller is expected to skip the filter in that case.
func (sg *SavitzkyGolay) Apply(signal []float64) []float64 {
	out := make([]float64, len(signal))
	copy(out, signal)

	if len(signal) <= sg.windowLength {
		return out
	}

	half := sg.windowLength / 2

	for i := half; i < len(signal)-half; i++ {
		acc := 0.0
		for k := 0; k < sg.windowLength; k++ {
			acc += sg.coeffs[k] * signal[i-half+k]
		}
		out[i] = acc
	}

	// Edge samples come from polynomials fitted to the first and last window
	sg.fitEdge(signal, out, 0, half)
	sg.fitEdge(signal, out, len(signal)-sg.windowLength, len(signal)-half)

	return out
}

// fitEdge fits one polynomial to signal[start:start+windowLength] and writes
// the evaluated fit over out[evalFrom:evalFrom+half] (or the tail region)
func (sg *SavitzkyGolay) fitEdge(signal, out []float64, start, evalUpTo int) {
	a := mat.NewDense(sg.windowLength, sg.polyOrder+1, nil)
	b := mat.NewVecDense(sg.windowLength, nil)
	for i := 0; i < sg.windowLength; i++ {
		x := float64(i)
		p := 1.0
		for j := 0; j <= sg.polyOrder; j++ {
			a.Set(i, j, p)
			p *= x
		}
		b.SetVec(i, signal[start+i])
	}

	var coef mat.VecDense
	if err := coef.SolveVec(a, b); err != nil {
		return
	}

	evalFrom := start
	if start > 0 {
		evalFrom = evalUpTo
		evalUpTo = start + sg.windowLength
	}

	for i := evalFrom; i < evalUpTo; i++ {
		x := float64(i - start)
		val := 0.0
		p := 1.0
		for j := 0; j <= sg.polyOrder; j++ {
			val += coef.AtVec(j) * p
			p *= x
		}
		if !math.IsNaN(val) {
			out[i] = val
		}
	}
}

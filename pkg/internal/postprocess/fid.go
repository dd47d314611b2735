package postprocess

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"github.com/joeydtaylor/jcamp/pkg/internal/types"
	"github.com/mjibson/go-dsp/fft"
)

// FIDSpectrum pairs the real (R) and imaginary (I) pages of an NMR FID entry, applies the FFT
// and returns the magnitude spectrum centred on zero frequency. The time axis spacing sets the
// frequency axis, in Hz.
func FIDSpectrum(e *types.Entry) (*types.Spectrum, error) {
	var re, im *types.Spectrum
	for _, s := range e.Spectra {
		switch strings.ToUpper(dependentSymbol(s)) {
		case "R":
			re = s
		case "I":
			im = s
		}
	}
	if re == nil || im == nil {
		return nil, fmt.Errorf("entry %q: real and imaginary pages required", e.Title)
	}
	n := len(re.Data.Y)
	if n == 0 || len(im.Data.Y) != n {
		return nil, fmt.Errorf("entry %q: real and imaginary pages differ in length (%d, %d)", e.Title, n, len(im.Data.Y))
	}

	signal := make([]complex128, n)
	for i := range signal {
		signal[i] = complex(re.Data.Y[i], im.Data.Y[i])
	}
	freq := fft.FFT(signal)

	dt := re.DeltaX
	if dt == 0 && n > 1 && len(re.Data.X) == n {
		dt = (re.Data.X[n-1] - re.Data.X[0]) / float64(n-1)
	}
	if dt == 0 {
		dt = 1
	}
	dt = math.Abs(dt)

	out := types.NewSpectrum()
	out.Title = e.Title
	out.XUnits = "HZ"
	out.YUnits = "ARBITRARY UNITS"
	out.Kind = types.KindExternal
	out.NbPoints = n
	out.ObserveFrequency = re.ObserveFrequency
	out.Data.X = make([]float64, n)
	out.Data.Y = make([]float64, n)
	half := n / 2
	for k := 0; k < n; k++ {
		// fftshift: negative frequencies first
		src := (k + half) % n
		out.Data.X[k] = float64(k-half) / (float64(n) * dt)
		out.Data.Y[k] = cmplx.Abs(freq[src])
	}
	out.FirstX = out.Data.X[0]
	out.LastX = out.Data.X[n-1]
	out.DeltaX = 1 / (float64(n) * dt)
	return out, nil
}

func dependentSymbol(s *types.Spectrum) string {
	if len(s.Order) > 1 {
		return s.Variables[s.Order[1]].Symbol
	}
	return ""
}

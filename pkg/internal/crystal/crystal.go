// Package crystal shapes predicted powder diffraction patterns into entries. The prediction
// itself is done by an external engine behind the Predictor interface.
package crystal

import (
	"context"
	"fmt"
	"strings"

	"github.com/joeydtaylor/jcamp/pkg/internal/types"
)

// PredictRequest is the input of one pattern prediction.
type PredictRequest struct {
	Title             string  `json:"title,omitempty"`
	CIF               string  `json:"cif"`
	TwoThetaMin       float64 `json:"twoThetaMin"`
	TwoThetaMax       float64 `json:"twoThetaMax"`
	RaySource         string  `json:"raySource"`
	SymmetryPrecision float64 `json:"symmetryPrecision"`
	Smooth            bool    `json:"smooth"`
	SmoothStep        float64 `json:"smoothStep,omitempty"`
	Scaled            bool    `json:"scaled"`
}

// Point is one (2theta, intensity) sample of a predicted pattern.
type Point struct {
	TwoTheta  float64 `json:"twoTheta"`
	Intensity float64 `json:"intensity"`
}

// Predictor turns a crystal structure into a diffraction pattern.
type Predictor interface {
	Predict(ctx context.Context, req PredictRequest) ([]Point, error)
}

// Defaults fills the unset fields of req.
func Defaults(req PredictRequest) PredictRequest {
	if req.TwoThetaMax == 0 {
		req.TwoThetaMax = 90
	}
	if req.RaySource == "" {
		req.RaySource = "CuKa"
	}
	if req.SymmetryPrecision == 0 {
		req.SymmetryPrecision = 0.01
	}
	if req.Smooth && req.SmoothStep == 0 {
		req.SmoothStep = 0.02
	}
	return req
}

// Validate reports requests the engine cannot serve.
func Validate(req PredictRequest) error {
	switch {
	case strings.TrimSpace(req.CIF) == "":
		return fmt.Errorf("crystal: empty CIF")
	case req.TwoThetaMin < 0 || req.TwoThetaMax > 180 || req.TwoThetaMin >= req.TwoThetaMax:
		return fmt.Errorf("crystal: invalid 2theta range [%v, %v]", req.TwoThetaMin, req.TwoThetaMax)
	case req.SymmetryPrecision <= 0:
		return fmt.Errorf("crystal: symmetry precision must be positive")
	}
	return nil
}

// Simulate runs p and shapes its output. Points outside the requested range are dropped.
func Simulate(ctx context.Context, p Predictor, req PredictRequest) (*types.Entry, error) {
	req = Defaults(req)
	if err := Validate(req); err != nil {
		return nil, err
	}
	points, err := p.Predict(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("crystal: predict: %w", err)
	}
	kept := points[:0:0]
	for _, pt := range points {
		if pt.TwoTheta >= req.TwoThetaMin && pt.TwoTheta <= req.TwoThetaMax {
			kept = append(kept, pt)
		}
	}
	return ToEntry(req, kept), nil
}

// ToEntry builds an entry holding one spectrum: x is 2theta in degrees, y the intensity.
func ToEntry(req PredictRequest, points []Point) *types.Entry {
	title := req.Title
	if title == "" {
		title = "Predicted powder pattern"
	}
	e := types.NewEntry(title)
	e.DataType = "X-RAY DIFFRACTION"
	e.Meta.Add("RAYSOURCE", req.RaySource)
	e.Meta.Add("SYMMETRYPRECISION", req.SymmetryPrecision)
	e.Meta.Add("SMOOTH", req.Smooth)
	e.Meta.Add("SCALED", req.Scaled)

	s := types.NewSpectrum()
	s.Title = title
	s.XUnits = "DEGREES"
	s.XLabel = "2THETA"
	s.YUnits = "ARBITRARY UNITS"
	s.YLabel = "INTENSITY"
	s.Kind = types.KindExternal
	s.Data.X = make([]float64, len(points))
	s.Data.Y = make([]float64, len(points))
	for i, p := range points {
		s.Data.X[i] = p.TwoTheta
		s.Data.Y[i] = p.Intensity
	}
	s.NbPoints = len(points)
	if len(points) > 0 {
		s.FirstX, s.LastX = points[0].TwoTheta, points[len(points)-1].TwoTheta
		s.FirstY, s.LastY = points[0].Intensity, points[len(points)-1].Intensity
	}
	s.SetVariable("x", &types.Variable{Symbol: "X", Label: s.XLabel, Units: s.XUnits, Factor: 1, Data: s.Data.X})
	s.SetVariable("y", &types.Variable{Symbol: "Y", Label: s.YLabel, Units: s.YUnits, Factor: 1, Data: s.Data.Y})
	e.Spectra = append(e.Spectra, s)
	return e
}

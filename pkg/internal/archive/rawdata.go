package archive

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/joeydtaylor/jcamp/pkg/internal/types"
)

// rawData mirrors the parts of RawData0.xml that are read. Everything else in the member
// is ignored.
type rawData struct {
	XMLName xml.Name `xml:"RawData"`
	Header  struct {
		Title      string `xml:"Title"`
		Technique  string `xml:"Technique"`
		Instrument string `xml:"Instrument"`
		Operator   string `xml:"Operator"`
		Date       string `xml:"AcquisitionDate"`
		Properties []struct {
			Name  string `xml:"name,attr"`
			Value string `xml:",chardata"`
		} `xml:"Property"`
	} `xml:"Header"`
	XAxis axis `xml:"XAxis"`
	YAxis axis `xml:"YAxis"`
}

type axis struct {
	Units  string `xml:"units,attr"`
	Label  string `xml:"label,attr"`
	First  string `xml:"first,attr"`
	Last   string `xml:"last,attr"`
	Count  string `xml:"count,attr"`
	Values string `xml:"Values"`
}

// ReadRawData extracts RawDataMember from an instrument container and builds an Entry with
// a single spectrum from it.
func ReadRawData(archiveBytes []byte) (*types.Entry, error) {
	text, err := ExtractMember(archiveBytes, RawDataMember)
	if err != nil {
		return nil, err
	}
	return ParseRawData(text)
}

// ParseRawData builds an Entry from the text of a RawData0.xml member. The x axis is either
// listed explicitly or spread evenly between its first and last attributes.
func ParseRawData(text string) (*types.Entry, error) {
	var rd rawData
	if err := xml.Unmarshal([]byte(text), &rd); err != nil {
		return nil, fmt.Errorf("archive: %s: %w", RawDataMember, err)
	}

	y, err := floats(rd.YAxis.Values)
	if err != nil {
		return nil, fmt.Errorf("archive: y values: %w", err)
	}
	if len(y) == 0 {
		return nil, fmt.Errorf("archive: %s has no y values", RawDataMember)
	}

	x, err := floats(rd.XAxis.Values)
	if err != nil {
		return nil, fmt.Errorf("archive: x values: %w", err)
	}
	if len(x) == 0 {
		if x, err = spread(rd.XAxis, len(y)); err != nil {
			return nil, err
		}
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("archive: %d x values for %d y values", len(x), len(y))
	}

	title := strings.TrimSpace(rd.Header.Title)
	if title == "" {
		title = RawDataMember
	}
	e := types.NewEntry(title)
	e.JCAMPDX = "5.01"
	e.DataType = strings.TrimSpace(rd.Header.Technique)
	e.DataClass = "XYDATA"
	if e.DataType != "" {
		e.Info.Add("DATATYPE", e.DataType)
	}
	for _, kv := range [][2]string{
		{"INSTRUMENT", rd.Header.Instrument},
		{"OPERATOR", rd.Header.Operator},
		{"DATE", rd.Header.Date},
	} {
		if v := strings.TrimSpace(kv[1]); v != "" {
			e.Info.Add(kv[0], v)
		}
	}
	for _, p := range rd.Header.Properties {
		if name := strings.ToUpper(strings.TrimSpace(p.Name)); name != "" {
			e.Meta.Add(name, types.TypedValue(p.Value))
		}
	}

	s := types.NewSpectrum()
	s.Title = title
	s.Kind = types.KindExternal
	s.XUnits, s.XLabel = rd.XAxis.Units, rd.XAxis.Label
	s.YUnits, s.YLabel = rd.YAxis.Units, rd.YAxis.Label
	s.Data = types.XY{X: x, Y: y}
	s.NbPoints = len(x)
	s.FirstX, s.LastX = x[0], x[len(x)-1]
	s.FirstY, s.LastY = y[0], y[len(y)-1]
	if len(x) > 1 {
		s.DeltaX = (s.LastX - s.FirstX) / float64(len(x)-1)
	}
	s.SetVariable("x", &types.Variable{Symbol: "X", Label: s.XLabel, Units: s.XUnits, Type: "INDEPENDENT", Data: x})
	s.SetVariable("y", &types.Variable{Symbol: "Y", Label: s.YLabel, Units: s.YUnits, Type: "DEPENDENT", Data: y})
	e.Spectra = append(e.Spectra, s)
	return e, nil
}

func floats(text string) ([]float64, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := types.ParseNumber(f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func spread(a axis, n int) ([]float64, error) {
	first, err1 := types.ParseNumber(strings.TrimSpace(a.First))
	last, err2 := types.ParseNumber(strings.TrimSpace(a.Last))
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("archive: x axis needs values or first/last attributes")
	}
	if c := strings.TrimSpace(a.Count); c != "" {
		if cnt, err := strconv.Atoi(c); err != nil || cnt != n {
			return nil, fmt.Errorf("archive: x axis count %q does not match %d y values", c, n)
		}
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = first
		return out, nil
	}
	step := (last - first) / float64(n-1)
	for i := range out {
		out[i] = first + float64(i)*step
	}
	out[n-1] = last
	return out, nil
}

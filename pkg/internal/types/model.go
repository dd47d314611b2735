package types

// Document is the result of decoding one JCAMP-DX buffer. Entries is an arena holding every
// entry in the order its TITLE record was seen; Roots and Entry.Children index into it, so the
// tree can be walked without parent back-references.
type Document struct {
	Entries []*Entry `json:"entries"`
	Roots   []int    `json:"roots"`
}

// Entry is one logical block opened by ##TITLE and closed by ##END.
type Entry struct {
	Title     string `json:"title"`
	JCAMPDX   string `json:"jcampDX,omitempty"`
	DataType  string `json:"dataType,omitempty"`
	DataClass string `json:"dataClass,omitempty"`
	TwoD      bool   `json:"twoD"`

	// Nuclei lists the observed nuclei of a multi-dimensional NMR entry, direct dimension first.
	Nuclei []string `json:"nuclei,omitempty"`

	// NTuples holds the declared NTUPLES attribute tables (VAR_NAME, SYMBOL, ...), one value
	// per declared variable.
	NTuples *NTuples `json:"ntuples,omitempty"`

	Info *Metadata `json:"info"` // public labels
	Meta *Metadata `json:"meta"` // user labels, '$' prefix removed

	Spectra  []*Spectrum `json:"spectra"`
	Children []int       `json:"children,omitempty"`

	Chromatogram *Chromatogram `json:"chromatogram,omitempty"`
	Matrix       *Matrix2D     `json:"minMax,omitempty"`
}

// NewDocument returns a document whose roots are the given entries.
func NewDocument(entries ...*Entry) *Document {
	d := &Document{Entries: entries, Roots: make([]int, len(entries))}
	for i := range entries {
		d.Roots[i] = i
	}
	return d
}

// NewEntry returns an Entry with its maps allocated.
func NewEntry(title string) *Entry {
	return &Entry{
		Title:   title,
		NTuples: NewNTuples(),
		Info:    NewMetadata(),
		Meta:    NewMetadata(),
	}
}

// Child returns the entry at arena index idx or nil.
func (d *Document) Child(idx int) *Entry {
	if idx < 0 || idx >= len(d.Entries) {
		return nil
	}
	return d.Entries[idx]
}

// Children resolves the child indices of e against the document arena.
func (d *Document) Children(e *Entry) []*Entry {
	out := make([]*Entry, 0, len(e.Children))
	for _, idx := range e.Children {
		if c := d.Child(idx); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Flatten returns every entry holding at least one spectrum, in document order.
func (d *Document) Flatten() []*Entry {
	out := make([]*Entry, 0, len(d.Entries))
	for _, e := range d.Entries {
		if len(e.Spectra) > 0 {
			out = append(out, e)
		}
	}
	return out
}

// XY is the decoded payload of a spectrum.
type XY struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// Len returns the number of points, or -1 when X and Y disagree.
func (d XY) Len() int {
	if len(d.X) != len(d.Y) {
		return -1
	}
	return len(d.X)
}

// Variable is one declared dimension of a spectrum.
type Variable struct {
	Symbol string    `json:"symbol"`
	Label  string    `json:"label,omitempty"`
	Units  string    `json:"units,omitempty"`
	Type   string    `json:"type,omitempty"`
	Form   string    `json:"form,omitempty"`
	Dim    int       `json:"dim,omitempty"`
	Factor float64   `json:"factor,omitempty"`
	First  float64   `json:"first,omitempty"`
	Last   float64   `json:"last,omitempty"`
	Min    float64   `json:"min,omitempty"`
	Max    float64   `json:"max,omitempty"`
	Data   []float64 `json:"data,omitempty"`
}

// Spectrum accumulates header records until a data block finalizes it.
type Spectrum struct {
	// Variables are keyed by lowercase symbol; Order keeps declaration order.
	Variables map[string]*Variable `json:"variables,omitempty"`
	Order     []string             `json:"-"`

	Title string `json:"title,omitempty"`

	XUnits string `json:"xUnits,omitempty"`
	YUnits string `json:"yUnits,omitempty"`
	XLabel string `json:"xLabel,omitempty"`
	YLabel string `json:"yLabel,omitempty"`

	FirstX   float64 `json:"firstX"`
	LastX    float64 `json:"lastX"`
	FirstY   float64 `json:"firstY"`
	LastY    float64 `json:"lastY"`
	XFactor  float64 `json:"xFactor"`
	YFactor  float64 `json:"yFactor"`
	DeltaX   float64 `json:"deltaX"`
	NbPoints int     `json:"nbPoints"`

	MinX, MaxX, MinY, MaxY float64 `json:"-"`

	ObserveFrequency float64 `json:"observeFrequency,omitempty"`
	ShiftOffset      float64 `json:"shiftOffset,omitempty"`
	HasShiftOffset   bool    `json:"-"`
	Nucleus          string  `json:"nucleus,omitempty"`

	Page        string  `json:"page,omitempty"`
	PageValue   float64 `json:"pageValue,omitempty"`
	PageSymbol  string  `json:"pageSymbol,omitempty"`
	HasPage     bool    `json:"-"`
	DataTable   string  `json:"dataTable,omitempty"`
	Description string  `json:"sampleDescription,omitempty"`

	// Fields carries per-scan GC/MS values such as tic, ric and scannumber.
	Fields map[string]string `json:"fields,omitempty"`

	Kind DataKind `json:"kind"`
	Data XY       `json:"data"`

	has map[string]bool
}

// DataKind records which data block produced the payload.
type DataKind string

const (
	KindXYData      DataKind = "xydata"
	KindPeakTable   DataKind = "peaktable"
	KindAssignments DataKind = "peakassignments"
	KindExternal    DataKind = "external"
)

// NewSpectrum returns an empty spectrum with unit factors.
func NewSpectrum() *Spectrum {
	return &Spectrum{XFactor: 1, YFactor: 1}
}

// Mark records that a header field was explicitly declared.
func (s *Spectrum) Mark(field string) {
	if s.has == nil {
		s.has = make(map[string]bool)
	}
	s.has[field] = true
}

// Has reports whether a header field was explicitly declared.
func (s *Spectrum) Has(field string) bool {
	return s.has[field]
}

// SetVariable registers v under its lowercase symbol, keeping declaration order.
func (s *Spectrum) SetVariable(key string, v *Variable) {
	if s.Variables == nil {
		s.Variables = make(map[string]*Variable)
	}
	if _, ok := s.Variables[key]; !ok {
		s.Order = append(s.Order, key)
	}
	s.Variables[key] = v
}

// Series groups one named trace of a chromatogram.
type Series struct {
	Name      string    `json:"name"`
	Dimension int       `json:"dimension"`
	Values    []float64 `json:"data,omitempty"`
	Scans     []XY      `json:"scans,omitempty"`
}

// Chromatogram is the time-resolved reduction of an entry.
type Chromatogram struct {
	Times  []float64 `json:"times"`
	Series []*Series `json:"series"`
}

// Get returns the named series or nil.
func (c *Chromatogram) Get(name string) *Series {
	for _, s := range c.Series {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Matrix2D summarises a 2D entry: Z has one row per page and one column per point.
type Matrix2D struct {
	Z    [][]float64 `json:"z"`
	MinX float64     `json:"minX"`
	MaxX float64     `json:"maxX"`
	MinY float64     `json:"minY"`
	MaxY float64     `json:"maxY"`
	MinZ float64     `json:"minZ"`
	MaxZ float64     `json:"maxZ"`
}

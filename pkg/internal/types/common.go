package types

// ComponentMetadata identifies a component in log output.
type ComponentMetadata struct {
	ID   string // Unique identifier for the component instance.
	Type string // Component class, e.g. "ASSEMBLER".
	Name string // Human-readable name.
}

// Option configures a component of type T.
type Option[T any] func(T)

// Result is what a parse returns: the document plus the recovered format problems.
type Result struct {
	Document    *Document    `json:"document"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Logs renders the diagnostics as text lines.
func (r *Result) Logs() []string {
	out := make([]string, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		out[i] = d.String()
	}
	return out
}

package ldr

import "testing"

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"TITLE", "TITLE"},
		{"Data Type", "DATATYPE"},
		{"PEAK TABLE", "PEAKTABLE"},
		{"xy_data", "XYDATA"},
		{"JCAMP-DX", "JCAMPDX"},
		{"$Sfo1", "$SFO1"},
		{".OBSERVE FREQUENCY", ".OBSERVEFREQUENCY"},
		{" END NTUPLES ", "ENDNTUPLES"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Canonicalize(tt.in); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSplit_Basic(t *testing.T) {
	text := "##TITLE= Sample A \n##JCAMP-DX=4.24\n##$USER KEY=x\n##XYDATA=(X++(Y..Y))\n1 2 3\n4 5 6\n##END="
	recs := Split(text)
	if len(recs) != 5 {
		t.Fatalf("expected 5 records, got %d: %+v", len(recs), recs)
	}
	if recs[0].Canonical != "TITLE" || recs[0].Value != "Sample A" {
		t.Fatalf("unexpected first record %+v", recs[0])
	}
	if !recs[2].Private || recs[2].Key() != "USERKEY" || recs[2].Label != "$USER KEY" {
		t.Fatalf("unexpected private record %+v", recs[2])
	}
	if recs[3].Value != "(X++(Y..Y))\n1 2 3\n4 5 6" {
		t.Fatalf("unexpected data value %q", recs[3].Value)
	}
	if recs[3].Line != 4 {
		t.Fatalf("expected XYDATA on line 4, got %d", recs[3].Line)
	}
	if recs[4].Canonical != "END" || recs[4].Value != "" {
		t.Fatalf("unexpected END record %+v", recs[4])
	}
}

func TestSplit_LeadingMarkerHasNoEmptyRecord(t *testing.T) {
	recs := Split("##TITLE=A\n##END=")
	if len(recs) != 2 || recs[0].Canonical != "TITLE" {
		t.Fatalf("expected TITLE first without empty record, got %+v", recs)
	}
}

func TestSplit_PreambleIgnored(t *testing.T) {
	recs := Split("\ufeff\r\n\r\n##TITLE=A\r\n##END=\r\n")
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %+v", recs)
	}
	if recs[0].Line != 3 {
		t.Fatalf("expected TITLE on line 3, got %d", recs[0].Line)
	}
}

func TestSplit_NoEqualsGivesEmptyValue(t *testing.T) {
	recs := Split("##TITLE=A\n##NOVALUE\n##END=")
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	if recs[1].Canonical != "NOVALUE" || recs[1].Value != "" {
		t.Fatalf("unexpected record %+v", recs[1])
	}
}

func TestSplit_InlineHashesStayInValue(t *testing.T) {
	recs := Split("##TITLE=A ## B\n##END=")
	if len(recs) != 2 || recs[0].Value != "A ## B" {
		t.Fatalf("expected inline ## kept in value, got %+v", recs)
	}
}

func TestSplitter_IsLazyAndFinite(t *testing.T) {
	s := NewSplitter("##A=1\n##B=2")
	first, ok := s.Next()
	if !ok || first.Canonical != "A" {
		t.Fatalf("expected A, got %+v", first)
	}
	second, ok := s.Next()
	if !ok || second.Value != "2" {
		t.Fatalf("expected B=2, got %+v", second)
	}
	if _, ok := s.Next(); ok {
		t.Fatalf("expected exhausted splitter")
	}
	if _, ok := s.Next(); ok {
		t.Fatalf("expected splitter to stay exhausted")
	}
}

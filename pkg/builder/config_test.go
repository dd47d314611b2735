package builder

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseConfigYAML(t *testing.T) {
	cfg, err := ParseConfigYAML([]byte(`
log:
  level: debug
parse:
  nmr: false
  chromatogram: true
  keepRecords: "^(TITLE|DATATYPE)$"
serialize:
  owner: lab
  compression: zstd
export:
  compression: gzip
s3:
  bucket: spectra
  duration: 30m
  forcePathStyle: true
smooth:
  window: 11
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Serialize.Owner != "lab" || cfg.Serialize.Compression != "zstd" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Parse.NMR == nil || *cfg.Parse.NMR || !cfg.Parse.Chromatogram || cfg.Parse.DynamicTyping != nil {
		t.Fatalf("unexpected parse config: %+v", cfg.Parse)
	}
	if cfg.S3.Bucket != "spectra" || cfg.S3.Duration != 30*time.Minute || !cfg.S3.ForcePathStyle {
		t.Fatalf("unexpected s3 config: %+v", cfg.S3)
	}
	if cfg.S3.Region != "us-east-1" || cfg.Smooth.Window != 11 || cfg.Smooth.Polynomial != 2 {
		t.Fatalf("expected defaults to survive: %+v", cfg)
	}
}

func TestParseConfigYAML_UnknownField(t *testing.T) {
	if _, err := ParseConfigYAML([]byte("parse:\n  dynamic: true\n")); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jcamp.yaml")
	if err := os.WriteFile(path, []byte("s3:\n  bucket: from-file\n  region: eu-west-1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("JCAMP_S3_BUCKET", "from-env")
	t.Setenv("JCAMP_EXPORT_ROW_GROUP_ROWS", "10")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.S3.Bucket != "from-env" {
		t.Fatalf("expected env override, got %q", cfg.S3.Bucket)
	}
	if cfg.S3.Region != "eu-west-1" {
		t.Fatalf("expected file value, got %q", cfg.S3.Region)
	}
	if cfg.Export.RowGroupRows != 10 {
		t.Fatalf("expected 10 rows per group, got %d", cfg.Export.RowGroupRows)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Export.Compression == "" || cfg.Log.Level == "" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

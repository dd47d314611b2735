package builder

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the file layout read by the jcampdx command and the examples. Environment
// variables override file values, see ApplyEnv.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Parse     ParseConfig     `yaml:"parse"`
	Serialize SerializeConfig `yaml:"serialize"`
	Export    ExportConfig    `yaml:"export"`
	S3        S3Config        `yaml:"s3"`
	Smooth    SmoothConfig    `yaml:"smooth"`
	Crystal   CrystalConfig   `yaml:"crystal"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
	File        string `yaml:"file"`
}

// ParseConfig mirrors the assembler options. Nil pointers keep the assembler defaults.
type ParseConfig struct {
	DynamicTyping *bool  `yaml:"dynamicTyping"`
	CanonicLabels *bool  `yaml:"canonicLabels"`
	NMR           *bool  `yaml:"nmr"`
	Chromatogram  bool   `yaml:"chromatogram"`
	Latin1        bool   `yaml:"latin1"`
	WithoutXY     bool   `yaml:"withoutXY"`
	KeepRecords   string `yaml:"keepRecords"` // regular expression on labels
}

type SerializeConfig struct {
	Owner       string `yaml:"owner"`
	Origin      string `yaml:"origin"`
	Compression string `yaml:"compression"` // gzip, zstd, snappy, brotli, lz4 or none
}

type ExportConfig struct {
	Compression  string `yaml:"compression"` // parquet codec: snappy, zstd or gzip
	RowGroupRows int    `yaml:"rowGroupRows"`
}

type S3Config struct {
	Bucket         string        `yaml:"bucket"`
	Prefix         string        `yaml:"prefix"`
	Region         string        `yaml:"region"`
	Endpoint       string        `yaml:"endpoint"`
	ForcePathStyle bool          `yaml:"forcePathStyle"`
	AccessKey      string        `yaml:"accessKey"`
	SecretKey      string        `yaml:"secretKey"`
	SessionToken   string        `yaml:"sessionToken"`
	RoleARN        string        `yaml:"roleArn"`
	SessionName    string        `yaml:"sessionName"`
	ExternalID     string        `yaml:"externalId"`
	Duration       time.Duration `yaml:"duration"`
	SSEMode        string        `yaml:"sseMode"`
	KMSKeyID       string        `yaml:"kmsKeyId"`
}

type SmoothConfig struct {
	Window     int `yaml:"window"`
	Polynomial int `yaml:"polynomial"`
	Derivative int `yaml:"derivative"`
}

// CrystalConfig names the external diffraction engine run by the crystal predictor.
type CrystalConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		Log:    LogConfig{Level: "info"},
		Export: ExportConfig{Compression: "snappy", RowGroupRows: 50_000},
		S3: S3Config{
			Region:      "us-east-1",
			SessionName: "jcamp",
			Duration:    15 * time.Minute,
		},
		Smooth: SmoothConfig{Window: 9, Polynomial: 2},
	}
}

// ParseConfigYAML decodes b over DefaultConfig. Unknown keys are rejected.
func ParseConfigYAML(b []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(b) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads the YAML file at path (optional) and applies environment overrides.
func LoadConfig(path string) (Config, error) {
	var b []byte
	if path != "" {
		var err error
		if b, err = os.ReadFile(path); err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}
	cfg, err := ParseConfigYAML(b)
	if err != nil {
		return Config{}, err
	}
	ApplyEnv(&cfg)
	return cfg, nil
}

// ApplyEnv overrides cfg from JCAMP_* environment variables.
func ApplyEnv(cfg *Config) {
	cfg.Log.Level = EnvOr("JCAMP_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Development = EnvBoolOr("JCAMP_LOG_DEVELOPMENT", cfg.Log.Development)
	cfg.Log.File = EnvOr("JCAMP_LOG_FILE", cfg.Log.File)

	cfg.Parse.Chromatogram = EnvBoolOr("JCAMP_CHROMATOGRAM", cfg.Parse.Chromatogram)
	cfg.Parse.Latin1 = EnvBoolOr("JCAMP_LATIN1", cfg.Parse.Latin1)
	cfg.Parse.KeepRecords = EnvOr("JCAMP_KEEP_RECORDS", cfg.Parse.KeepRecords)

	cfg.Serialize.Owner = EnvOr("JCAMP_OWNER", cfg.Serialize.Owner)
	cfg.Serialize.Origin = EnvOr("JCAMP_ORIGIN", cfg.Serialize.Origin)
	cfg.Serialize.Compression = EnvOr("JCAMP_COMPRESSION", cfg.Serialize.Compression)

	cfg.Export.Compression = EnvOr("JCAMP_EXPORT_COMPRESSION", cfg.Export.Compression)
	cfg.Export.RowGroupRows = EnvIntOr("JCAMP_EXPORT_ROW_GROUP_ROWS", cfg.Export.RowGroupRows)

	cfg.S3.Bucket = EnvOr("JCAMP_S3_BUCKET", cfg.S3.Bucket)
	cfg.S3.Prefix = EnvOr("JCAMP_S3_PREFIX", cfg.S3.Prefix)
	cfg.S3.Region = EnvOr("JCAMP_S3_REGION", cfg.S3.Region)
	cfg.S3.Endpoint = EnvOr("JCAMP_S3_ENDPOINT", cfg.S3.Endpoint)
	cfg.S3.ForcePathStyle = EnvBoolOr("JCAMP_S3_FORCE_PATH_STYLE", cfg.S3.ForcePathStyle)
	cfg.S3.AccessKey = EnvOr("JCAMP_S3_ACCESS_KEY", cfg.S3.AccessKey)
	cfg.S3.SecretKey = EnvOr("JCAMP_S3_SECRET_KEY", cfg.S3.SecretKey)
	cfg.S3.RoleARN = EnvOr("JCAMP_S3_ROLE_ARN", cfg.S3.RoleARN)

	cfg.Smooth.Window = EnvIntOr("JCAMP_SMOOTH_WINDOW", cfg.Smooth.Window)
	cfg.Smooth.Polynomial = EnvIntOr("JCAMP_SMOOTH_POLYNOMIAL", cfg.Smooth.Polynomial)

	cfg.Crystal.Command = EnvOr("JCAMP_CRYSTAL_COMMAND", cfg.Crystal.Command)
}

// BoolPtr returns a pointer to v, for the optional ParseConfig switches.
func BoolPtr(v bool) *bool {
	return &v
}

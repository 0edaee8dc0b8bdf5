// Package config loads the YAML configuration of the cluso-complexes command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-complexes/pkg/clusterone"
	"github.com/dd0wney/cluso-complexes/pkg/graph"
	"github.com/dd0wney/cluso-complexes/pkg/logging"
	"github.com/dd0wney/cluso-complexes/pkg/validation"
)

// Output formats
const (
	FormatPlain = "plain"
	FormatCSV   = "csv"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full configuration file.
type Config struct {
	Algorithm clusterone.Params `yaml:"algorithm"`
	Input     InputConfig       `yaml:"input"`
	Output    OutputConfig      `yaml:"output"`
	Logging   LoggingConfig     `yaml:"logging"`
	Metrics   MetricsConfig     `yaml:"metrics"`
}

// InputConfig selects the graph source.
type InputConfig struct {
	URI        string         `yaml:"uri"` // path, file://, s3:// or postgres://
	Duplicates string         `yaml:"duplicates" validate:"omitempty,oneof=max sum first"`
	S3         S3Config       `yaml:"s3"`
	Postgres   PostgresConfig `yaml:"postgres"`
}

// S3Config holds credentials and endpoint overrides for s3:// inputs.
// Empty fields fall back to the AWS default credential chain.
type S3Config struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// PostgresConfig configures postgres:// inputs.
type PostgresConfig struct {
	Table   string        `yaml:"table"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

// OutputConfig controls how complexes are written.
type OutputConfig struct {
	Path   string `yaml:"path"` // empty means stdout
	Format string `yaml:"format" validate:"oneof=plain csv"`
}

// LoggingConfig sets the log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// MetricsConfig enables the Prometheus endpoint when ListenAddr is set.
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr" validate:"omitempty,hostname_port"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Algorithm: clusterone.DefaultParams(),
		Input: InputConfig{
			Duplicates: graph.DuplicateMax.String(),
			Postgres:   PostgresConfig{Timeout: 30 * time.Second},
		},
		Output:  OutputConfig{Format: FormatPlain},
		Logging: LoggingConfig{Level: logging.InfoLevel.String()},
	}
}

// Load reads path on top of the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes YAML from r on top of the defaults. Unknown keys are errors.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks every section. The input URI is not required here since the
// command line may still supply it.
func (c *Config) Validate() error {
	cv := validation.NewConfigValidator("config").
		Struct(&c.Input).
		Struct(&c.Output).
		Struct(&c.Metrics).
		Custom("logging.level", func() error {
			_, err := logging.ParseLevel(c.Logging.Level)
			return err
		})

	if err := cv.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Algorithm.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// SourceOptions converts the input section for graph.Open.
func (c *Config) SourceOptions() (graph.SourceOptions, error) {
	policy, err := graph.ParseDuplicatePolicy(c.Input.Duplicates)
	if err != nil {
		return graph.SourceOptions{}, err
	}
	return graph.SourceOptions{
		Duplicates: policy,
		S3: graph.S3Options{
			Region:          c.Input.S3.Region,
			Endpoint:        c.Input.S3.Endpoint,
			AccessKeyID:     c.Input.S3.AccessKeyID,
			SecretAccessKey: c.Input.S3.SecretAccessKey,
		},
		Postgres: graph.PostgresOptions{
			Table:   c.Input.Postgres.Table,
			Timeout: c.Input.Postgres.Timeout,
		},
	}, nil
}

// LogLevel returns the parsed logging level
func (c *Config) LogLevel() logging.Level {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return logging.InfoLevel
	}
	return level
}

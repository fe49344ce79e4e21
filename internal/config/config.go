package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/hyperpipe/internal/ingest"
	"github.com/roach88/hyperpipe/internal/table"
)

//go:embed schema.cue
var schemaCUE string

// Output controls exported and rendered tables.
type Output struct {
	NA               string `yaml:"na" json:"na"`
	PreviewPositions int    `yaml:"preview_positions" json:"preview_positions"`
	PreviewEntities  int    `yaml:"preview_entities" json:"preview_entities"`
	PreviewProperty  string `yaml:"preview_property" json:"preview_property"`
}

// Config holds all hyperpipe settings.
type Config struct {
	Properties      []string `yaml:"properties" json:"properties"`
	ExcludePrefixes []string `yaml:"exclude_prefixes" json:"exclude_prefixes"`
	Output          Output   `yaml:"output" json:"output"`
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Properties:      append([]string(nil), table.DefaultProperties...),
		ExcludePrefixes: append([]string(nil), ingest.DefaultExcludePrefixes...),
		Output: Output{
			PreviewPositions: 20,
			PreviewEntities:  6,
		},
	}
}

// ConfigError reports an invalid config file, with a CUE position when known.
type ConfigError struct {
	Path    string
	Message string
	Pos     token.Pos
}

func (e *ConfigError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// Load reads a config file over the defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = decodeYAML(data, &cfg)
	case ".cue":
		err = decodeCUE(path, data, &cfg)
	default:
		return Config{}, &ConfigError{Path: path, Message: "unsupported config format (want .yaml, .yml or .cue)"}
	}
	if err != nil {
		return Config{}, withPath(err, path)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, withPath(err, path)
	}
	return cfg, nil
}

// Validate checks a config against the #Config schema and the rules CUE
// cannot express.
func Validate(cfg Config) error {
	ctx := cuecontext.New()
	def, err := schema(ctx)
	if err != nil {
		return err
	}

	if cfg.ExcludePrefixes == nil {
		cfg.ExcludePrefixes = []string{}
	}
	v := ctx.Encode(cfg)
	if err := v.Err(); err != nil {
		return formatCUEError(err)
	}
	if err := def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}

	seen := make(map[string]bool, len(cfg.Properties))
	for _, p := range cfg.Properties {
		if seen[p] {
			return &ConfigError{Message: fmt.Sprintf("duplicate property %q", p)}
		}
		seen[p] = true
	}
	if prop := cfg.Output.PreviewProperty; prop != "" && !seen[prop] {
		return &ConfigError{Message: fmt.Sprintf("preview_property %q is not in properties", prop)}
	}
	return nil
}

func schema(ctx *cue.Context) (cue.Value, error) {
	s := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := s.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("compile config schema: %w", err)
	}
	return s.LookupPath(cue.ParsePath("#Config")), nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // Reject unknown fields
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil // empty file keeps defaults
		}
		return &ConfigError{Message: fmt.Sprintf("failed to parse YAML: %v", err)}
	}
	return nil
}

func decodeCUE(path string, data []byte, cfg *Config) error {
	ctx := cuecontext.New()
	def, err := schema(ctx)
	if err != nil {
		return err
	}

	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return formatCUEError(err)
	}
	u := def.Unify(v)
	if err := u.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	if err := u.Decode(cfg); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &ConfigError{Message: err.Error()}
	}
	first := errs[0]
	ce := &ConfigError{Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}

func withPath(err error, path string) error {
	var ce *ConfigError
	if errors.As(err, &ce) && ce.Path == "" {
		ce.Path = path
	}
	return err
}

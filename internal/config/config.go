// Package config holds the naming and output settings of the expander and
// loads them from a wasmexport.yaml or wasmexport.toml file.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/toyz/wasmexport/internal/errors"
)

// Naming lists every name the expander reads from or writes into Rust source
type Naming struct {
	Directive      string `yaml:"directive" toml:"directive" validate:"required,rust_ident"`
	Boundary       string `yaml:"boundary" toml:"boundary" validate:"required,rust_ident"`
	Outcome        string `yaml:"outcome" toml:"outcome" validate:"required,rust_ident"`
	Container      string `yaml:"container" toml:"container" validate:"required,rust_ident"`
	ErrorContainer string `yaml:"error_container" toml:"error_container" validate:"required,rust_ident"`
	DynamicValue   string `yaml:"dynamic_value" toml:"dynamic_value" validate:"required,rust_ident"`
	Suffix         string `yaml:"suffix" toml:"suffix" validate:"required,rust_ident_tail"`
	Lint           string `yaml:"lint" toml:"lint" validate:"required,rust_ident"`
}

// Output controls where expanded files go and how many are processed at once
type Output struct {
	Suffix string `yaml:"suffix" toml:"suffix" validate:"required,endswith=.rs"`
	Jobs   int    `yaml:"jobs" toml:"jobs" validate:"gte=0,lte=256"`
	Format bool   `yaml:"format" toml:"format"` // run rustfmt over expanded files
}

// Config is the complete expander configuration
type Config struct {
	Naming Naming `yaml:"naming" toml:"naming"`
	Output Output `yaml:"output" toml:"output"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Naming: Naming{
			Directive:      "wasm_export",
			Boundary:       "wasm_bindgen",
			Outcome:        "Result",
			Container:      "WasmEncodedResult",
			ErrorContainer: "WasmEncodedError",
			DynamicValue:   "JsValue",
			Suffix:         "__wasm_export",
			Lint:           "non_snake_case",
		},
		Output: Output{
			Suffix: ".expanded.rs",
			Jobs:   0,
		},
	}
}

var (
	identPattern     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	identTailPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

	validateOnce sync.Once
	validate     *validator.Validate
)

func configValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("rust_ident", func(fl validator.FieldLevel) bool {
			return identPattern.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("rust_ident_tail", func(fl validator.FieldLevel) bool {
			return identTailPattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Validate checks every field of the configuration
func (c *Config) Validate() error {
	err := configValidator().Struct(c)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.WrapConfigurationError("config", "validate", err)
	}

	multi := errors.NewMultipleErrors()
	for _, fe := range validationErrors {
		multi.Add(errors.Newf(errors.ConfigurationErrorCode, "%s: %s", fieldPath(fe), describe(fe)).
			WithContext("field", fieldPath(fe)).
			WithContext("value", fe.Value()))
	}
	return multi.ErrorOrNil()
}

// fieldPath drops the root struct name, e.g. "Config.naming.directive" -> "naming.directive"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "rust_ident":
		return fmt.Sprintf("%q is not a Rust identifier", fe.Value())
	case "rust_ident_tail":
		return fmt.Sprintf("%q may only contain letters, digits and underscores", fe.Value())
	case "endswith":
		return fmt.Sprintf("must end with %q", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// Load reads the file at path on top of the defaults and validates the result.
// The format follows the extension: .yaml, .yml or .toml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = decodeYAML(data, cfg)
	case ".toml":
		err = decodeTOML(data, cfg)
	default:
		return nil, errors.Newf(errors.ConfigurationErrorCode, "unsupported configuration format: %s", path).
			WithSuggestion("use a .yaml, .yml or .toml file")
	}
	if err != nil {
		return nil, errors.WrapConfigurationError(path, "parse", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapConfigurationError(path, "validate", err)
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(cfg)
}

func decodeTOML(data []byte, cfg *Config) error {
	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

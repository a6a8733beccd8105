// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"craft-cost/core/types"
	"craft-cost/internal/errors"
	"craft-cost/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" yaml:"version"`

	// Input describes where the material and recipe tables live
	Input InputConfig `json:"input" yaml:"input"`

	// Calculation holds defaults for cost queries
	Calculation CalculationConfig `json:"calculation" yaml:"calculation"`

	// Output contains output configuration
	Output OutputConfig `json:"output" yaml:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" yaml:"logging"`
}

// InputConfig locates the input tables and names their columns
type InputConfig struct {
	// MaterialsPath is the raw material table (CSV)
	MaterialsPath string `json:"materials_path" yaml:"materials_path"`

	// RecipesPath is the bill-of-materials table (CSV)
	RecipesPath string `json:"recipes_path" yaml:"recipes_path"`

	// PriceSheetPath is an optional HCL price override file
	PriceSheetPath string `json:"price_sheet_path,omitempty" yaml:"price_sheet_path,omitempty"`

	// DefaultSource fills a blank material source
	DefaultSource string `json:"default_source" yaml:"default_source"`

	// Delimiter is the field separator of both tables
	Delimiter string `json:"delimiter" yaml:"delimiter"`

	// Columns maps logical fields to table headers
	Columns types.Columns `json:"columns" yaml:"columns"`
}

// CalculationConfig holds cost query defaults
type CalculationConfig struct {
	// SuccessRate is the default success rate in percent (1-100)
	SuccessRate int `json:"success_rate" yaml:"success_rate"`

	// FallbackSuccessRate replaces an unparsable success rate input
	FallbackSuccessRate int `json:"fallback_success_rate" yaml:"fallback_success_rate"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format (text, json)
	DefaultFormat string `json:"default_format" yaml:"default_format"`

	// Variant selects which half of a dual-locale name is shown (A or B)
	Variant string `json:"variant" yaml:"variant"`

	// CurrencyLabel is appended to rendered amounts
	CurrencyLabel string `json:"currency_label" yaml:"currency_label"`

	// ShowTree renders the BOM tree after the report
	ShowTree bool `json:"show_tree" yaml:"show_tree"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Input: InputConfig{
			MaterialsPath: "aion-物料.csv",
			RecipesPath:   "bom.csv",
			DefaultSource: "未知",
			Delimiter:     ",",
			Columns:       types.DefaultColumns(),
		},
		Calculation: CalculationConfig{
			SuccessRate:         100,
			FallbackSuccessRate: 25,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			Variant:       "A",
			CurrencyLabel: "G",
			ShowTree:      false,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file. JSON is assumed unless the
// extension is .yaml or .yml. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Config("reading "+path, err)
	}

	config := Default()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, errors.Config("decoding "+path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks values that have no sensible fallback
func (c *Config) Validate() error {
	if c.Calculation.SuccessRate < 1 || c.Calculation.SuccessRate > 100 {
		return errors.Newf(errors.TypeConfig, "calculation.success_rate must be within 1-100, got %d", c.Calculation.SuccessRate)
	}
	if c.Calculation.FallbackSuccessRate < 1 || c.Calculation.FallbackSuccessRate > 100 {
		return errors.Newf(errors.TypeConfig, "calculation.fallback_success_rate must be within 1-100, got %d", c.Calculation.FallbackSuccessRate)
	}
	if utf8.RuneCountInString(c.Input.Delimiter) != 1 {
		return errors.Newf(errors.TypeConfig, "input.delimiter must be a single character, got %q", c.Input.Delimiter)
	}
	switch strings.ToUpper(c.Output.Variant) {
	case "A", "B":
	default:
		return errors.Newf(errors.TypeConfig, "output.variant must be A or B, got %q", c.Output.Variant)
	}
	return nil
}

// Save saves configuration to a file, in YAML when the extension asks for it
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}

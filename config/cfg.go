package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"unicode/utf8"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"genjson/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	CSVConfig struct {
		Delimiter  string `yaml:"delimiter" validate:"required"`
		Encoding   string `yaml:"encoding"`
		InferTypes bool   `yaml:"infer_types"`
	}

	SourceConfig struct {
		Format common.SourceFmt `yaml:"format" validate:"gte=0"`
		Sheet  string           `yaml:"sheet"`
		CSV    CSVConfig        `yaml:"csv"`
	}

	FieldsConfig struct {
		ListSeparator string   `yaml:"list_separator" validate:"required"`
		Identifiers   []string `yaml:"identifiers" validate:"unique,dive,required"`
		Lists         []string `yaml:"lists" validate:"unique,dive,required"`
	}

	OutputConfig struct {
		NameTemplate          string `yaml:"name_template"`
		FileNameTransliterate bool   `yaml:"file_name_transliterate"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Source    SourceConfig   `yaml:"source"`
		Fields    FieldsConfig   `yaml:"fields"`
		Output    OutputConfig   `yaml:"output"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above
	OutputNameTemplateFieldName TemplateFieldName = "name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

// checkConfig performs validations which cannot be expressed with tags.
func checkConfig(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)

	if !cfg.Source.Format.IsValid() {
		sl.ReportError(cfg.Source.Format, "format", "Format", "enum", "")
	}
	if utf8.RuneCountInString(cfg.Source.CSV.Delimiter) != 1 {
		sl.ReportError(cfg.Source.CSV.Delimiter, "delimiter", "Delimiter", "single_char", "")
	} else if r, _ := utf8.DecodeRuneInString(cfg.Source.CSV.Delimiter); r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		sl.ReportError(cfg.Source.CSV.Delimiter, "delimiter", "Delimiter", "csv_delimiter", "")
	}

	lists := make(map[string]struct{}, len(cfg.Fields.Lists))
	for _, name := range cfg.Fields.Lists {
		lists[name] = struct{}{}
	}
	for _, name := range cfg.Fields.Identifiers {
		if _, ok := lists[name]; ok {
			sl.ReportError(cfg.Fields.Identifiers, "identifiers", "Identifiers", "excluded_from_lists", name)
		}
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("configuration sanitization failed: %w", err)
		}
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(checkConfig)); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to
// provide sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}

// DelimiterRune returns CSV field separator.
func (c *CSVConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

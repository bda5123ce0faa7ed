package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// Config represents the generator configuration
type Config struct {
	Target      string   `json:"target" yaml:"target" toml:"target" validate:"oneof=java go"`
	Suffix      string   `json:"suffix" yaml:"suffix" toml:"suffix" validate:"required"`
	TemplateDir string   `json:"templateDir" yaml:"templateDir" toml:"templateDir"`
	FailFast    bool     `json:"failFast" yaml:"failFast" toml:"failFast"`
	Packages    Packages `json:"packages" yaml:"packages" toml:"packages"`
	// GoPackage is the package clause of Go artifacts
	GoPackage      string `json:"goPackage" yaml:"goPackage" toml:"goPackage" validate:"excludesall=./- "`
	EventingImport string `json:"eventingImport" yaml:"eventingImport" toml:"eventingImport" validate:"required_if=Target go"`
}

// Packages holds the Java package of each artifact kind
type Packages struct {
	Dto      string `json:"dto" yaml:"dto" toml:"dto" validate:"excludesall=/ "`
	Producer string `json:"producer" yaml:"producer" toml:"producer" validate:"excludesall=/ "`
	Consumer string `json:"consumer" yaml:"consumer" toml:"consumer" validate:"excludesall=/ "`
}

// Formats lists the supported configuration file formats
var Formats = []string{"json", "yaml", "toml"}

// BaseName is the stem of configuration files looked up in the working directory
const BaseName = "eventor"

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Target: "java",
		Suffix: ".json",
		Packages: Packages{
			Dto:      "com.example.dto",
			Producer: "com.example.producer",
			Consumer: "com.example.consumer",
		},
		GoPackage:      "events",
		EventingImport: "git.weirdcat.su/weirdcat/eventor-gen/pkg/eventing",
	}
}

// Load reads and parses the configuration file. Keys absent from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	switch format := FormatOf(path); format {
	case "yaml":
		err = yaml.Unmarshal(data, cfg)
	case "toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %q)", fe.Namespace(), fe.Tag(), fmt.Sprint(fe.Value())))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// FormatOf infers the configuration format from a file extension,
// defaulting to json
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}

// Find returns the first eventor.{json,yaml,yml,toml} in dir, or "" when none exists
func Find(dir string) string {
	for _, ext := range []string{".json", ".yaml", ".yml", ".toml"} {
		p := filepath.Join(dir, BaseName+ext)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Marshal encodes the configuration in the given format
func (c *Config) Marshal(format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml":
		return yaml.Marshal(c)
	case "toml":
		return toml.Marshal(c)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

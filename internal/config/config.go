package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultExcludes mirrors the conventional Python project noise.
var DefaultExcludes = []string{
	"setup.py", "conftest.py", "**/tests/**", "**/test_*.py",
}

// Config holds run defaults. Precedence: CLI flags > environment > file >
// built-in defaults.
type Config struct {
	Direction     string   `yaml:"direction"`
	Format        string   `yaml:"format"`
	OutputDir     string   `yaml:"output_dir"`
	HidePrivate   bool     `yaml:"hide_private"`
	Exclude       []string `yaml:"exclude"`
	ExtendExclude []string `yaml:"extend_exclude"`
	MaxChars      int      `yaml:"max_chars"`
}

func defaults() *Config {
	return &Config{
		Direction: "TB",
		Format:    "md",
		OutputDir: "./output",
		Exclude:   append([]string(nil), DefaultExcludes...),
	}
}

// Load reads the optional YAML config file and applies environment
// overrides. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist):
		// Optional file.
	default:
		return nil, err
	}

	if v := os.Getenv("CLASSMAID_DIRECTION"); v != "" {
		cfg.Direction = v
	}
	if v := os.Getenv("CLASSMAID_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("CLASSMAID_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("CLASSMAID_MAX_CHARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxChars = n
		}
	}
	if v := os.Getenv("CLASSMAID_HIDE_PRIVATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.HidePrivate = b
		}
	}
	if v := os.Getenv("CLASSMAID_EXCLUDE"); v != "" {
		cfg.Exclude = splitPatterns(v)
	}
	if v := os.Getenv("CLASSMAID_EXTEND_EXCLUDE"); v != "" {
		cfg.ExtendExclude = append(cfg.ExtendExclude, splitPatterns(v)...)
	}

	return cfg, nil
}

// splitPatterns parses a comma-separated glob pattern list from the
// environment.
func splitPatterns(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every key when read from the environment,
// e.g. OLYMPEDA_FOCUS_TEAM.
const EnvPrefix = "OLYMPEDA"

// Global configuration structure.
type Global struct {
	DatasetPath string `mapstructure:"dataset_path" yaml:"dataset_path"`
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir"`

	// Charts
	ChartFormat       string  `mapstructure:"chart_format" yaml:"chart_format"`
	ChartWidthIn      float64 `mapstructure:"chart_width_in" yaml:"chart_width_in"`
	ChartHeightIn     float64 `mapstructure:"chart_height_in" yaml:"chart_height_in"`
	ScatterMaxPoints  int     `mapstructure:"scatter_max_points" yaml:"scatter_max_points"`
	WordcloudMaxWords int     `mapstructure:"wordcloud_max_words" yaml:"wordcloud_max_words"`

	// Analysis
	FocusTeam       string    `mapstructure:"focus_team" yaml:"focus_team"`
	TopN            int       `mapstructure:"top_n" yaml:"top_n"`
	AthletesTopN    int       `mapstructure:"athletes_top_n" yaml:"athletes_top_n"`
	RejectedHeights []float64 `mapstructure:"rejected_heights" yaml:"rejected_heights"`
	MedalSentinel   string    `mapstructure:"medal_sentinel" yaml:"medal_sentinel"`

	// Exports
	ExportXLSX bool `mapstructure:"export_xlsx" yaml:"export_xlsx"`
	ExportJSON bool `mapstructure:"export_json" yaml:"export_json"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Keys lists every configuration key in display order.
var Keys = []string{
	"dataset_path", "output_dir",
	"chart_format", "chart_width_in", "chart_height_in", "scatter_max_points", "wordcloud_max_words",
	"focus_team", "top_n", "athletes_top_n", "rejected_heights", "medal_sentinel",
	"export_xlsx", "export_json",
	"log_level", "log_format",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dataset_path", "athlete_events.csv")
	v.SetDefault("output_dir", "olympeda-out")
	v.SetDefault("chart_format", "png")
	v.SetDefault("chart_width_in", 12.0)
	v.SetDefault("chart_height_in", 6.0)
	v.SetDefault("scatter_max_points", 20000)
	v.SetDefault("wordcloud_max_words", 150)
	v.SetDefault("focus_team", "India")
	v.SetDefault("top_n", 10)
	v.SetDefault("athletes_top_n", 5)
	v.SetDefault("rejected_heights", []float64{2, 12, 30, 54})
	v.SetDefault("medal_sentinel", "No Medal")
	v.SetDefault("export_xlsx", false)
	v.SetDefault("export_json", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}

// Dir returns ~/.olympeda.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".olympeda"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.olympeda/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	return load(cfgFile, true)
}

// LoadFile loads defaults and the config file only, without environment
// overrides. A missing file yields the defaults. It is the base that
// `config set` edits and saves.
func LoadFile(cfgFile string) (*Global, error) {
	return load(cfgFile, false)
}

func load(cfgFile string, env bool) (*Global, error) {
	v := viper.New()
	if env {
		v.SetEnvPrefix(EnvPrefix)
		v.AutomaticEnv()
	}
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing default file is never an error. A missing explicit
		// file is one only when the environment is applied as well.
		missing := errors.As(err, &notFound) || (!env && errors.Is(err, fs.ErrNotExist))
		if !missing || (env && cfgFile != "") {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Set assigns value to key, parsing it for the key's type.
func (c *Global) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "dataset_path":
		c.DatasetPath = value
	case "output_dir":
		c.OutputDir = value
	case "chart_format":
		switch f := strings.ToLower(value); f {
		case "png", "svg", "pdf", "jpg", "jpeg", "tif", "tiff", "eps":
			c.ChartFormat = f
		default:
			return fmt.Errorf("invalid chart_format: %s (use png, svg, pdf, jpg)", value)
		}
	case "chart_width_in", "chart_height_in":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid positive number for %s: %v", key, value)
		}
		if key == "chart_width_in" {
			c.ChartWidthIn = f
		} else {
			c.ChartHeightIn = f
		}
	case "scatter_max_points", "wordcloud_max_words", "top_n", "athletes_top_n":
		i, err := strconv.Atoi(value)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, value)
		}
		switch key {
		case "scatter_max_points":
			c.ScatterMaxPoints = i
		case "wordcloud_max_words":
			c.WordcloudMaxWords = i
		case "top_n":
			c.TopN = i
		default:
			c.AthletesTopN = i
		}
	case "focus_team":
		c.FocusTeam = value
	case "rejected_heights":
		hs, err := ParseFloats(value)
		if err != nil {
			return fmt.Errorf("invalid list for rejected_heights: %w", err)
		}
		c.RejectedHeights = hs
	case "medal_sentinel":
		if value == "" {
			return errors.New("medal_sentinel must not be empty")
		}
		c.MedalSentinel = value
	case "export_xlsx", "export_json":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid bool for %s: %v", key, value)
		}
		if key == "export_xlsx" {
			c.ExportXLSX = b
		} else {
			c.ExportJSON = b
		}
	case "log_level":
		c.LogLevel = strings.ToLower(value)
	case "log_format":
		c.LogFormat = strings.ToLower(value)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// Get returns the display form of key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "dataset_path":
		return c.DatasetPath, nil
	case "output_dir":
		return c.OutputDir, nil
	case "chart_format":
		return c.ChartFormat, nil
	case "chart_width_in":
		return strconv.FormatFloat(c.ChartWidthIn, 'g', -1, 64), nil
	case "chart_height_in":
		return strconv.FormatFloat(c.ChartHeightIn, 'g', -1, 64), nil
	case "scatter_max_points":
		return strconv.Itoa(c.ScatterMaxPoints), nil
	case "wordcloud_max_words":
		return strconv.Itoa(c.WordcloudMaxWords), nil
	case "focus_team":
		return c.FocusTeam, nil
	case "top_n":
		return strconv.Itoa(c.TopN), nil
	case "athletes_top_n":
		return strconv.Itoa(c.AthletesTopN), nil
	case "rejected_heights":
		parts := make([]string, len(c.RejectedHeights))
		for i, h := range c.RejectedHeights {
			parts[i] = strconv.FormatFloat(h, 'g', -1, 64)
		}
		return strings.Join(parts, ","), nil
	case "medal_sentinel":
		return c.MedalSentinel, nil
	case "export_xlsx":
		return strconv.FormatBool(c.ExportXLSX), nil
	case "export_json":
		return strconv.FormatBool(c.ExportJSON), nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// ParseFloats parses a comma separated list of numbers, returned sorted.
func ParseFloats(s string) ([]float64, error) {
	var out []float64
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", p)
		}
		out = append(out, f)
	}
	sort.Float64s(out)
	return out, nil
}

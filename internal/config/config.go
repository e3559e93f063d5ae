package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Source is the default dataset location (path, file:// or http(s) URL).
	Source          string `mapstructure:"source" yaml:"source"`
	FetchTimeoutSec int    `mapstructure:"fetch_timeout_sec" yaml:"fetch_timeout_sec"`

	// Column type inference
	SampleCap           int    `mapstructure:"sample_cap" yaml:"sample_cap"`
	NumericThresholdPct int    `mapstructure:"numeric_threshold_pct" yaml:"numeric_threshold_pct"`
	LabelFallback       string `mapstructure:"label_fallback" yaml:"label_fallback"`

	// Output
	ChartFormat string `mapstructure:"chart_format" yaml:"chart_format"`
	ChartDir    string `mapstructure:"chart_dir" yaml:"chart_dir"`
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat   string `mapstructure:"log_format" yaml:"log_format"`

	BatchConcurrency int `mapstructure:"batch_concurrency" yaml:"batch_concurrency"`

	// Static host
	ServeAddr string `mapstructure:"serve_addr" yaml:"serve_addr"`
	ServeDir  string `mapstructure:"serve_dir" yaml:"serve_dir"`
}

const dirName = ".csvdash"

var defaults = map[string]any{
	"source":                "",
	"fetch_timeout_sec":     30,
	"sample_cap":            20,
	"numeric_threshold_pct": 60,
	"label_fallback":        "strict",
	"chart_format":          "text",
	"chart_dir":             "charts",
	"output_dir":            ".",
	"log_level":             "warn",
	"log_format":            "text",
	"batch_concurrency":     4,
	"serve_addr":            "127.0.0.1:8080",
	"serve_dir":             ".",
}

// Keys lists every configuration key in sorted order.
func Keys() []string {
	out := make([]string, 0, len(defaults))
	for k := range defaults {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Dir returns ~/.csvdash.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Path returns the file Save and Load use for cfgFile.
func Path(cfgFile string) (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.csvdash/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path, err := Path(cfgFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
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

// Load loads configuration from file, env, and defaults.
// Precedence: env (CSVDASH_*, including a .env in the working dir) > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	// a missing .env is normal
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CSVDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

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
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.normalize()
	return &c, nil
}

// Defaults returns the built-in configuration without reading files or env.
func Defaults() *Global {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	var c Global
	_ = v.Unmarshal(&c)
	c.normalize()
	return &c
}

func (c *Global) normalize() {
	if c.FetchTimeoutSec <= 0 {
		c.FetchTimeoutSec = 30
	}
	if c.SampleCap < 0 {
		c.SampleCap = 0
	}
	if c.NumericThresholdPct <= 0 || c.NumericThresholdPct > 100 {
		c.NumericThresholdPct = 60
	}
	if c.BatchConcurrency <= 0 {
		c.BatchConcurrency = 1
	}
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat != "json" {
		c.LogFormat = "text"
	}
	c.ChartFormat = strings.ToLower(strings.TrimSpace(c.ChartFormat))
	if c.ChartFormat != "json" {
		c.ChartFormat = "text"
	}
}

// Set assigns key from its string form.
func (c *Global) Set(key, value string) error {
	atoi := func() (int, error) {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer: %w", key, err)
		}
		return n, nil
	}
	var err error
	switch key {
	case "source":
		c.Source = value
	case "fetch_timeout_sec":
		c.FetchTimeoutSec, err = atoi()
	case "sample_cap":
		c.SampleCap, err = atoi()
	case "numeric_threshold_pct":
		c.NumericThresholdPct, err = atoi()
	case "label_fallback":
		v := strings.ToLower(strings.TrimSpace(value))
		if v != "strict" && v != "passthrough" {
			return fmt.Errorf("label_fallback must be strict or passthrough")
		}
		c.LabelFallback = v
	case "chart_format":
		v := strings.ToLower(strings.TrimSpace(value))
		if v != "text" && v != "json" {
			return fmt.Errorf("chart_format must be text or json")
		}
		c.ChartFormat = v
	case "chart_dir":
		c.ChartDir = value
	case "output_dir":
		c.OutputDir = value
	case "log_level":
		c.LogLevel = value
	case "log_format":
		v := strings.ToLower(strings.TrimSpace(value))
		if v != "text" && v != "json" {
			return fmt.Errorf("log_format must be text or json")
		}
		c.LogFormat = v
	case "batch_concurrency":
		c.BatchConcurrency, err = atoi()
	case "serve_addr":
		c.ServeAddr = value
	case "serve_dir":
		c.ServeDir = value
	default:
		return fmt.Errorf("unknown config key: %s (known: %s)", key, strings.Join(Keys(), ", "))
	}
	return err
}

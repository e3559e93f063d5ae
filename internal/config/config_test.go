package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.SampleCap != 20 || c.NumericThresholdPct != 60 {
		t.Fatalf("classifier defaults = %d/%d", c.SampleCap, c.NumericThresholdPct)
	}
	if c.LabelFallback != "strict" || c.ChartFormat != "text" || c.FetchTimeoutSec != 30 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestSaveLoadRoundTripAndEnvOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set("source", "https://example.test/sleep.csv"); err != nil {
		t.Fatal(err)
	}
	if err := c.Set("sample_cap", "30"); err != nil {
		t.Fatal(err)
	}
	if err := Save(c, ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".csvdash", "config.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	again, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if again.Source != "https://example.test/sleep.csv" || again.SampleCap != 30 {
		t.Fatalf("round trip lost values: %+v", again)
	}

	t.Setenv("CSVDASH_SAMPLE_CAP", "12")
	env, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if env.SampleCap != 12 {
		t.Fatalf("env should override file, got %d", env.SampleCap)
	}
}

func TestDotEnvIsLoaded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	wd := t.TempDir()
	t.Chdir(wd)
	if err := os.WriteFile(filepath.Join(wd, ".env"), []byte("CSVDASH_LABEL_FALLBACK=passthrough\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv sets process env; make sure it is cleared afterwards
	t.Setenv("CSVDASH_LABEL_FALLBACK", "")
	os.Unsetenv("CSVDASH_LABEL_FALLBACK")

	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if c.LabelFallback != "passthrough" {
		t.Fatalf("expected .env value, got %q", c.LabelFallback)
	}
}

func TestSetValidation(t *testing.T) {
	c := &Global{}
	if err := c.Set("chart_format", "svg"); err == nil {
		t.Fatalf("expected chart_format validation error")
	}
	if err := c.Set("sample_cap", "many"); err == nil {
		t.Fatalf("expected integer error")
	}
	if err := c.Set("log_format", "xml"); err == nil {
		t.Fatalf("expected log_format validation error")
	}
	if err := c.Set("log_format", "JSON"); err != nil || c.LogFormat != "json" {
		t.Fatalf("log_format = %q, err %v", c.LogFormat, err)
	}
	if err := c.Set("nope", "1"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/csvdash-cli/internal/utils"
	"github.com/google/uuid"
)

// JSONRenderer writes each chart as a Chart.js config file under Dir.
type JSONRenderer struct {
	Dir string
}

type jsonInstance struct {
	id   string
	path string
}

func (i *jsonInstance) ID() string { return i.id }

func (i *jsonInstance) Destroy() error {
	if err := os.Remove(i.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// PathOf returns the file behind inst when it came from a JSONRenderer.
func PathOf(inst Instance) (string, bool) {
	ji, ok := inst.(*jsonInstance)
	if !ok {
		return "", false
	}
	return ji.path, true
}

// Latest returns the most recently written chart in Dir as an Instance, or
// nil when there is none.
func (r JSONRenderer) Latest() (Instance, error) {
	matches, err := filepath.Glob(filepath.Join(r.Dir, "chart-*.json"))
	if err != nil {
		return nil, err
	}
	var newest *jsonInstance
	var newestMod time.Time
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		if newest == nil || info.ModTime().After(newestMod) {
			id := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), "chart-"), ".json")
			newest, newestMod = &jsonInstance{id: id, path: m}, info.ModTime()
		}
	}
	if newest == nil {
		return nil, nil
	}
	return newest, nil
}

func (r JSONRenderer) Render(s *Spec) (Instance, error) {
	if err := utils.EnsureDir(r.Dir); err != nil {
		return nil, err
	}
	data, err := utils.PrettyJSON(ConfigFor(s))
	if err != nil {
		return nil, fmt.Errorf("encode chart config: %w", err)
	}
	id := uuid.NewString()
	path := filepath.Join(r.Dir, fmt.Sprintf("chart-%s.json", id))
	if err := utils.SafeWriteFile(path, data, true); err != nil {
		return nil, err
	}
	return &jsonInstance{id: id, path: path}, nil
}

// Config mirrors the subset of the Chart.js configuration object we emit.
type Config struct {
	Type    string        `json:"type"`
	Data    ConfigData    `json:"data"`
	Options ConfigOptions `json:"options"`
}

type ConfigData struct {
	Labels   []string        `json:"labels,omitempty"`
	Datasets []ConfigDataset `json:"datasets"`
}

type ConfigDataset struct {
	Label           string `json:"label"`
	Data            any    `json:"data"`
	BackgroundColor any    `json:"backgroundColor,omitempty"`
	BorderColor     string `json:"borderColor,omitempty"`
	Fill            *bool  `json:"fill,omitempty"`
	PointRadius     int    `json:"pointRadius,omitempty"`
}

type ConfigOptions struct {
	Responsive bool                   `json:"responsive"`
	Plugins    ConfigPlugins          `json:"plugins"`
	Scales     map[string]ConfigScale `json:"scales,omitempty"`
}

type ConfigPlugins struct {
	Title ConfigTitle `json:"title"`
}

type ConfigTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type ConfigScale struct {
	Title *ConfigTitle `json:"title,omitempty"`
}

type xy struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ConfigFor converts a Spec into its Chart.js configuration.
func ConfigFor(s *Spec) Config {
	cfg := Config{
		Options: ConfigOptions{
			Responsive: true,
			Plugins:    ConfigPlugins{Title: ConfigTitle{Display: true, Text: s.Title}},
		},
	}
	ds := ConfigDataset{Label: s.Header}
	switch s.Kind {
	case Bar, Pie:
		cfg.Type = s.Kind.String()
		cfg.Data.Labels = s.Labels
		ds.Data = s.Counts
		if s.Kind == Pie {
			ds.BackgroundColor = s.Colors
		} else if len(s.Colors) > 0 {
			ds.BackgroundColor = s.Colors[0]
		}
	case Line:
		cfg.Type = "line"
		labels := make([]string, len(s.Points))
		ys := make([]float64, len(s.Points))
		for i, p := range s.Points {
			labels[i] = fmt.Sprint(p.X)
			ys[i] = p.Y
		}
		cfg.Data.Labels = labels
		ds.Data = ys
		fill := false
		ds.Fill = &fill
		ds.PointRadius = 2
		if len(s.Colors) > 0 {
			ds.BorderColor = s.Colors[0]
		}
	default:
		cfg.Type = "scatter"
		pts := make([]xy, len(s.Points))
		for i, p := range s.Points {
			pts[i] = xy{X: p.X, Y: p.Y}
		}
		ds.Data = pts
		ds.PointRadius = 3
		if len(s.Colors) > 0 {
			ds.BackgroundColor = s.Colors[0]
		}
	}
	if s.Kind != Pie && s.XLabel != "" {
		cfg.Options.Scales = map[string]ConfigScale{
			"x": {Title: &ConfigTitle{Display: true, Text: s.XLabel}},
			"y": {Title: &ConfigTitle{Display: true, Text: s.YLabel}},
		}
	}
	cfg.Data.Datasets = []ConfigDataset{ds}
	return cfg
}

package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/csvdash-cli/internal/table"
)

// Parser turns raw file content into a Dataset.
type Parser interface {
	CanParse(filename string) bool
	Parse(content []byte) (*table.Dataset, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ParseBytes selects a parser by name and parses data. Names without a
// registered extension are read as comma-separated text.
func ParseBytes(name string, data []byte) (*table.Dataset, error) {
	p := lookup(name)
	ds, err := p.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(name), err)
	}
	if ds.Name == "" {
		ds.Name = filepath.Base(name)
	}
	return ds, nil
}

// ParseFile reads path from disk and parses it.
func ParseFile(path string) (*table.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ParseBytes(path, data)
}

func lookup(name string) Parser {
	for _, p := range registry {
		if p.CanParse(name) {
			return p
		}
	}
	return csvParser{delim: ','}
}

func init() {
	Register(csvParser{delim: ',', ext: ".csv"})
	Register(csvParser{delim: '\t', ext: ".tsv"})
	Register(xlsxParser{})
}

// ErrUnsupported indicates content the parser cannot read.
var ErrUnsupported = errors.New("unsupported table format")

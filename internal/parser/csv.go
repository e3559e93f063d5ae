package parser

import (
	"strings"

	"github.com/KaramelBytes/csvdash-cli/internal/table"
)

type csvParser struct {
	delim rune
	ext   string
}

func (p csvParser) CanParse(filename string) bool {
	return p.ext != "" && strings.HasSuffix(strings.ToLower(filename), p.ext)
}

func (p csvParser) Parse(content []byte) (*table.Dataset, error) {
	return parseDelimited(string(content), p.delim), nil
}

// ParseCSV parses comma-separated text. Carriage returns are dropped, blank
// lines are skipped and the first remaining line is the header. A double quote
// toggles quoting, "" inside quotes is a literal quote, and every cell is
// trimmed. Rows longer than the header are cut to its width.
func ParseCSV(text string) *table.Dataset {
	return parseDelimited(text, ',')
}

func parseDelimited(text string, delim rune) *table.Dataset {
	text = strings.ReplaceAll(text, "\r", "")
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	ds := &table.Dataset{Headers: []string{}, Rows: []table.Row{}}
	if len(lines) == 0 {
		return ds
	}
	ds.Headers = splitLine(lines[0], delim)
	for _, l := range lines[1:] {
		cells := splitLine(l, delim)
		if len(cells) > len(ds.Headers) {
			cells = cells[:len(ds.Headers)]
		}
		ds.Rows = append(ds.Rows, table.Row(cells))
	}
	return ds
}

func splitLine(line string, delim rune) []string {
	var out []string
	var cur strings.Builder
	inQuotes := false
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == delim && !inQuotes:
			out = append(out, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(ch)
		}
	}
	return append(out, strings.TrimSpace(cur.String()))
}

// FormatCSV writes ds back out so that ParseCSV reproduces it.
func FormatCSV(ds *table.Dataset) string {
	var b strings.Builder
	writeLine(&b, ds.Headers)
	for _, r := range ds.Rows {
		writeLine(&b, r)
	}
	return b.String()
}

func writeLine(b *strings.Builder, cells []string) {
	blank := true
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			blank = false
			break
		}
	}
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		// an all-empty line would be skipped on reparse; quoting keeps the row
		if needsQuote(c) || (blank && i == 0) {
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(c, `"`, `""`))
			b.WriteByte('"')
			continue
		}
		b.WriteString(c)
	}
	b.WriteByte('\n')
}

func needsQuote(s string) bool {
	return strings.ContainsAny(s, ",\"") || s != strings.TrimSpace(s)
}

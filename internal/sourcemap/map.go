package sourcemap

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf16"
)

// Map is a source map v3 document.
type Map struct {
	Version        int       `json:"version"`
	File           string    `json:"file,omitempty"`
	SourceRoot     string    `json:"sourceRoot,omitempty"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent,omitempty"`
	Names          []string  `json:"names"`
	Mappings       string    `json:"mappings"`
}

// Options controls how Prepend builds its map.
type Options struct {
	// File is written to the map's "file" field.
	File string
	// Source names the unmodified code in "sources".
	Source string
	// Hires emits a segment for every character instead of one per line.
	Hires bool
}

// Parse decodes a JSON source map.
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing source map: %w", err)
	}
	if m.Version != 3 {
		return nil, fmt.Errorf("unsupported source map version %d", m.Version)
	}
	return &m, nil
}

// JSON encodes the map.
func (m *Map) JSON() ([]byte, error) {
	if m.Sources == nil {
		m.Sources = []string{}
	}
	if m.Names == nil {
		m.Names = []string{}
	}
	return json.Marshal(m)
}

// Comment returns the trailer that links generated code to its map.
func Comment(url string) string {
	return "//# sourceMappingURL=" + url
}

// Prepend returns the map from prefix+code back onto code. Lines of prefix
// carry no mappings; every line of code moves down by the number of line
// breaks in prefix. Columns are counted in UTF-16 code units.
func Prepend(code, prefix string, opts Options) *Map {
	shift := strings.Count(prefix, "\n")
	firstOffset := utf16Len(prefix[strings.LastIndex(prefix, "\n")+1:])

	lines := strings.Split(code, "\n")
	mappings := make(Mappings, shift, shift+len(lines))

	for i, text := range lines {
		text = strings.TrimSuffix(text, "\r")
		offset := 0
		if i == 0 {
			offset = firstOffset
		}

		var segs []Segment
		if text != "" {
			if opts.Hires {
				col := 0
				for _, r := range text {
					segs = append(segs, Segment{GenColumn: offset + col, Line: i, Column: col, HasSource: true})
					col += runeWidth(r)
				}
			} else {
				segs = []Segment{{GenColumn: offset, Line: i, HasSource: true}}
			}
		}
		mappings = append(mappings, segs)
	}

	m := &Map{
		Version:  3,
		File:     opts.File,
		Sources:  []string{opts.Source},
		Names:    []string{},
		Mappings: Encode(mappings),
	}
	return m
}

// Compose traces outer, whose sources are the generated code of inner,
// through inner and returns a map from outer's generated code to inner's
// sources. Segments that land outside any inner mapping are dropped.
func Compose(outer, inner *Map) (*Map, error) {
	outerLines, err := Decode(outer.Mappings)
	if err != nil {
		return nil, fmt.Errorf("decoding outer mappings: %w", err)
	}
	innerLines, err := Decode(inner.Mappings)
	if err != nil {
		return nil, fmt.Errorf("decoding inner mappings: %w", err)
	}

	result := make(Mappings, len(outerLines))
	for i, segs := range outerLines {
		var out []Segment
		for _, seg := range segs {
			if !seg.HasSource {
				continue
			}
			traced, ok := innerLines.lookup(seg.Line, seg.Column)
			if !ok || !traced.HasSource {
				continue
			}
			traced.GenColumn = seg.GenColumn
			if n := len(out); n > 0 && sameOrigin(out[n-1], traced) {
				continue
			}
			out = append(out, traced)
		}
		result[i] = out
	}

	return &Map{
		Version:        3,
		File:           outer.File,
		SourceRoot:     inner.SourceRoot,
		Sources:        inner.Sources,
		SourcesContent: inner.SourcesContent,
		Names:          inner.Names,
		Mappings:       Encode(result),
	}, nil
}

// DropLines removes the first n generated lines of m.
func DropLines(m *Map, n int) (*Map, error) {
	lines, err := Decode(m.Mappings)
	if err != nil {
		return nil, fmt.Errorf("decoding mappings: %w", err)
	}
	if n > len(lines) {
		n = len(lines)
	}
	dropped := *m
	dropped.Mappings = Encode(lines[n:])
	return &dropped, nil
}

func sameOrigin(a, b Segment) bool {
	return a.Source == b.Source && a.Line == b.Line && a.Column == b.Column &&
		a.HasName == b.HasName && (!a.HasName || a.Name == b.Name)
}

func runeWidth(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

package sourcemap

import (
	"fmt"
	"strings"
)

// Segment is one decoded mapping. Source, Line, Column and Name are absolute
// (0-based) values; only GenColumn is scoped to its generated line.
type Segment struct {
	GenColumn int
	Source    int
	Line      int
	Column    int
	Name      int
	HasSource bool
	HasName   bool
}

// Mappings holds the segments of every generated line, indexed by 0-based
// generated line number.
type Mappings [][]Segment

// Decode parses a "mappings" string.
func Decode(s string) (Mappings, error) {
	if s == "" {
		return Mappings{}, nil
	}

	var (
		lines                      = make(Mappings, 0, strings.Count(s, ";")+1)
		source, line, column, name int
	)

	for lineNo, rawLine := range strings.Split(s, ";") {
		var (
			segs      []Segment
			genColumn int
		)
		for _, raw := range strings.Split(rawLine, ",") {
			if raw == "" {
				continue
			}

			var fields [5]int
			n := 0
			for i := 0; i < len(raw); {
				if n == len(fields) {
					return nil, fmt.Errorf("line %d: segment %q has more than 5 fields", lineNo, raw)
				}
				v, next, err := readVLQ(raw, i)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				fields[n] = v
				n++
				i = next
			}
			if n != 1 && n != 4 && n != 5 {
				return nil, fmt.Errorf("line %d: segment %q has %d fields", lineNo, raw, n)
			}

			genColumn += fields[0]
			seg := Segment{GenColumn: genColumn}
			if n >= 4 {
				source += fields[1]
				line += fields[2]
				column += fields[3]
				seg.Source, seg.Line, seg.Column, seg.HasSource = source, line, column, true
			}
			if n == 5 {
				name += fields[4]
				seg.Name, seg.HasName = name, true
			}
			segs = append(segs, seg)
		}
		lines = append(lines, segs)
	}

	return lines, nil
}

// Encode renders m back into a "mappings" string.
func Encode(m Mappings) string {
	var (
		b                          []byte
		source, line, column, name int
	)

	for i, segs := range m {
		if i > 0 {
			b = append(b, ';')
		}
		genColumn := 0
		for j, seg := range segs {
			if j > 0 {
				b = append(b, ',')
			}
			b = appendVLQ(b, seg.GenColumn-genColumn)
			genColumn = seg.GenColumn
			if !seg.HasSource {
				continue
			}
			b = appendVLQ(b, seg.Source-source)
			b = appendVLQ(b, seg.Line-line)
			b = appendVLQ(b, seg.Column-column)
			source, line, column = seg.Source, seg.Line, seg.Column
			if seg.HasName {
				b = appendVLQ(b, seg.Name-name)
				name = seg.Name
			}
		}
	}

	return string(b)
}

// lookup returns the segment of generated line that covers column: the one
// with the greatest GenColumn not past it.
func (m Mappings) lookup(line, column int) (Segment, bool) {
	if line < 0 || line >= len(m) {
		return Segment{}, false
	}
	segs := m[line]
	found := -1
	for i, seg := range segs {
		if seg.GenColumn > column {
			break
		}
		found = i
	}
	if found < 0 {
		return Segment{}, false
	}
	return segs[found], true
}

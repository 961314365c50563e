package schematic

import (
	"strconv"
	"strings"

	eng "github.com/reoring/schematic/internal/engine"
)

// Segment is one step of a Path: a property name or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Key returns a property segment.
func Key(name string) Segment { return Segment{Key: name} }

// Index returns an array index segment.
func Index(i int) Segment { return Segment{Index: i, IsIndex: true} }

func (s Segment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// Path locates a value inside the traversed graph.
type Path []Segment

// Pointer renders the path as an RFC 6901 JSON Pointer ("" for the root).
func (p Path) Pointer() string {
	if len(p) == 0 {
		return ""
	}
	b := &strings.Builder{}
	for _, s := range p {
		b.WriteByte('/')
		b.WriteString(eng.EscapePointerToken(s.String()))
	}
	return b.String()
}

// Field appends a property segment without modifying p.
func (p Path) Field(name string) Path { return append(p[:len(p):len(p)], Key(name)) }

// At appends an index segment without modifying p.
func (p Path) At(i int) Path { return append(p[:len(p):len(p)], Index(i)) }

// String renders the pointer, or "(root)" for the empty path.
func (p Path) String() string {
	if len(p) == 0 {
		return "(root)"
	}
	return p.Pointer()
}

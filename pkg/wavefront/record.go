// Package wavefront reads the subset of the Wavefront OBJ format needed to
// partition a mesh by material.
package wavefront

import (
	"fmt"
	"strings"
)

// RecordKind identifies the type of an OBJ line.
type RecordKind uint8

// Record kinds.
const (
	KindOther    RecordKind = iota // Blank, comment or unsupported tag
	KindMtlLib                     // mtllib <file>
	KindVertex                     // v x y z [w]
	KindTexCoord                   // vt u [v [w]]
	KindNormal                     // vn x y z
	KindUseMtl                     // usemtl <name>
	KindFace                       // f <ref> <ref> <ref> ...
)

// String returns the OBJ tag of the kind.
func (k RecordKind) String() string {
	switch k {
	case KindMtlLib:
		return "mtllib"
	case KindVertex:
		return "v"
	case KindTexCoord:
		return "vt"
	case KindNormal:
		return "vn"
	case KindUseMtl:
		return "usemtl"
	case KindFace:
		return "f"
	default:
		return "other"
	}
}

var tagKinds = map[string]RecordKind{
	"mtllib": KindMtlLib,
	"v":      KindVertex,
	"vt":     KindTexCoord,
	"vn":     KindNormal,
	"usemtl": KindUseMtl,
	"f":      KindFace,
}

// Record is a single lexed line.
type Record struct {
	Kind RecordKind
	Line int      // 1-based source line number
	Raw  string   // Line text as read
	Args []string // Whitespace separated fields after the tag
}

// Lex classifies a line by its leading token.
func Lex(line string, num int) Record {
	rec := Record{Kind: KindOther, Line: num, Raw: line}

	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return rec
	}

	if kind, ok := tagKinds[fields[0]]; ok {
		rec.Kind = kind
		rec.Args = fields[1:]
	}
	return rec
}

// AttrKind is one of the three indexed attribute streams.
type AttrKind uint8

// Attribute kinds.
const (
	Position AttrKind = iota
	TexCoord
	Normal
)

// AttrKinds lists the attribute kinds in output order.
var AttrKinds = [...]AttrKind{Position, TexCoord, Normal}

// String returns the OBJ tag of the attribute kind.
func (k AttrKind) String() string {
	switch k {
	case Position:
		return "v"
	case TexCoord:
		return "vt"
	case Normal:
		return "vn"
	default:
		return fmt.Sprintf("AttrKind(%d)", k)
	}
}

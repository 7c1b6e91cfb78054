package wavefront

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// maxLineSize bounds a single line; large meshes can carry very long faces.
const maxLineSize = 16 * 1024 * 1024

// OrphanPolicy decides what happens to faces that appear before any usemtl.
type OrphanPolicy uint8

// Orphan face policies.
const (
	OrphanDrop    OrphanPolicy = iota // Discard and count in Document.DroppedFaces
	OrphanError                       // Fail the parse
	OrphanDefault                     // Assign to Options.DefaultMaterial
)

// String returns the config name of the policy.
func (p OrphanPolicy) String() string {
	switch p {
	case OrphanDrop:
		return "drop"
	case OrphanError:
		return "error"
	case OrphanDefault:
		return "default"
	default:
		return fmt.Sprintf("OrphanPolicy(%d)", p)
	}
}

// ParseOrphanPolicy converts a config name into an OrphanPolicy.
func ParseOrphanPolicy(s string) (OrphanPolicy, error) {
	switch s {
	case "drop", "":
		return OrphanDrop, nil
	case "error":
		return OrphanError, nil
	case "default":
		return OrphanDefault, nil
	}
	return OrphanDrop, fmt.Errorf("unknown orphan face policy %q (expected drop, error or default)", s)
}

// DefaultMaterialName is used by OrphanDefault when Options.DefaultMaterial is empty.
const DefaultMaterialName = "default"

// Options controls parsing.
type Options struct {
	Orphans         OrphanPolicy
	DefaultMaterial string
}

// parser holds the state of a single forward pass.
type parser struct {
	opts   Options
	doc    *Document
	groups map[string]*MaterialGroup

	// Material receiving faces; unset until the first usemtl. Groups are
	// only created once they receive a face.
	active    string
	hasActive bool
}

// Parse reads an OBJ document from r.
func Parse(r io.Reader, opts Options) (*Document, error) {
	p := &parser{
		opts:   opts,
		doc:    &Document{},
		groups: make(map[string]*MaterialGroup),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if err := p.record(Lex(scanner.Text(), lineNum)); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading line %d: %w", lineNum+1, err)
	}

	p.doc.Lines = lineNum
	return p.doc, nil
}

// ParseBytes parses an OBJ document held in memory.
func ParseBytes(data []byte, opts Options) (*Document, error) {
	return Parse(bytes.NewReader(data), opts)
}

// ParseFile opens and parses an OBJ file.
func ParseFile(path string, opts Options) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func (p *parser) record(rec Record) error {
	switch rec.Kind {
	case KindMtlLib:
		if len(rec.Args) == 0 {
			return parseErrorf(rec.Line, `unsupported syntax for "mtllib"; expected at least 1 argument`)
		}
		p.doc.Libraries = append(p.doc.Libraries, rec.Raw)
	case KindVertex, KindTexCoord, KindNormal:
		if len(rec.Args) == 0 {
			return parseErrorf(rec.Line, `unsupported syntax for "%s"; record has no values`, rec.Kind)
		}
		switch rec.Kind {
		case KindVertex:
			p.doc.Vertices = append(p.doc.Vertices, rec.Raw)
		case KindTexCoord:
			p.doc.TexCoords = append(p.doc.TexCoords, rec.Raw)
		case KindNormal:
			p.doc.Normals = append(p.doc.Normals, rec.Raw)
		}
	case KindUseMtl:
		if len(rec.Args) != 1 {
			return parseErrorf(rec.Line, `unsupported syntax for "usemtl"; expected 1 argument; got %d`, len(rec.Args))
		}
		p.active, p.hasActive = rec.Args[0], true
	case KindFace:
		return p.face(rec)
	}
	return nil
}

func (p *parser) face(rec Record) error {
	if len(rec.Args) < 3 {
		return parseErrorf(rec.Line, `unsupported syntax for "f"; expected at least 3 references; got %d`, len(rec.Args))
	}

	face := Face{Line: rec.Line, Refs: make([]FaceRef, len(rec.Args))}
	for i, arg := range rec.Args {
		ref, err := ParseFaceRef(arg)
		if err != nil {
			return parseErrorf(rec.Line, "%v", err)
		}
		face.Refs[i] = ref
	}

	name := p.active
	if !p.hasActive {
		switch p.opts.Orphans {
		case OrphanError:
			return parseErrorf(rec.Line, "face appears before any usemtl directive")
		case OrphanDefault:
			name = p.opts.DefaultMaterial
			if name == "" {
				name = DefaultMaterialName
			}
		default:
			p.doc.DroppedFaces++
			return nil
		}
	}

	target := p.group(name)
	target.Faces = append(target.Faces, face)
	return nil
}

// group returns the group for a material, creating it on first use.
func (p *parser) group(name string) *MaterialGroup {
	if g, ok := p.groups[name]; ok {
		return g
	}
	g := &MaterialGroup{Name: name}
	p.groups[name] = g
	p.doc.Groups = append(p.doc.Groups, g)
	return g
}

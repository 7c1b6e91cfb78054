package wavefront

// MaterialGroup holds the faces recorded while a material was active, in
// source order.
type MaterialGroup struct {
	Name  string
	Faces []Face
}

// Document is the result of parsing an OBJ file. Attribute records are kept
// verbatim and addressed by their 1-based position within their kind.
type Document struct {
	Vertices  []string
	TexCoords []string
	Normals   []string

	// Libraries holds the mtllib lines in source order, duplicates included.
	Libraries []string

	// Groups are ordered by the first usemtl that activated them.
	Groups []*MaterialGroup

	Lines        int // Number of lines read
	DroppedFaces int // Faces discarded by OrphanDrop
}

// Attributes returns the record sequence of the given kind.
func (d *Document) Attributes(kind AttrKind) []string {
	switch kind {
	case Position:
		return d.Vertices
	case TexCoord:
		return d.TexCoords
	case Normal:
		return d.Normals
	}
	return nil
}

// Attribute returns the record with the given 1-based index.
// Returns false if the index is out of range.
func (d *Document) Attribute(kind AttrKind, index int) (string, bool) {
	records := d.Attributes(kind)
	if index < 1 || index > len(records) {
		return "", false
	}
	return records[index-1], true
}

// Group returns the material group with the given name, or nil.
func (d *Document) Group(name string) *MaterialGroup {
	for _, g := range d.Groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// FaceCount returns the number of faces across all groups.
func (d *Document) FaceCount() int {
	n := 0
	for _, g := range d.Groups {
		n += len(g.Faces)
	}
	return n
}

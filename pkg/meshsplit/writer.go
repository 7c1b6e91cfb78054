package meshsplit

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Faultbox/objsplit/pkg/wavefront"
)

// WriteGroup writes a material group as a standalone OBJ document: the
// material libraries, the usemtl directive, the referenced attribute records
// in local index order and the faces rewritten with local indices.
func WriteGroup(w io.Writer, doc *wavefront.Document, group *wavefront.MaterialGroup, tables Tables) error {
	bw := bufio.NewWriter(w)

	for _, lib := range doc.Libraries {
		writeLine(bw, lib)
	}
	writeLine(bw, "usemtl "+group.Name)

	for _, kind := range wavefront.AttrKinds {
		table := tables.Get(kind)
		for newIdx := 1; newIdx <= table.Len(); newIdx++ {
			orig, _ := table.Original(newIdx)
			rec, ok := doc.Attribute(kind, orig)
			if !ok {
				return &IndexError{
					Material: group.Name,
					Kind:     kind,
					Index:    orig,
					Count:    len(doc.Attributes(kind)),
				}
			}
			writeLine(bw, rec)
		}
	}

	for _, face := range group.Faces {
		local, err := tables.RemapFace(face)
		if err != nil {
			return fmt.Errorf("material %q: %w", group.Name, err)
		}
		writeLine(bw, local.String())
	}

	return bw.Flush()
}

// writeLine ignores errors; bufio.Writer keeps the first one and Flush reports it.
func writeLine(bw *bufio.Writer, line string) {
	bw.WriteString(line)
	bw.WriteByte('\n')
}

// OutputPath returns the file a material group is written to:
// {base}_{material}.obj, where base is the input path without extension.
// If outDir is set the file is placed there instead of next to the input.
func OutputPath(inputPath, outDir, material string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	name := fmt.Sprintf("%s_%s.obj", base, SanitizeMaterial(material))

	dir := outDir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}
	return filepath.Join(dir, name)
}

// SanitizeMaterial makes a material name safe to embed in a file name.
func SanitizeMaterial(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, name)
}

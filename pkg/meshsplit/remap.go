// Package meshsplit renumbers the attribute indices of a material group into a
// dense local range and writes the group as a standalone OBJ document.
package meshsplit

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Faultbox/objsplit/pkg/wavefront"
)

// ErrIndexOutOfRange is matched by every *IndexError.
var ErrIndexOutOfRange = errors.New("attribute index out of range")

// IndexError reports a face reference outside its attribute sequence.
type IndexError struct {
	Material string
	Kind     wavefront.AttrKind
	Index    int
	Count    int // Length of the attribute sequence
	Line     int // Source line of the face
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("material %q: line %d: %s index %d outside [1, %d]",
		e.Material, e.Line, e.Kind, e.Index, e.Count)
}

// Is reports whether target is ErrIndexOutOfRange.
func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// RemapTable maps original indices of one attribute kind to a dense 1..N
// range. The mapping preserves the order of the original indices.
type RemapTable struct {
	kind      wavefront.AttrKind
	originals []int       // Sorted ascending; new index i+1 maps to originals[i]
	newIndex  map[int]int // Original -> new
}

// newRemapTable builds a table from a set of distinct original indices.
func newRemapTable(kind wavefront.AttrKind, used map[int]struct{}) *RemapTable {
	originals := make([]int, 0, len(used))
	for idx := range used {
		originals = append(originals, idx)
	}
	sort.Ints(originals)

	newIndex := make(map[int]int, len(originals))
	for i, idx := range originals {
		newIndex[idx] = i + 1
	}

	return &RemapTable{kind: kind, originals: originals, newIndex: newIndex}
}

// Kind returns the attribute kind of the table.
func (t *RemapTable) Kind() wavefront.AttrKind {
	return t.kind
}

// Len returns the number of distinct indices in the table.
func (t *RemapTable) Len() int {
	return len(t.originals)
}

// Map returns the new index for an original index.
func (t *RemapTable) Map(original int) (int, bool) {
	idx, ok := t.newIndex[original]
	return idx, ok
}

// Original returns the original index for a new 1-based index.
func (t *RemapTable) Original(newIdx int) (int, bool) {
	if newIdx < 1 || newIdx > len(t.originals) {
		return 0, false
	}
	return t.originals[newIdx-1], true
}

// Originals returns the original indices in new-index order.
func (t *RemapTable) Originals() []int {
	out := make([]int, len(t.originals))
	copy(out, t.originals)
	return out
}

// Tables holds the three remap tables of one material group.
type Tables [3]*RemapTable

// Get returns the table for an attribute kind.
func (t Tables) Get(kind wavefront.AttrKind) *RemapTable {
	return t[kind]
}

// BuildRemap collects the indices referenced by a group and assigns each kind
// a dense, order preserving numbering. Any reference outside the document's
// attribute sequences aborts the group with an *IndexError.
func BuildRemap(doc *wavefront.Document, group *wavefront.MaterialGroup) (Tables, error) {
	var used [3]map[int]struct{}
	var counts [3]int
	for _, kind := range wavefront.AttrKinds {
		used[kind] = make(map[int]struct{})
		counts[kind] = len(doc.Attributes(kind))
	}

	for _, face := range group.Faces {
		for _, ref := range face.Refs {
			for _, kind := range wavefront.AttrKinds {
				idx, ok := ref.Index(kind)
				if !ok {
					continue
				}
				if idx < 1 || idx > counts[kind] {
					return Tables{}, &IndexError{
						Material: group.Name,
						Kind:     kind,
						Index:    idx,
						Count:    counts[kind],
						Line:     face.Line,
					}
				}
				used[kind][idx] = struct{}{}
			}
		}
	}

	var tables Tables
	for _, kind := range wavefront.AttrKinds {
		tables[kind] = newRemapTable(kind, used[kind])
	}
	return tables, nil
}

// remapRef rewrites a reference into the local numbering.
func (t Tables) remapRef(ref wavefront.FaceRef) (wavefront.FaceRef, error) {
	out := wavefront.FaceRef{HasVT: ref.HasVT, HasVN: ref.HasVN}

	var ok bool
	if out.V, ok = t[wavefront.Position].Map(ref.V); !ok {
		return out, fmt.Errorf("%w: v %d is not in the remap table", ErrIndexOutOfRange, ref.V)
	}
	if ref.HasVT {
		if out.VT, ok = t[wavefront.TexCoord].Map(ref.VT); !ok {
			return out, fmt.Errorf("%w: vt %d is not in the remap table", ErrIndexOutOfRange, ref.VT)
		}
	}
	if ref.HasVN {
		if out.VN, ok = t[wavefront.Normal].Map(ref.VN); !ok {
			return out, fmt.Errorf("%w: vn %d is not in the remap table", ErrIndexOutOfRange, ref.VN)
		}
	}
	return out, nil
}

// RemapFace rewrites every reference of a face into the local numbering.
func (t Tables) RemapFace(face wavefront.Face) (wavefront.Face, error) {
	out := wavefront.Face{Line: face.Line, Refs: make([]wavefront.FaceRef, len(face.Refs))}
	for i, ref := range face.Refs {
		r, err := t.remapRef(ref)
		if err != nil {
			return out, fmt.Errorf("line %d: %w", face.Line, err)
		}
		out.Refs[i] = r
	}
	return out, nil
}

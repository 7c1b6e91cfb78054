package wavefront

import (
	"fmt"
	"strconv"
	"strings"
)

// FaceRef is one corner of a face: a position index and optional texture
// coordinate and normal indices. Indices are 1-based as written in the file.
type FaceRef struct {
	V     int
	VT    int
	VN    int
	HasVT bool
	HasVN bool
}

// Index returns the index of the given attribute kind and whether it is present.
func (r FaceRef) Index(kind AttrKind) (int, bool) {
	switch kind {
	case Position:
		return r.V, true
	case TexCoord:
		return r.VT, r.HasVT
	case Normal:
		return r.VN, r.HasVN
	}
	return 0, false
}

// String formats the reference as v, v/vt, v//vn or v/vt/vn.
func (r FaceRef) String() string {
	v := strconv.Itoa(r.V)
	switch {
	case r.HasVT && r.HasVN:
		return v + "/" + strconv.Itoa(r.VT) + "/" + strconv.Itoa(r.VN)
	case r.HasVT:
		return v + "/" + strconv.Itoa(r.VT)
	case r.HasVN:
		return v + "//" + strconv.Itoa(r.VN)
	default:
		return v
	}
}

// ParseFaceRef parses a single face argument. The supported forms are:
//   - v
//   - v/vt
//   - v//vn
//   - v/vt/vn
//
// Range checks are left to the caller since they depend on the attribute
// counts of the whole document.
func ParseFaceRef(s string) (FaceRef, error) {
	var ref FaceRef

	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return ref, fmt.Errorf("face reference %q has %d components; expected at most 3", s, len(parts))
	}
	if parts[0] == "" {
		return ref, fmt.Errorf("face reference %q does not include a vertex index", s)
	}

	var err error
	if ref.V, err = parseIndex(parts[0]); err != nil {
		return ref, fmt.Errorf("face reference %q: vertex index: %w", s, err)
	}

	if len(parts) > 1 && parts[1] != "" {
		if ref.VT, err = parseIndex(parts[1]); err != nil {
			return ref, fmt.Errorf("face reference %q: texture coordinate index: %w", s, err)
		}
		ref.HasVT = true
	}

	if len(parts) > 2 && parts[2] != "" {
		if ref.VN, err = parseIndex(parts[2]); err != nil {
			return ref, fmt.Errorf("face reference %q: normal index: %w", s, err)
		}
		ref.HasVN = true
	}

	return ref, nil
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return n, nil
}

// Face is a polygon with three or more corners.
type Face struct {
	Line int
	Refs []FaceRef
}

// String formats the face as an OBJ "f" line without the trailing newline.
func (f Face) String() string {
	var sb strings.Builder
	sb.WriteString("f")
	for _, ref := range f.Refs {
		sb.WriteByte(' ')
		sb.WriteString(ref.String())
	}
	return sb.String()
}

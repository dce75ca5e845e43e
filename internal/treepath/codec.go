// Package treepath encodes tree positions of nested-review problems into
// flat sortable identifiers. A position is the 1-based path of sibling
// indices from the root; the encoding packs one path level per byte,
// left-aligned, so that comparing encoded identifiers numerically yields
// depth-first pre-order traversal order. Display code and the reorder
// engine both rely on that ordering.
package treepath

import (
	"errors"
	"strconv"
	"strings"
)

const (
	// MaxDepth is the deepest nesting the encoding can represent.
	MaxDepth = 4
	// MaxIndex is the largest sibling index per level (one byte).
	MaxIndex = 255

	levelBits = 8
)

var (
	ErrEmptyPath   = errors.New("treepath: empty path")
	ErrDepth       = errors.New("treepath: path deeper than MaxDepth")
	ErrIndexRange  = errors.New("treepath: sibling index out of range")
	ErrMalformedID = errors.New("treepath: malformed encoded identifier")
)

// Path is a sequence of 1-based sibling indices, root first.
// Path{2, 1, 3} is the 3rd child of the 1st child of the 2nd top-level
// problem.
type Path []int

// Encode packs p into a flat identifier. Encode and Decode are exact
// inverses for every valid path.
func Encode(p Path) (int64, error) {
	if len(p) == 0 {
		return 0, ErrEmptyPath
	}
	if len(p) > MaxDepth {
		return 0, ErrDepth
	}
	var id int64
	for i, idx := range p {
		if idx < 1 || idx > MaxIndex {
			return 0, ErrIndexRange
		}
		id |= int64(idx) << uint(levelBits*(MaxDepth-1-i))
	}
	return id, nil
}

// Decode unpacks an encoded identifier back into its path.
func Decode(id int64) (Path, error) {
	if id <= 0 || id >= 1<<(levelBits*MaxDepth) {
		return nil, ErrMalformedID
	}
	var p Path
	seenZero := false
	for i := 0; i < MaxDepth; i++ {
		b := int(id >> uint(levelBits*(MaxDepth-1-i)) & MaxIndex)
		if b == 0 {
			seenZero = true
			continue
		}
		if seenZero {
			// A nonzero level below a zero one cannot come from Encode.
			return nil, ErrMalformedID
		}
		p = append(p, b)
	}
	return p, nil
}

// Depth returns the nesting depth of an encoded identifier, or 0 if the
// identifier is malformed.
func Depth(id int64) int {
	p, err := Decode(id)
	if err != nil {
		return 0
	}
	return len(p)
}

// Parent returns the encoded identifier of the parent position. Top-level
// positions have no parent.
func Parent(id int64) (int64, bool) {
	p, err := Decode(id)
	if err != nil || len(p) <= 1 {
		return 0, false
	}
	parent, err := Encode(p[:len(p)-1])
	if err != nil {
		return 0, false
	}
	return parent, true
}

// IsDescendant reports whether a sits strictly below b in the tree, i.e.
// the path of a extends the path of b by at least one level.
func IsDescendant(a, b int64) bool {
	pa, err := Decode(a)
	if err != nil {
		return false
	}
	pb, err := Decode(b)
	if err != nil {
		return false
	}
	if len(pa) <= len(pb) {
		return false
	}
	for i := range pb {
		if pa[i] != pb[i] {
			return false
		}
	}
	return true
}

// String renders the path in dotted display form, e.g. "2.1.3".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}

// Parse reads the dotted display form back into a Path.
func Parse(s string) (Path, error) {
	if s == "" {
		return nil, ErrEmptyPath
	}
	parts := strings.Split(s, ".")
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		p = append(p, idx)
	}
	if len(p) > MaxDepth {
		return nil, ErrDepth
	}
	for _, idx := range p {
		if idx < 1 || idx > MaxIndex {
			return nil, ErrIndexRange
		}
	}
	return p, nil
}

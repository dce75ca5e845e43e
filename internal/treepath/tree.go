package treepath

import "sort"

// Node is one problem position in an explicit tree built from the flat
// identifier list. The root node carries Index 0 and ID 0 and only exists
// to hold the top-level siblings.
type Node struct {
	Index    int
	ID       int64
	Children []*Node
}

// Build constructs the position tree for a set of encoded identifiers.
// Identifiers whose parent is absent from ids still get a node; their
// ancestor chain is created implicitly so traversal never loses records.
func Build(ids []int64) (*Node, error) {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	root := &Node{}
	nodes := map[string]*Node{"": root}

	for _, id := range sorted {
		p, err := Decode(id)
		if err != nil {
			return nil, err
		}
		parent := root
		for depth := 1; depth <= len(p); depth++ {
			prefix := Path(p[:depth])
			key := prefix.String()
			n, ok := nodes[key]
			if !ok {
				n = &Node{Index: p[depth-1]}
				nodes[key] = n
				parent.Children = append(parent.Children, n)
			}
			if depth == len(p) {
				n.ID = id
			}
			parent = n
		}
	}
	return root, nil
}

// Walk visits the tree in depth-first pre-order, skipping the synthetic
// root. Sorting in Build guarantees children appear after their parent and
// siblings appear left to right.
func (n *Node) Walk(fn func(*Node)) {
	for _, c := range n.Children {
		fn(c)
		c.Walk(fn)
	}
}

// Consecutive computes the canonical renumbering for a nested identifier
// set: every sibling list becomes 1..k in its current order, implicit
// (missing) ancestors are collapsed away by promoting their children. The
// result maps each existing identifier to its canonical encoding and is
// fed through the ordinary reorder pipeline.
func Consecutive(ids []int64) (map[int64]int64, error) {
	root, err := Build(ids)
	if err != nil {
		return nil, err
	}
	mapping := make(map[int64]int64, len(ids))
	if err := renumber(root, nil, mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}

func renumber(n *Node, prefix Path, mapping map[int64]int64) error {
	next := 1
	for _, c := range n.Children {
		if c.ID == 0 {
			// Implicit ancestor with no record of its own: splice its
			// children into this sibling list.
			if err := spliceOrphans(c, n, prefix, &next, mapping); err != nil {
				return err
			}
			continue
		}
		childPath := append(append(Path{}, prefix...), next)
		next++
		encoded, err := Encode(childPath)
		if err != nil {
			return err
		}
		mapping[c.ID] = encoded
		if err := renumber(c, childPath, mapping); err != nil {
			return err
		}
	}
	return nil
}

func spliceOrphans(missing *Node, parent *Node, prefix Path, next *int, mapping map[int64]int64) error {
	for _, c := range missing.Children {
		if c.ID == 0 {
			if err := spliceOrphans(c, parent, prefix, next, mapping); err != nil {
				return err
			}
			continue
		}
		childPath := append(append(Path{}, prefix...), *next)
		*next++
		encoded, err := Encode(childPath)
		if err != nil {
			return err
		}
		mapping[c.ID] = encoded
		if err := renumber(c, childPath, mapping); err != nil {
			return err
		}
	}
	return nil
}

// ConsecutiveFlat is the flat-set counterpart of Consecutive: identifiers
// become 1..n in their current numeric order.
func ConsecutiveFlat(ids []int64) map[int64]int64 {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	mapping := make(map[int64]int64, len(sorted))
	for i, id := range sorted {
		mapping[id] = int64(i + 1)
	}
	return mapping
}

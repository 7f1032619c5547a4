package comment

// Node is a comment placed in a Forest. Its Replies field is not used; the
// normalized children are in Children.
type Node struct {
	Comment
	Parent   *Node
	Children []*Node
}

// Forest is the reply structure of one post after normalization.
type Forest struct {
	Roots   []*Node
	Orphans []Comment

	byID map[string]*Node
}

type scanned struct {
	c      Comment
	parent string
}

// Normalize turns the API's nested arrays into a Forest.
//
// Each id is placed once. A node without parentId inherits the node it is
// nested in; a node with parentId always hangs under that parent. Siblings
// keep the order in which they first appear in a depth-first scan. Nodes
// whose parent is missing (or that only reach each other through a cycle)
// end up in Orphans.
func Normalize(roots []Comment) *Forest {
	var (
		order []string
		seen  = make(map[string]*scanned)
	)
	var scan func(list []Comment, enclosing string)
	scan = func(list []Comment, enclosing string) {
		for _, c := range list {
			parent := c.ParentRef()
			if parent == "" {
				parent = enclosing
			}
			if c.ID == "" {
				continue
			}
			if prev, ok := seen[c.ID]; ok {
				// a top-level copy of a nested comment defers to the nested one
				if prev.parent == "" && parent != "" {
					prev.parent = parent
				}
			} else {
				flat := c
				flat.Replies = nil
				seen[c.ID] = &scanned{c: flat, parent: parent}
				order = append(order, c.ID)
			}
			scan(c.Replies, c.ID)
		}
	}
	scan(roots, "")

	nodes := make(map[string]*Node, len(order))
	for _, id := range order {
		nodes[id] = &Node{Comment: seen[id].c}
	}
	f := &Forest{byID: make(map[string]*Node, len(order))}
	for _, id := range order {
		n, parent := nodes[id], seen[id].parent
		switch p, ok := nodes[parent]; {
		case parent == "":
			f.Roots = append(f.Roots, n)
		case ok && p != n:
			n.Parent = p
			p.Children = append(p.Children, n)
		}
	}

	// anything not reachable from a root is an orphan
	f.Walk(0, func(n *Node, _ int) { f.byID[n.ID] = n })
	for _, id := range order {
		if _, ok := f.byID[id]; !ok {
			f.Orphans = append(f.Orphans, seen[id].c)
		}
	}
	return f
}

// Walk visits every node depth-first, parents before their replies, each
// level in order. Depths past maxDepth are reported as maxDepth; maxDepth <= 0
// means no clamp.
func (f *Forest) Walk(maxDepth int, fn func(n *Node, depth int)) {
	if f == nil {
		return
	}
	var visit func(list []*Node, depth int)
	visit = func(list []*Node, depth int) {
		for _, n := range list {
			d := depth
			if maxDepth > 0 && d > maxDepth {
				d = maxDepth
			}
			fn(n, d)
			visit(n.Children, depth+1)
		}
	}
	visit(f.Roots, 0)
}

func (f *Forest) Find(id string) (*Node, bool) {
	if f == nil {
		return nil, false
	}
	n, ok := f.byID[id]
	return n, ok
}

// Count is the number of placed nodes at every depth.
func (f *Forest) Count() int {
	if f == nil {
		return 0
	}
	return len(f.byID)
}

func (f *Forest) TopLevel() int {
	if f == nil {
		return 0
	}
	return len(f.Roots)
}

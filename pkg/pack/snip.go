package pack

import (
	"fmt"

	"github.com/dgallion1/htmlpack/pkg/vdom"
)

// Placeholder replaces content removed by a truncation. Downstream prompts
// rely on recognizing this exact text.
const Placeholder = "[...]"

// Path addresses a node by child indices from a root. It is only valid
// against the tree it was computed from.
type Path []int

// Depth returns the height of a tree. A text node has depth 1 and an
// element has depth 1 plus the depth of its deepest child, so a childless
// element also has depth 1.
func Depth(n *vdom.Node) int {
	if n.IsText() {
		return 1
	}
	deepest := 0
	for _, c := range n.Children {
		if d := Depth(c); d > deepest {
			deepest = d
		}
	}
	return 1 + deepest
}

// SnipAtDepth truncates every element found at distance d from n,
// replacing its children with a single placeholder. Elements nearer the
// root are copied with their tag and attributes unchanged.
func SnipAtDepth(n *vdom.Node, d int) *vdom.Node {
	if n.IsText() {
		return n
	}
	if d == 0 {
		return n.WithChildren([]*vdom.Node{vdom.Text(Placeholder)})
	}
	children := make([]*vdom.Node, len(n.Children))
	for i, c := range n.Children {
		children[i] = SnipAtDepth(c, d-1)
	}
	return n.WithChildren(children)
}

// WidestNode finds the element with the most direct children in the
// tree rooted at n. The root only wins when it is strictly wider than
// every descendant; between equally wide descendants the later one in
// document order wins, which favors deeper nodes.
func WidestNode(n *vdom.Node) (Path, int) {
	if n.IsText() {
		return Path{}, 0
	}
	best, breadth := Path{}, len(n.Children)
	for i, c := range n.Children {
		p, b := WidestNode(c)
		if breadth > b {
			continue
		}
		best, breadth = prepend(i, p), b
	}
	return best, breadth
}

// SnipWidestNode halves the children of the widest node, appending a
// placeholder for the removed tail. Only the nodes on the path to the
// widest node are copied.
func SnipWidestNode(n *vdom.Node) *vdom.Node {
	p, _ := WidestNode(n)
	return updateAt(n, p, snipChildren)
}

// WidestNodeAtDepth finds the widest element exactly d levels below n.
// Ties go to the candidate with the longer path.
func WidestNodeAtDepth(n *vdom.Node, d int) (Path, int) {
	if n.IsText() {
		return Path{}, 0
	}
	if d == 0 {
		return Path{}, len(n.Children)
	}
	best, breadth := Path{}, 0
	for i, c := range n.Children {
		p, b := WidestNodeAtDepth(c, d-1)
		p = prepend(i, p)
		if breadth > b || (breadth == b && len(best) > len(p)) {
			continue
		}
		best, breadth = p, b
	}
	return best, breadth
}

// SnipBreadthAtDepth halves the children of the widest element exactly d
// levels below n.
func SnipBreadthAtDepth(n *vdom.Node, d int) *vdom.Node {
	if n.IsText() {
		return n
	}
	p, _ := WidestNodeAtDepth(n, d)
	return updateAt(n, p, snipChildren)
}

func snipChildren(n *vdom.Node) *vdom.Node {
	if n.IsText() {
		return n
	}
	keep := len(n.Children) / 2
	children := make([]*vdom.Node, 0, keep+1)
	children = append(children, n.Children[:keep]...)
	children = append(children, vdom.Text(Placeholder))
	return n.WithChildren(children)
}

// updateAt returns a copy of n with the node at p replaced by fn(node).
// Siblings off the path are shared, not copied.
func updateAt(n *vdom.Node, p Path, fn func(*vdom.Node) *vdom.Node) *vdom.Node {
	if len(p) == 0 {
		return fn(n)
	}
	if n.IsText() {
		panic("pack: path descends into a text node")
	}
	i := p[0]
	if i < 0 || i >= len(n.Children) {
		panic(fmt.Sprintf("pack: path index %d out of range [0,%d)", i, len(n.Children)))
	}
	children := make([]*vdom.Node, len(n.Children))
	copy(children, n.Children)
	children[i] = updateAt(n.Children[i], p[1:], fn)
	return n.WithChildren(children)
}

func prepend(i int, p Path) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, i)
	return append(out, p...)
}

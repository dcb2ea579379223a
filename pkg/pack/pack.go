// Package pack shrinks a document tree until it fits a caller-supplied
// weight budget, combining uniform depth truncation with halving of the
// widest node.
package pack

import "github.com/dgallion1/htmlpack/pkg/vdom"

// WeightFunc measures a tree. It must be deterministic and must never
// increase when a tree is truncated by SnipAtDepth or SnipWidestNode.
type WeightFunc func(*vdom.Node) int

// Request is the input to Pack.
type Request struct {
	Root      *vdom.Node
	Weight    WeightFunc
	MaxWeight int
}

// Result describes a packing run.
type Result struct {
	Root         *vdom.Node
	Weight       int  // weight of Root
	InputWeight  int  // weight of the input tree
	Fits         bool // Weight <= MaxWeight
	Iterations   int
	DepthSnips   int // adopted depth truncations
	BreadthSnips int // adopted widest-node truncations
	Depth        int // final truncation depth
}

// Pack returns the packed tree for req. When the budget cannot be met the
// smallest tree found is returned; that is not an error.
func Pack(req Request) *vdom.Node {
	return Run(req).Root
}

// Run packs req.Root and reports how it got there.
//
// Each iteration tries two candidates: the tree truncated at the current
// depth, walking the depth down until truncation actually reduces weight,
// and the tree with its widest node halved. The lighter candidate is
// adopted, preferring the depth truncation on equal weight. The loop ends
// when the tree fits or neither candidate is lighter than the tree.
func Run(req Request) Result {
	root := req.Root
	weight := req.Weight(root)
	res := Result{InputWeight: weight}
	depth := Depth(root)

	for weight > req.MaxWeight {
		res.Iterations++

		depthSnip := SnipAtDepth(root, depth)
		depthWeight := req.Weight(depthSnip)
		for depthWeight >= weight && depth > 1 {
			depth--
			depthSnip = SnipAtDepth(root, depth)
			depthWeight = req.Weight(depthSnip)
		}

		breadthSnip := SnipWidestNode(root)
		breadthWeight := req.Weight(breadthSnip)

		if depthWeight >= weight && breadthWeight >= weight {
			break
		}
		if depthWeight < weight && depthWeight <= breadthWeight {
			root, weight = depthSnip, depthWeight
			res.DepthSnips++
		} else {
			root, weight = breadthSnip, breadthWeight
			res.BreadthSnips++
		}
	}

	res.Root = root
	res.Weight = weight
	res.Fits = weight <= req.MaxWeight
	res.Depth = depth
	return res
}

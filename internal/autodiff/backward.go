package autodiff

import (
	"github.com/born-ml/gradgraph/internal/autodiff/ops"
	"github.com/born-ml/gradgraph/internal/tensor"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// NodeID indexes a node in its graph's arena.
type NodeID int

// NoNode marks an absent node.
const NoNode NodeID = -1

// Node is the graph-side record of one tracked tensor.
type Node struct {
	id             NodeID
	tensor         *Tensor
	parents        []NodeID // operand nodes, upstream
	children       []NodeID // consumer nodes, downstream
	inputs         []NodeID // one slot per operand, NoNode when untracked
	rule           *ops.Rule
	broadcastShape tensor.Shape
	visited        bool
}

// ID returns the node's arena index.
func (n *Node) ID() NodeID { return n.id }

// Tensor returns the tracked tensor.
func (n *Node) Tensor() *Tensor { return n.tensor }

// Parents returns the operand nodes in operand order.
func (n *Node) Parents() []NodeID { return append([]NodeID(nil), n.parents...) }

// Children returns the consumer nodes in creation order.
func (n *Node) Children() []NodeID { return append([]NodeID(nil), n.children...) }

// Inputs returns one entry per operand; untracked operands are NoNode.
func (n *Node) Inputs() []NodeID { return append([]NodeID(nil), n.inputs...) }

// IsLeaf reports whether the node was not produced by an operation.
func (n *Node) IsLeaf() bool { return n.rule == nil }

// Kind returns the producing operation; ok is false for leaves.
func (n *Node) Kind() (kind ops.Kind, ok bool) {
	if n.rule == nil {
		return 0, false
	}
	return n.rule.Kind, true
}

// BroadcastShape returns the shape operands were broadcast to, or nil.
func (n *Node) BroadcastShape() tensor.Shape { return n.broadcastShape }

// Visited reports the traversal marker.
func (n *Node) Visited() bool { return n.visited }

// TopologicalOrder returns the tensors reachable from t in backward
// processing order: every tensor appears after all of its consumers.
// Returns nil if t has no node.
func (g *Graph) TopologicalOrder(t *Tensor) []*Tensor {
	n, ok := g.NodeOf(t)
	if !ok {
		return nil
	}
	ids := g.sortFrom(n.id)
	order := make([]*Tensor, len(ids))
	for i, id := range ids {
		order[i] = g.nodes[id].tensor
	}
	return order
}

// sortFrom runs the dependency-respecting DFS with visited markers cleared
// before and after.
func (g *Graph) sortFrom(seed NodeID) []NodeID {
	g.ResetVisited()
	order := make([]NodeID, 0, len(g.nodes))
	g.topSort(seed, &order)
	g.ResetVisited()
	return order
}

// topSort finalizes a node once all of its children are visited, then moves
// on to its parents. A node with unvisited children defers to them first; the
// last child to finalize comes back through its parents.
func (g *Graph) topSort(id NodeID, order *[]NodeID) {
	n := g.nodes[id]
	if n.visited {
		return
	}
	if !g.childrenVisited(n) {
		for _, c := range n.children {
			if !g.nodes[c].visited {
				g.topSort(c, order)
			}
		}
		return
	}

	n.visited = true
	*order = append(*order, id)
	for _, p := range n.parents {
		if !g.nodes[p].visited {
			g.topSort(p, order)
		}
	}
}

func (g *Graph) childrenVisited(n *Node) bool {
	for _, c := range n.children {
		if !g.nodes[c].visited {
			return false
		}
	}
	return true
}

// backward propagates upstream from seed through the graph.
//
// Every node's rule runs once with the gradient accumulated for it in this
// call. Nodes in the order that received nothing (consumers off every path to
// the seed) are skipped.
func (g *Graph) backward(seed *Node, upstream *tensor.Array) error {
	order := g.sortFrom(seed.id)
	klog.V(4).InfoS("Backward", "seed", seed.id, "nodes", len(order), "graph", len(g.nodes))

	pending := map[NodeID]*tensor.Array{seed.id: upstream}
	for _, id := range order {
		n := g.nodes[id]
		ug, ok := pending[id]
		if !ok || n.rule == nil {
			continue
		}
		delete(pending, id)

		klog.V(5).InfoS("Applying gradient rule", "node", id, "op", n.rule.Kind, "shape", ug.Shape())
		grads, err := n.rule.Backward(ug)
		if err != nil {
			return errors.Wrapf(err, "node %d", id)
		}

		for slot, in := range n.inputs {
			if in == NoNode {
				continue
			}
			parent := g.nodes[in]
			grad, err := n.reduceGrad(grads[slot], parent.tensor.Shape())
			if err != nil {
				return errors.Wrapf(err, "node %d operand %d", id, slot)
			}
			if err := parent.tensor.grad.AddInPlace(grad); err != nil {
				return errors.Wrapf(err, "node %d operand %d", id, slot)
			}
			if prev, ok := pending[in]; ok {
				if grad, err = tensor.Add(prev, grad); err != nil {
					return errors.Wrapf(err, "node %d operand %d", id, slot)
				}
			}
			pending[in] = grad
		}
	}
	return nil
}

// reduceGrad brings an operand gradient back to the operand's shape.
func (n *Node) reduceGrad(grad *tensor.Array, shape tensor.Shape) (*tensor.Array, error) {
	if n.broadcastShape != nil {
		return tensor.ReduceTo(grad, shape)
	}
	if !grad.Shape().Equal(shape) {
		return grad.Reshape(shape)
	}
	return grad, nil
}

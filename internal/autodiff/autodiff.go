// Package autodiff implements reverse-mode automatic differentiation over a
// dynamically built computation graph.
//
// Architecture:
//   - Graph: explicit context owning a node arena and the tracking flag
//   - Tensor: value handle (data, gradient accumulator, node reference)
//   - Node: one tracked tensor, its producers (parents), consumers (children)
//     and the gradient rule of the operation that produced it
//   - ops.Kind: fixed set of primitives, each with forward and gradient rule
//
// Operations consume tensors, compute the result eagerly and, when tracking is
// on and any operand requires gradients, register a node linked to the
// operand nodes. Backward walks the graph from the output in dependency order
// so each node's rule runs only after every consumer has contributed to its
// upstream gradient.
//
// Usage:
//
//	g := autodiff.New()
//	x, _ := g.NewTensor(3.0, autodiff.WithGrad())
//	y := autodiff.Must(x.Add(x)) // y = 2x
//	z := autodiff.Must(y.Mul(y)) // z = y²
//	_ = z.Backward()
//	fmt.Println(x.Grad()) // dz/dx = 2y * 2 = 24
//
// A Graph and its tensors are not safe for concurrent use.
package autodiff

import (
	"github.com/born-ml/gradgraph/internal/autodiff/ops"
	"github.com/born-ml/gradgraph/internal/tensor"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Config controls graph construction.
type Config struct {
	Track bool // Whether operations record nodes.
}

// DefaultConfig returns a tracking configuration.
func DefaultConfig() Config {
	return Config{Track: true}
}

// Graph is the registry of tracked tensors and the tracking state.
//
// Nodes live in an arena indexed by NodeID; tensors refer to their node by ID
// plus the arena generation, so Clear invalidates every reference at once.
type Graph struct {
	nodes      []*Node
	track      bool
	generation uint64
}

// New creates a graph with DefaultConfig.
func New() *Graph {
	return NewGraph(DefaultConfig())
}

// NewGraph creates a graph with the given configuration.
func NewGraph(cfg Config) *Graph {
	return &Graph{
		nodes: make([]*Node, 0, 64), // Pre-allocate for common case
		track: cfg.Track,
	}
}

// Tracking reports whether new operations record nodes.
func (g *Graph) Tracking() bool {
	return g.track
}

// NoTrack runs fn with tracking disabled. The previous tracking state is
// restored when fn returns or panics.
//
// Example:
//
//	err := g.NoTrack(func() error {
//	    pred, err := model.Forward(x) // no nodes recorded
//	    ...
//	})
func (g *Graph) NoTrack(fn func() error) error {
	prev := g.track
	g.track = false
	klog.V(4).InfoS("Graph tracking suspended", "nodes", len(g.nodes))
	defer func() {
		g.track = prev
	}()
	return fn()
}

// Len returns the number of registered nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// NodeOf returns the node tracking t, if any.
func (g *Graph) NodeOf(t *Tensor) (*Node, bool) {
	if t == nil || t.graph != g || t.node == NoNode || t.generation != g.generation {
		return nil, false
	}
	n := g.Node(t.node)
	return n, n != nil
}

// Clear drops every node. Tensors keep their data and gradients; tensors that
// require gradients get a fresh leaf node the next time they are used.
//
// Call Clear after each training step. Leaves are shared across steps, so a
// graph that is never cleared grows every iteration and Backward cost grows
// with it, quadratically over the run.
func (g *Graph) Clear() {
	klog.V(3).InfoS("Clearing graph", "nodes", len(g.nodes), "generation", g.generation)
	g.nodes = g.nodes[:0]
	g.generation++
}

// ResetVisited clears the traversal marker of every node.
func (g *Graph) ResetVisited() {
	for _, n := range g.nodes {
		n.visited = false
	}
}

// AddEdge links result to the nodes of its operands: each operand node gains
// result as a child and result gains it as a parent. Operands that require
// gradients but have no node yet are registered as leaves first. Operands
// that do not require gradients are skipped and become traversal boundaries.
func (g *Graph) AddEdge(result *Node, operands []*Tensor) {
	for _, operand := range operands {
		id := NoNode
		if n, ok := g.NodeOf(operand); ok {
			id = n.id
		} else if operand != nil && operand.requiresGrad && operand.graph == g {
			id = g.newNode(operand).id
		}

		result.inputs = append(result.inputs, id)
		if id == NoNode {
			continue
		}
		result.parents = append(result.parents, id)
		g.nodes[id].children = append(g.nodes[id].children, result.id)
	}
}

// newNode registers t in the arena.
func (g *Graph) newNode(t *Tensor) *Node {
	n := &Node{
		id:     NodeID(len(g.nodes)),
		tensor: t,
	}
	g.nodes = append(g.nodes, n)
	t.node = n.id
	t.generation = g.generation
	return n
}

// apply runs one operation: operands are coerced to tensors, the forward
// kernel runs, and only on success the result tensor and its node are
// registered.
func (g *Graph) apply(kind ops.Kind, params ops.Params, operands ...any) (*Tensor, error) {
	tensors, err := g.coerce(operands)
	if err != nil {
		return nil, errors.Wrap(err, kind.String())
	}
	arrays := make([]*tensor.Array, len(tensors))
	requiresGrad := false
	for i, t := range tensors {
		arrays[i] = t.data
		requiresGrad = requiresGrad || t.requiresGrad
	}

	rule, err := ops.Forward(kind, params, arrays...)
	if err != nil {
		return nil, err
	}

	result := g.wrap(rule.Output, requiresGrad)
	if g.track && requiresGrad {
		n := g.newNode(result)
		n.rule = rule
		n.broadcastShape = rule.BroadcastShape
		g.AddEdge(n, tensors)
	}
	return result, nil
}

func (g *Graph) coerce(operands []any) ([]*Tensor, error) {
	tensors := make([]*Tensor, len(operands))
	for i, operand := range operands {
		switch v := operand.(type) {
		case *Tensor:
			if v == nil {
				return nil, errors.Wrapf(ErrNilTensor, "operand %d", i)
			}
			if v.graph != g {
				return nil, errors.Wrapf(ErrGraphMismatch, "operand %d", i)
			}
			tensors[i] = v
		default:
			data, err := tensor.FromValue(v)
			if err != nil {
				return nil, errors.Wrapf(err, "operand %d", i)
			}
			tensors[i] = g.wrap(data, false)
		}
	}
	return tensors, nil
}

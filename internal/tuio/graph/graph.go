// Package graph implements the directed graph substrate used by
// association, skeleton and topology messages (§4.3). Nodes and edges are
// addressed by stable handles that remain valid across unrelated
// mutations, implemented as arena slots with a generation counter so a
// stale handle used after its slot is recycled is detectable rather than
// silently aliasing a different node — the approach named in §9's "graphs
// with stable handles" design note.
package graph

import "github.com/banshee-data/velocity.report/internal/tuio/tuioerr"

// NodeHandle addresses a node in a Graph. The zero value never refers to a
// live node.
type NodeHandle struct {
	index      int
	generation uint32
}

// EdgeHandle addresses an edge in a Graph.
type EdgeHandle struct {
	index      int
	generation uint32
}

type node[N any] struct {
	value      N
	generation uint32
	alive      bool
}

type edge[E any] struct {
	value      E
	from, to   NodeHandle
	generation uint32
	alive      bool
}

// Graph is a directed graph parameterized over node and edge payload
// types, with arena-allocated, generation-checked handles.
type Graph[N any, E any] struct {
	nodes    []node[N]
	edges    []edge[E]
	freeNode []int
	freeEdge []int
}

// New constructs an empty graph.
func New[N any, E any]() *Graph[N, E] {
	return &Graph[N, E]{}
}

// CreateNode inserts a node and returns its stable handle.
func (g *Graph[N, E]) CreateNode(value N) NodeHandle {
	if len(g.freeNode) > 0 {
		idx := g.freeNode[len(g.freeNode)-1]
		g.freeNode = g.freeNode[:len(g.freeNode)-1]
		g.nodes[idx].value = value
		g.nodes[idx].alive = true
		g.nodes[idx].generation++
		return NodeHandle{index: idx, generation: g.nodes[idx].generation}
	}
	g.nodes = append(g.nodes, node[N]{value: value, alive: true, generation: 1})
	return NodeHandle{index: len(g.nodes) - 1, generation: 1}
}

// RemoveNode deletes a node and every edge incident to it.
func (g *Graph[N, E]) RemoveNode(h NodeHandle) bool {
	if !g.nodeAlive(h) {
		return false
	}
	for i := range g.edges {
		e := &g.edges[i]
		if e.alive && (e.from == h || e.to == h) {
			e.alive = false
			g.freeEdge = append(g.freeEdge, i)
		}
	}
	g.nodes[h.index].alive = false
	g.freeNode = append(g.freeNode, h.index)
	return true
}

// CreateEdge inserts a directed edge from -> to and returns its handle.
// Returns false if either endpoint handle is stale.
func (g *Graph[N, E]) CreateEdge(from, to NodeHandle, value E) (EdgeHandle, bool) {
	if !g.nodeAlive(from) || !g.nodeAlive(to) {
		return EdgeHandle{}, false
	}
	if len(g.freeEdge) > 0 {
		idx := g.freeEdge[len(g.freeEdge)-1]
		g.freeEdge = g.freeEdge[:len(g.freeEdge)-1]
		g.edges[idx] = edge[E]{value: value, from: from, to: to, alive: true, generation: g.edges[idx].generation + 1}
		return EdgeHandle{index: idx, generation: g.edges[idx].generation}, true
	}
	g.edges = append(g.edges, edge[E]{value: value, from: from, to: to, alive: true, generation: 1})
	return EdgeHandle{index: len(g.edges) - 1, generation: 1}, true
}

// RemoveEdge deletes an edge.
func (g *Graph[N, E]) RemoveEdge(h EdgeHandle) bool {
	if !g.edgeAlive(h) {
		return false
	}
	g.edges[h.index].alive = false
	g.freeEdge = append(g.freeEdge, h.index)
	return true
}

func (g *Graph[N, E]) nodeAlive(h NodeHandle) bool {
	return h.index >= 0 && h.index < len(g.nodes) && g.nodes[h.index].alive && g.nodes[h.index].generation == h.generation
}

func (g *Graph[N, E]) edgeAlive(h EdgeHandle) bool {
	return h.index >= 0 && h.index < len(g.edges) && g.edges[h.index].alive && g.edges[h.index].generation == h.generation
}

// Node looks up a node's value by handle.
func (g *Graph[N, E]) Node(h NodeHandle) (N, bool) {
	var zero N
	if !g.nodeAlive(h) {
		return zero, false
	}
	return g.nodes[h.index].value, true
}

// SetNode overwrites a live node's value in place. Returns false if h is
// stale. Used by callers that need to rewrite node payloads (e.g. the
// multiplexing adaptor remapping session ids embedded in a link graph)
// without disturbing the graph's edges or other handles.
func (g *Graph[N, E]) SetNode(h NodeHandle, value N) bool {
	if !g.nodeAlive(h) {
		return false
	}
	g.nodes[h.index].value = value
	return true
}

// Edge looks up an edge's value and endpoints by handle.
func (g *Graph[N, E]) Edge(h EdgeHandle) (value E, from, to NodeHandle, ok bool) {
	if !g.edgeAlive(h) {
		return value, from, to, false
	}
	e := g.edges[h.index]
	return e.value, e.from, e.to, true
}

// Nodes enumerates all live node handles.
func (g *Graph[N, E]) Nodes() []NodeHandle {
	out := make([]NodeHandle, 0, len(g.nodes))
	for i, n := range g.nodes {
		if n.alive {
			out = append(out, NodeHandle{index: i, generation: n.generation})
		}
	}
	return out
}

// Edges enumerates all live edge handles.
func (g *Graph[N, E]) Edges() []EdgeHandle {
	out := make([]EdgeHandle, 0, len(g.edges))
	for i, e := range g.edges {
		if e.alive {
			out = append(out, EdgeHandle{index: i, generation: e.generation})
		}
	}
	return out
}

// IncidentEdges returns every live edge touching h, either as source or
// target.
func (g *Graph[N, E]) IncidentEdges(h NodeHandle) []EdgeHandle {
	var out []EdgeHandle
	for i, e := range g.edges {
		if e.alive && (e.from == h || e.to == h) {
			out = append(out, EdgeHandle{index: i, generation: e.generation})
		}
	}
	return out
}

// OutEdges returns every live edge whose source is h.
func (g *Graph[N, E]) OutEdges(h NodeHandle) []EdgeHandle {
	var out []EdgeHandle
	for i, e := range g.edges {
		if e.alive && e.from == h {
			out = append(out, EdgeHandle{index: i, generation: e.generation})
		}
	}
	return out
}

// InDegree returns the number of live edges targeting h.
func (g *Graph[N, E]) InDegree(h NodeHandle) int {
	n := 0
	for _, e := range g.edges {
		if e.alive && e.to == h {
			n++
		}
	}
	return n
}

// OutDegree returns the number of live edges sourced at h.
func (g *Graph[N, E]) OutDegree(h NodeHandle) int {
	n := 0
	for _, e := range g.edges {
		if e.alive && e.from == h {
			n++
		}
	}
	return n
}

// ContainsOrientedCycle reports whether the graph has a directed cycle,
// via DFS with a recursion stack (§4.3).
func (g *Graph[N, E]) ContainsOrientedCycle() bool {
	visited := make(map[NodeHandle]bool)
	onStack := make(map[NodeHandle]bool)
	var visit func(NodeHandle) bool
	visit = func(h NodeHandle) bool {
		visited[h] = true
		onStack[h] = true
		for _, eh := range g.OutEdges(h) {
			_, _, to, ok := g.Edge(eh)
			if !ok {
				continue
			}
			if onStack[to] {
				return true
			}
			if !visited[to] && visit(to) {
				return true
			}
		}
		onStack[h] = false
		return false
	}
	for _, h := range g.Nodes() {
		if !visited[h] && visit(h) {
			return true
		}
	}
	return false
}

// ContainsUnorientedCycle reports whether the underlying undirected graph
// has a cycle, using union-find over edges (§4.3).
func (g *Graph[N, E]) ContainsUnorientedCycle() bool {
	parent := make(map[NodeHandle]NodeHandle)
	var find func(NodeHandle) NodeHandle
	find = func(h NodeHandle) NodeHandle {
		if p, ok := parent[h]; ok && p != h {
			root := find(p)
			parent[h] = root
			return root
		}
		parent[h] = h
		return h
	}
	for _, h := range g.Nodes() {
		parent[h] = h
	}
	for _, eh := range g.Edges() {
		_, from, to, ok := g.Edge(eh)
		if !ok {
			continue
		}
		rf, rt := find(from), find(to)
		if rf == rt {
			return true
		}
		parent[rf] = rt
	}
	return false
}

// IsLinearOriented reports whether every node has in-degree <= 1 and
// out-degree <= 1, exactly one node has in-degree 0, exactly one has
// out-degree 0, and the graph is connected (§4.3).
func (g *Graph[N, E]) IsLinearOriented() bool {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return false
	}
	inZero, outZero := 0, 0
	for _, h := range nodes {
		in, out := g.InDegree(h), g.OutDegree(h)
		if in > 1 || out > 1 {
			return false
		}
		if in == 0 {
			inZero++
		}
		if out == 0 {
			outZero++
		}
	}
	if inZero != 1 || outZero != 1 {
		return false
	}
	return g.isWeaklyConnected(nodes)
}

// IsTrunkTree reports whether the graph is a rooted out-tree with exactly
// one origin leaf (root) and no unoriented cycles (§4.3).
func (g *Graph[N, E]) IsTrunkTree() bool {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return false
	}
	roots := 0
	for _, h := range nodes {
		in := g.InDegree(h)
		if in > 1 {
			return false
		}
		if in == 0 {
			roots++
		}
	}
	if roots != 1 {
		return false
	}
	if g.ContainsUnorientedCycle() {
		return false
	}
	return g.isWeaklyConnected(nodes)
}

func (g *Graph[N, E]) isWeaklyConnected(nodes []NodeHandle) bool {
	if len(nodes) == 0 {
		return false
	}
	adj := make(map[NodeHandle][]NodeHandle)
	for _, eh := range g.Edges() {
		_, from, to, ok := g.Edge(eh)
		if !ok {
			continue
		}
		adj[from] = append(adj[from], to)
		adj[to] = append(adj[to], from)
	}
	seen := map[NodeHandle]bool{nodes[0]: true}
	queue := []NodeHandle{nodes[0]}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return len(seen) == len(nodes)
}

// GetOriginLeaf returns the unique node with in-degree 0 (linear graphs) or
// the root (trunk-trees). Fails with KindGraphTopology/NotUnique if no
// such node exists or more than one does.
func (g *Graph[N, E]) GetOriginLeaf() (NodeHandle, error) {
	var origin NodeHandle
	count := 0
	for _, h := range g.Nodes() {
		if g.InDegree(h) == 0 {
			origin = h
			count++
		}
	}
	if count != 1 {
		return NodeHandle{}, tuioerr.New(tuioerr.KindGraphTopology, "graph", "origin leaf is not unique")
	}
	return origin, nil
}

// LinearWalk visits every node of a well-formed linear-oriented graph
// exactly once, in order from the origin leaf, invoking visitNode for each
// node and visitEdge for each traversed edge (§4.3).
func LinearWalk[N any, E any](g *Graph[N, E], visitNode func(NodeHandle, N), visitEdge func(EdgeHandle, E)) error {
	if !g.IsLinearOriented() {
		return tuioerr.New(tuioerr.KindGraphTopology, "graph", "not a linear oriented graph")
	}
	origin, err := g.GetOriginLeaf()
	if err != nil {
		return err
	}
	cur := origin
	for {
		val, _ := g.Node(cur)
		visitNode(cur, val)
		out := g.OutEdges(cur)
		if len(out) == 0 {
			return nil
		}
		eh := out[0]
		ev, _, to, _ := g.Edge(eh)
		if visitEdge != nil {
			visitEdge(eh, ev)
		}
		cur = to
	}
}

// TrunkTreeWalk performs a DFS over a well-formed trunk-tree graph from
// its root, calling visitNode/visitEdge on descent and rollback with the
// number of levels backtracked whenever traversal returns to an ancestor
// before descending into a new subtree (§4.3).
func TrunkTreeWalk[N any, E any](g *Graph[N, E], visitNode func(NodeHandle, N), visitEdge func(EdgeHandle, E), rollback func(count int)) error {
	if !g.IsTrunkTree() {
		return tuioerr.New(tuioerr.KindGraphTopology, "graph", "not a trunk tree graph")
	}
	root, err := g.GetOriginLeaf()
	if err != nil {
		return err
	}
	// walk visits h (at the given depth) depth-first and returns the depth
	// of the last node visited in its subtree, so a sibling loop can tell
	// how many levels the previous sibling's subtree descended below h
	// before rolling back to h's own depth to descend into the next one.
	var walk func(h NodeHandle, depth int) int
	walk = func(h NodeHandle, depth int) int {
		val, _ := g.Node(h)
		visitNode(h, val)
		exitDepth := depth
		for i, eh := range g.OutEdges(h) {
			if i > 0 && rollback != nil {
				rollback(exitDepth - depth)
			}
			ev, _, to, _ := g.Edge(eh)
			if visitEdge != nil {
				visitEdge(eh, ev)
			}
			exitDepth = walk(to, depth+1)
		}
		return exitDepth
	}
	walk(root, 0)
	return nil
}

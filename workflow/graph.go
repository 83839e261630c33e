package workflow

import (
	"fmt"
	"slices"
)

// Graph builds a workflow from named steps and directed edges. Every node
// has at most one outgoing specification: a fixed edge or a conditional
// branch over declared targets. Problems are collected and reported by
// Compile.
type Graph struct {
	name     string
	nodes    map[string]Step
	order    []string
	edges    map[string]string
	branches map[string]conditional
	entry    string
	finish   string
	problems []string
}

type conditional struct {
	branch  Branch
	targets []string
}

// NewGraph creates an empty graph.
func NewGraph(name string) *Graph {
	return &Graph{
		name:     name,
		nodes:    make(map[string]Step),
		edges:    make(map[string]string),
		branches: make(map[string]conditional),
	}
}

// AddNode registers a step under its name.
func (g *Graph) AddNode(step Step) *Graph {
	if step == nil {
		g.problem("nil step")
		return g
	}
	name := step.Name()
	if _, dup := g.nodes[name]; dup {
		g.problem("duplicate node %q", name)
		return g
	}
	g.nodes[name] = step
	g.order = append(g.order, name)
	return g
}

// AddEdge wires a fixed transition from one node to another.
func (g *Graph) AddEdge(from, to string) *Graph {
	if g.hasOutgoing(from) {
		g.problem("node %q already has an outgoing edge", from)
		return g
	}
	g.edges[from] = to
	return g
}

// AddConditionalEdges wires a branch that picks exactly one of targets.
func (g *Graph) AddConditionalEdges(from string, branch Branch, targets ...string) *Graph {
	if g.hasOutgoing(from) {
		g.problem("node %q already has an outgoing edge", from)
		return g
	}
	if branch == nil {
		g.problem("node %q has a nil branch", from)
		return g
	}
	if len(targets) < 2 {
		g.problem("conditional edges from %q need at least two targets", from)
		return g
	}
	g.branches[from] = conditional{branch: branch, targets: slices.Clone(targets)}
	return g
}

// SetEntry sets the node executed first.
func (g *Graph) SetEntry(name string) *Graph {
	g.entry = name
	return g
}

// SetFinish sets the terminal node whose state is the run's output.
func (g *Graph) SetFinish(name string) *Graph {
	g.finish = name
	return g
}

func (g *Graph) hasOutgoing(name string) bool {
	_, fixed := g.edges[name]
	_, cond := g.branches[name]
	return fixed || cond
}

func (g *Graph) problem(format string, args ...any) {
	g.problems = append(g.problems, fmt.Sprintf(format, args...))
}

// successors lists every node a node may transition to.
func (g *Graph) successors(name string) []string {
	if to, ok := g.edges[name]; ok {
		return []string{to}
	}
	if c, ok := g.branches[name]; ok {
		return c.targets
	}
	return nil
}

// Compile validates the graph and returns an executable workflow.
//
// The graph must have known endpoints, no cycles, every node reachable from
// the entry, the finish node as the only node without successors, and a path
// from every node to the finish node.
func (g *Graph) Compile() (*Workflow, error) {
	problems := slices.Clone(g.problems)
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if g.entry == "" {
		add("no entry node")
	} else if _, ok := g.nodes[g.entry]; !ok {
		add("entry node %q is not registered", g.entry)
	}
	if g.finish == "" {
		add("no finish node")
	} else if _, ok := g.nodes[g.finish]; !ok {
		add("finish node %q is not registered", g.finish)
	} else if g.hasOutgoing(g.finish) {
		add("finish node %q has an outgoing edge", g.finish)
	}

	for _, from := range g.sortedSources() {
		if _, ok := g.nodes[from]; !ok {
			add("edge from unknown node %q", from)
		}
		for _, to := range g.successors(from) {
			if _, ok := g.nodes[to]; !ok {
				add("edge from %q to unknown node %q", from, to)
			}
		}
	}
	if len(problems) > 0 {
		return nil, &GraphError{Graph: g.name, Problems: problems}
	}

	order, ok := g.topoSort()
	if !ok {
		add("graph contains a cycle")
		return nil, &GraphError{Graph: g.name, Problems: problems}
	}

	reachable := g.reach(g.entry, g.successors)
	for _, name := range g.order {
		if !reachable[name] {
			add("node %q is unreachable from entry %q", name, g.entry)
		}
	}

	for _, name := range g.order {
		if name != g.finish && len(g.successors(name)) == 0 {
			add("node %q has no outgoing edge and is not the finish node", name)
		}
	}

	predecessors := make(map[string][]string)
	for _, from := range g.order {
		for _, to := range g.successors(from) {
			predecessors[to] = append(predecessors[to], from)
		}
	}
	reachesFinish := g.reach(g.finish, func(n string) []string { return predecessors[n] })
	for _, name := range g.order {
		if reachable[name] && !reachesFinish[name] {
			add("node %q cannot reach finish node %q", name, g.finish)
		}
	}

	if len(problems) > 0 {
		return nil, &GraphError{Graph: g.name, Problems: problems}
	}

	w := &Workflow{
		name:     g.name,
		nodes:    make(map[string]Step, len(g.nodes)),
		edges:    make(map[string]string, len(g.edges)),
		branches: make(map[string]conditional, len(g.branches)),
		entry:    g.entry,
		finish:   g.finish,
		order:    order,
	}
	for k, v := range g.nodes {
		w.nodes[k] = v
	}
	for k, v := range g.edges {
		w.edges[k] = v
	}
	for k, v := range g.branches {
		w.branches[k] = v
	}
	return w, nil
}

// MustCompile is like Compile but panics on an invalid graph.
func (g *Graph) MustCompile() *Workflow {
	w, err := g.Compile()
	if err != nil {
		panic(err)
	}
	return w
}

func (g *Graph) sortedSources() []string {
	var out []string
	for from := range g.edges {
		out = append(out, from)
	}
	for from := range g.branches {
		out = append(out, from)
	}
	slices.Sort(out)
	return out
}

// topoSort orders nodes with Kahn's algorithm, breaking ties by
// registration order. ok is false when a cycle remains.
func (g *Graph) topoSort() (order []string, ok bool) {
	indegree := make(map[string]int, len(g.nodes))
	for _, name := range g.order {
		for _, to := range g.successors(name) {
			indegree[to]++
		}
	}

	var queue []string
	for _, name := range g.order {
		if indegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		order = append(order, name)
		for _, to := range g.successors(name) {
			indegree[to]--
			if indegree[to] == 0 {
				queue = append(queue, to)
			}
		}
	}
	return order, len(order) == len(g.nodes)
}

func (g *Graph) reach(start string, next func(string) []string) map[string]bool {
	seen := map[string]bool{start: true}
	stack := []string{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, m := range next(n) {
			if !seen[m] {
				seen[m] = true
				stack = append(stack, m)
			}
		}
	}
	return seen
}

package project

import (
	"fmt"
	"strings"
)

// FacetID is the arena handle of a facet in a linked design
type FacetID int

// Graph is the dependency graph between facets, addressed by arena handle.
// Cycles are legal: facets on different entities may depend on each other.
type Graph struct {
	labels []string
	edges  map[FacetID][]FacetID // facet -> dependencies
}

func newGraph(labels []string) *Graph {
	return &Graph{labels: labels, edges: make(map[FacetID][]FacetID)}
}

func (g *Graph) addEdge(from, to FacetID) {
	for _, existing := range g.edges[from] {
		if existing == to {
			return
		}
	}
	g.edges[from] = append(g.edges[from], to)
}

// Len returns the number of facets
func (g *Graph) Len() int { return len(g.labels) }

// Label returns "entity.facet" for a handle
func (g *Graph) Label(id FacetID) string {
	if int(id) < 0 || int(id) >= len(g.labels) {
		return fmt.Sprintf("#%d", id)
	}
	return g.labels[id]
}

// Dependencies returns the direct dependencies of a facet
func (g *Graph) Dependencies(id FacetID) []FacetID {
	return append([]FacetID(nil), g.edges[id]...)
}

// Dependents returns the facets depending directly on id, in handle order
func (g *Graph) Dependents(id FacetID) []FacetID {
	var out []FacetID
	for node := 0; node < len(g.labels); node++ {
		for _, dep := range g.edges[FacetID(node)] {
			if dep == id {
				out = append(out, FacetID(node))
				break
			}
		}
	}
	return out
}

// EdgeCount returns the number of dependency edges
func (g *Graph) EdgeCount() int {
	n := 0
	for _, deps := range g.edges {
		n += len(deps)
	}
	return n
}

// DetectCycles returns the dependency cycles, visiting facets in handle order
func (g *Graph) DetectCycles() [][]FacetID {
	var cycles [][]FacetID
	visited := make(map[FacetID]bool)
	onStack := make(map[FacetID]bool)

	var dfs func(node FacetID, path []FacetID)
	dfs = func(node FacetID, path []FacetID) {
		visited[node] = true
		onStack[node] = true
		path = append(path, node)

		for _, next := range g.edges[node] {
			if !visited[next] {
				dfs(next, path)
				continue
			}
			if onStack[next] {
				for i, n := range path {
					if n == next {
						cycles = append(cycles, append([]FacetID(nil), path[i:]...))
						break
					}
				}
			}
		}

		onStack[node] = false
	}

	for node := 0; node < len(g.labels); node++ {
		if !visited[FacetID(node)] {
			dfs(FacetID(node), nil)
		}
	}
	return cycles
}

// TopologicalOrder returns every facet, dependencies first. When a cycle blocks
// progress the remaining facet with the lowest handle is emitted next, so the
// order is total and deterministic.
func (g *Graph) TopologicalOrder() []FacetID {
	n := len(g.labels)
	pending := make([]int, n)
	dependents := make(map[FacetID][]FacetID)
	for node := 0; node < n; node++ {
		pending[node] = len(g.edges[FacetID(node)])
		for _, dep := range g.edges[FacetID(node)] {
			dependents[dep] = append(dependents[dep], FacetID(node))
		}
	}

	done := make([]bool, n)
	order := make([]FacetID, 0, n)
	for len(order) < n {
		next := -1
		for node := 0; node < n; node++ {
			if !done[node] && pending[node] == 0 {
				next = node
				break
			}
		}
		if next < 0 {
			// cycle: break it at the lowest remaining handle
			for node := 0; node < n; node++ {
				if !done[node] {
					next = node
					break
				}
			}
		}
		done[next] = true
		order = append(order, FacetID(next))
		for _, dependent := range dependents[FacetID(next)] {
			pending[dependent]--
		}
	}
	return order
}

// Analyze builds a dependency report with labels instead of handles
func (g *Graph) Analyze() *DependencyReport {
	report := &DependencyReport{
		TotalFacets:  len(g.labels),
		Dependencies: make(map[string][]string),
		Dependents:   make(map[string][]string),
		CircularDeps: make([][]string, 0),
	}

	for node := 0; node < len(g.labels); node++ {
		id := FacetID(node)
		report.Dependencies[g.Label(id)] = g.labelsOf(g.Dependencies(id))
		report.Dependents[g.Label(id)] = g.labelsOf(g.Dependents(id))
	}

	for _, cycle := range g.DetectCycles() {
		report.CircularDeps = append(report.CircularDeps, g.labelsOf(cycle))
	}
	report.HasCycles = len(report.CircularDeps) > 0
	report.TopologicalOrder = g.labelsOf(g.TopologicalOrder())
	return report
}

func (g *Graph) labelsOf(ids []FacetID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = g.Label(id)
	}
	return out
}

// DependencyReport contains the results of dependency analysis
type DependencyReport struct {
	TotalFacets      int
	Dependencies     map[string][]string // facet -> direct dependencies
	Dependents       map[string][]string // facet -> facets that depend on it
	CircularDeps     [][]string
	HasCycles        bool
	TopologicalOrder []string // dependencies first
}

// String formats the dependency report
func (r *DependencyReport) String() string {
	var b strings.Builder

	b.WriteString("Dependency Analysis Report\n")
	fmt.Fprintf(&b, "Total Facets: %d\n\n", r.TotalFacets)

	if r.HasCycles {
		b.WriteString("Circular dependencies (allowed across entities):\n")
		b.WriteString(formatCycles(r.CircularDeps))
		b.WriteString("\n\n")
	}

	if len(r.TopologicalOrder) > 0 {
		b.WriteString("Resolution Order:\n")
		for i, name := range r.TopologicalOrder {
			deps := r.Dependencies[name]
			if len(deps) > 0 {
				fmt.Fprintf(&b, "  %d. %s (depends on: %s)\n", i+1, name, strings.Join(deps, ", "))
			} else {
				fmt.Fprintf(&b, "  %d. %s (no dependencies)\n", i+1, name)
			}
		}
	}

	return b.String()
}

// formatCycles formats cycles as "a -> b -> a"
func formatCycles(cycles [][]string) string {
	lines := make([]string, 0, len(cycles))
	for i, cycle := range cycles {
		lines = append(lines, fmt.Sprintf("  Cycle %d: %s -> %s", i+1, strings.Join(cycle, " -> "), cycle[0]))
	}
	return strings.Join(lines, "\n")
}

package debug

import (
	"github.com/emicklei/dot"

	"github.com/erigontech/polyepoxide/key"
	"github.com/erigontech/polyepoxide/oxide"
)

// RefGraph renders every key reachable from root as a Graphviz dot graph,
// with an edge from root to each one. VisitRefs flattens transitive
// references into a single pass, so this draws reachability rather than a
// precise parent/child hierarchy: a grandchild gets its own edge straight
// from root, not from its immediate parent.
func RefGraph(root oxide.Oxide) string {
	g := dot.NewGraph(dot.Directed)
	rootKey := root.ComputeKey()
	rootNode := g.Node(rootKey.String()).Label(shortLabel(rootKey))

	seen := map[key.Key]dot.Node{rootKey: rootNode}
	root.VisitRefs(func(k key.Key, _ oxide.Oxide) {
		if _, ok := seen[k]; ok {
			return
		}
		node := g.Node(k.String()).Label(shortLabel(k))
		seen[k] = node
		g.Edge(rootNode, node)
	})
	return g.String()
}

func shortLabel(k key.Key) string {
	s := k.String()
	if len(s) > 12 {
		return s[:12]
	}
	return s
}

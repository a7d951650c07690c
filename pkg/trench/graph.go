// Package trench builds an undirected weighted graph from trench line
// features and answers snapped shortest-path queries for highlighting.
//
// Every coordinate along every line becomes a node (coordinates that round to
// the same micro-degree collapse to one node), consecutive coordinates become
// bidirectional edges weighted by haversine meters. The graph keeps its own
// grid index for nearest-node snapping; it is rebuilt wholesale on reload,
// never patched incrementally.
package trench

import (
	"container/heap"
	"math"

	"github.com/paulmach/orb"

	"github.com/wesen/fieldmap/pkg/geo"
	"github.com/wesen/fieldmap/pkg/gridindex"
)

const (
	// roundScale collapses endpoints within ~0.1m of each other.
	roundScale = 1e6
	// snapCellDeg is the snap index cell size, roughly 200m at mid latitudes.
	snapCellDeg = 0.002
	// SnapMaxMeters is the early-stop distance for node snapping.
	SnapMaxMeters = 250
)

type edge struct {
	to     int
	weight float64
}

type nodeKey struct {
	x, y int64
}

// Graph is the trench network.
type Graph struct {
	nodes []orb.Point
	adj   [][]edge
	index *gridindex.Index
}

func roundKey(p orb.Point) nodeKey {
	return nodeKey{
		x: int64(math.Round(p[0] * roundScale)),
		y: int64(math.Round(p[1] * roundScale)),
	}
}

// BuildGraph constructs the graph from raw line features. Lines with fewer
// than two coordinates contribute nothing. Zero-length edges (consecutive
// coordinates collapsing to the same node) are dropped.
func BuildGraph(lines []orb.LineString) *Graph {
	g := &Graph{}
	byKey := make(map[nodeKey]int)

	nodeFor := func(p orb.Point) int {
		k := roundKey(p)
		if id, ok := byKey[k]; ok {
			return id
		}
		id := len(g.nodes)
		byKey[k] = id
		g.nodes = append(g.nodes, p)
		g.adj = append(g.adj, nil)
		return id
	}

	for _, ls := range lines {
		if len(ls) < 2 {
			continue
		}
		prev := nodeFor(ls[0])
		for i := 1; i < len(ls); i++ {
			cur := nodeFor(ls[i])
			if cur == prev {
				continue
			}
			w := geo.HaversineMeters(g.nodes[prev], g.nodes[cur])
			g.adj[prev] = append(g.adj[prev], edge{to: cur, weight: w})
			g.adj[cur] = append(g.adj[cur], edge{to: prev, weight: w})
			prev = cur
		}
	}

	g.index = gridindex.Build(g.nodes, snapCellDeg)
	return g
}

// NodeCount returns the number of collapsed nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Node returns the position of a node.
func (g *Graph) Node(id int) orb.Point { return g.nodes[id] }

// Snap returns the graph node nearest to p, searching outward ring by ring
// and stopping early once a node within SnapMaxMeters is seen. The second
// return is false when the ring ceiling is exhausted without a hit; callers
// then fall back to a straight line.
func (g *Graph) Snap(p orb.Point) (int, bool) {
	if len(g.nodes) == 0 {
		return 0, false
	}
	id, _, ok := g.index.QueryNearest(p, SnapMaxMeters, geo.HaversineMeters)
	return id, ok
}

// pqItem is a Dijkstra frontier entry.
type pqItem struct {
	node int
	dist float64
}

type frontier []pqItem

func (f frontier) Len() int           { return len(f) }
func (f frontier) Less(i, j int) bool { return f[i].dist < f[j].dist }
func (f frontier) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x any)        { *f = append(*f, x.(pqItem)) }
func (f *frontier) Pop() any          { old := *f; it := old[len(old)-1]; *f = old[:len(old)-1]; return it }

// ShortestPath runs Dijkstra from..to with early termination once the target
// is finalized. It returns the node positions along the path, the total
// weight in meters, and false when the target is unreachable.
func (g *Graph) ShortestPath(from, to int) ([]orb.Point, float64, bool) {
	if from < 0 || to < 0 || from >= len(g.nodes) || to >= len(g.nodes) {
		return nil, 0, false
	}
	if from == to {
		return []orb.Point{g.nodes[from]}, 0, true
	}

	dist := make([]float64, len(g.nodes))
	prev := make([]int, len(g.nodes))
	done := make([]bool, len(g.nodes))
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = -1
	}
	dist[from] = 0

	f := &frontier{{node: from}}
	for f.Len() > 0 {
		it := heap.Pop(f).(pqItem)
		if done[it.node] {
			continue
		}
		done[it.node] = true
		if it.node == to {
			break
		}
		for _, e := range g.adj[it.node] {
			if nd := it.dist + e.weight; nd < dist[e.to] {
				dist[e.to] = nd
				prev[e.to] = it.node
				heap.Push(f, pqItem{node: e.to, dist: nd})
			}
		}
	}

	if prev[to] < 0 {
		return nil, 0, false
	}

	var rev []int
	for n := to; n != -1; n = prev[n] {
		rev = append(rev, n)
	}
	path := make([]orb.Point, len(rev))
	for i, n := range rev {
		path[len(rev)-1-i] = g.nodes[n]
	}
	return path, dist[to], true
}

// Route snaps both endpoints and computes the shortest path between them.
// Whenever snapping or pathing fails, it degrades to the straight a→b pair
// and reports fallback=true.
func (g *Graph) Route(a, b orb.Point) (path []orb.Point, meters float64, fallback bool) {
	straight := func() ([]orb.Point, float64, bool) {
		return []orb.Point{a, b}, geo.HaversineMeters(a, b), true
	}
	from, ok := g.Snap(a)
	if !ok {
		return straight()
	}
	to, ok := g.Snap(b)
	if !ok {
		return straight()
	}
	pts, w, ok := g.ShortestPath(from, to)
	if !ok {
		return straight()
	}
	return pts, w, false
}

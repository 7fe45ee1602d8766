// Package pathing finds terrain-weighted routes inside a single region.
package pathing

import "colonyai/internal/domain/world"

const (
	DefaultPlainCost = 1
	DefaultSwampCost = 5
)

// Neighbour order N, NE, E, SE, S, SW, W, NW. Fixed so equal-cost routes resolve the same way every run.
var dirVectors = [8]world.Point{
	{X: 0, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 0}, {X: 1, Y: 1},
	{X: 0, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: 0}, {X: -1, Y: -1},
}

type Options struct {
	// Range accepts any cell within this Chebyshev distance of the goal.
	Range     int
	PlainCost int
	SwampCost int
	// Blocked marks extra impassable cells (structures, sources). The origin is never blocked.
	Blocked func(world.Point) bool
}

type Result struct {
	Path       []world.Point
	Cost       int
	Incomplete bool
}

type heapEntry struct {
	idx  int
	dist int
	seq  int
}

type minHeap []heapEntry

func (h minHeap) less(a, b int) bool {
	if h[a].dist != h[b].dist {
		return h[a].dist < h[b].dist
	}
	return h[a].seq < h[b].seq
}

func (h *minHeap) push(e heapEntry) {
	*h = append(*h, e)
	i := len(*h) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			break
		}
		(*h)[parent], (*h)[i] = (*h)[i], (*h)[parent]
		i = parent
	}
}

func (h *minHeap) pop() heapEntry {
	old := *h
	n := len(old)
	e := old[0]
	old[0] = old[n-1]
	*h = old[:n-1]

	i := 0
	for {
		left := 2*i + 1
		if left >= len(*h) {
			break
		}
		smallest := left
		if right := left + 1; right < len(*h) && h.less(right, left) {
			smallest = right
		}
		if !h.less(smallest, i) {
			break
		}
		(*h)[i], (*h)[smallest] = (*h)[smallest], (*h)[i]
		i = smallest
	}
	return e
}

const unreachable = 1<<31 - 1

// Search runs a weighted Dijkstra from origin until it settles a cell within opts.Range of goal.
// The returned path excludes origin and ends on that cell.
func Search(terrain *world.Terrain, origin, goal world.Point, opts Options) Result {
	if opts.PlainCost <= 0 {
		opts.PlainCost = DefaultPlainCost
	}
	if opts.SwampCost <= 0 {
		opts.SwampCost = DefaultSwampCost
	}
	if opts.Range < 0 {
		opts.Range = 0
	}
	if !origin.InBounds() {
		return Result{Incomplete: true}
	}
	if origin.InRangeTo(goal, opts.Range) {
		return Result{Path: []world.Point{}}
	}

	const size = world.RegionSize * world.RegionSize
	dist := make([]int, size)
	prev := make([]int, size)
	for i := range dist {
		dist[i] = unreachable
		prev[i] = -1
	}

	start := index(origin)
	dist[start] = 0
	h := make(minHeap, 0, size/4)
	seq := 0
	h.push(heapEntry{idx: start, dist: 0, seq: seq})

	for len(h) > 0 {
		e := h.pop()
		if e.dist > dist[e.idx] {
			continue
		}
		cur := point(e.idx)
		if cur.InRangeTo(goal, opts.Range) {
			return Result{Path: rebuild(prev, start, e.idx), Cost: e.dist}
		}
		for _, d := range dirVectors {
			next := world.Point{X: cur.X + d.X, Y: cur.Y + d.Y}
			if !next.InBounds() {
				continue
			}
			step := stepCost(terrain, next, opts)
			if step < 0 {
				continue
			}
			ni := index(next)
			nd := e.dist + step
			if nd < dist[ni] {
				dist[ni] = nd
				prev[ni] = e.idx
				seq++
				h.push(heapEntry{idx: ni, dist: nd, seq: seq})
			}
		}
	}
	return Result{Path: []world.Point{}, Incomplete: true}
}

func stepCost(terrain *world.Terrain, p world.Point, opts Options) int {
	if opts.Blocked != nil && opts.Blocked(p) {
		return -1
	}
	switch terrain.At(p) {
	case world.TerrainWall:
		return -1
	case world.TerrainSwamp:
		return opts.SwampCost
	default:
		return opts.PlainCost
	}
}

func rebuild(prev []int, start, end int) []world.Point {
	rev := make([]world.Point, 0, 32)
	for i := end; i != start && i >= 0; i = prev[i] {
		rev = append(rev, point(i))
	}
	out := make([]world.Point, len(rev))
	for i := range rev {
		out[i] = rev[len(rev)-1-i]
	}
	return out
}

func index(p world.Point) int {
	return p.Y*world.RegionSize + p.X
}

func point(i int) world.Point {
	return world.Point{X: i % world.RegionSize, Y: i / world.RegionSize}
}

package ai

import "container/heap"

// DefaultMaxNodes bounds a single search.
const DefaultMaxNodes = 4096

// GridPathfinder is a 4-neighbour A* over WorldState.IsWalkable.
type GridPathfinder struct {
	world    WorldState
	MaxNodes int
}

// NewGridPathfinder returns a pathfinder over world.
func NewGridPathfinder(world WorldState) *GridPathfinder {
	return &GridPathfinder{world: world, MaxNodes: DefaultMaxNodes}
}

type pathNode struct {
	cell   Cell
	g, h   int
	parent *pathNode
}

type pqItem struct {
	n    *pathNode
	prio int
}

type pathQueue []pqItem

func (q pathQueue) Len() int { return len(q) }
func (q pathQueue) Less(i, j int) bool {
	if q[i].prio == q[j].prio {
		return q[i].n.h < q[j].n.h
	}
	return q[i].prio < q[j].prio
}
func (q pathQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *pathQueue) Push(x any) { *q = append(*q, x.(pqItem)) }
func (q *pathQueue) Pop() any {
	old := *q
	it := old[len(old)-1]
	*q = old[:len(old)-1]
	return it
}

// FindPath returns the cells from start to goal, both included. With
// allowPartial, an unreachable goal yields the path to the explored cell
// closest to it. Cells in avoid are never entered unless they are the goal.
// Returns nil when nothing useful was found.
func (p *GridPathfinder) FindPath(start, goal Cell, allowPartial bool, avoid CellSet) []Cell {
	if p == nil || p.world == nil {
		return nil
	}
	if start == goal {
		return []Cell{start}
	}
	limit := p.MaxNodes
	if limit <= 0 {
		limit = DefaultMaxNodes
	}

	closed := make(map[Cell]bool)
	gScore := map[Cell]int{start: 0}
	root := &pathNode{cell: start, h: Manhattan(start, goal)}
	best := root

	q := &pathQueue{{n: root, prio: root.h}}
	expanded := 0
	for q.Len() > 0 && expanded < limit {
		cur := heap.Pop(q).(pqItem).n
		if closed[cur.cell] {
			continue
		}
		closed[cur.cell] = true
		expanded++

		if cur.cell == goal {
			return reconstruct(cur)
		}
		if cur.h < best.h || (cur.h == best.h && cur.g < best.g) {
			best = cur
		}

		for _, d := range cardinals {
			next := cur.cell.Add(d.X, d.Y)
			if closed[next] || !p.world.IsWalkable(next) {
				continue
			}
			if next != goal && avoid.Has(next) {
				continue
			}
			ng := cur.g + 1
			if prev, ok := gScore[next]; ok && ng >= prev {
				continue
			}
			gScore[next] = ng
			n := &pathNode{cell: next, g: ng, h: Manhattan(next, goal), parent: cur}
			heap.Push(q, pqItem{n: n, prio: ng + n.h})
		}
	}

	if !allowPartial || best == root {
		return nil
	}
	return reconstruct(best)
}

func reconstruct(n *pathNode) []Cell {
	var path []Cell
	for ; n != nil; n = n.parent {
		path = append(path, n.cell)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// SmoothPath drops the interior points of straight runs. Turns are kept so
// the follower never cuts a wall corner.
func (p *GridPathfinder) SmoothPath(path []Cell) []Cell {
	if len(path) < 3 {
		return path
	}
	out := []Cell{path[0]}
	for i := 1; i < len(path)-1; i++ {
		a, b, c := out[len(out)-1], path[i], path[i+1]
		if sameDirection(b.X-a.X, b.Y-a.Y, c.X-b.X, c.Y-b.Y) {
			continue
		}
		out = append(out, b)
	}
	return append(out, path[len(path)-1])
}

func sameDirection(dx1, dy1, dx2, dy2 int) bool {
	return sign(dx1) == sign(dx2) && sign(dy1) == sign(dy2)
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

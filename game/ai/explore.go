package ai

// Candidate sampling and scoring shared by the exploring brains.

type scored struct {
	cell  Cell
	score float64
}

// sampleWalkable draws up to n random walkable tiles from the world.
func (n *Navigator) sampleWalkable(count int) []Cell {
	if n.world == nil || count <= 0 {
		return nil
	}
	out := make([]Cell, 0, count)
	for i := 0; i < count; i++ {
		if c, ok := n.world.FindRandomWalkableTile(); ok {
			out = append(out, c)
		}
	}
	return out
}

// sampleAround draws up to count walkable cells uniformly from the square of
// the given radius and keeps those within Manhattan radius of center.
func (n *Navigator) sampleAround(center Cell, radius, count int) []Cell {
	if radius <= 0 || count <= 0 {
		return nil
	}
	out := make([]Cell, 0, count)
	for i := 0; i < count; i++ {
		c := center.Add(n.rng.Intn(2*radius+1)-radius, n.rng.Intn(2*radius+1)-radius)
		if Manhattan(c, center) <= radius && n.isWalkable(c) {
			out = append(out, c)
		}
	}
	return out
}

// fallbackNear returns a random walkable cell within radius of center other
// than from, else center itself. Brains bound to an area use it instead of
// the room-centre fallback.
func (n *Navigator) fallbackNear(from, center Cell, radius int) (Cell, bool) {
	for _, c := range n.sampleAround(center, radius, n.opts.ExploreSamples) {
		if c != from {
			return c, true
		}
	}
	if center != from && n.isWalkable(center) {
		return center, true
	}
	return Cell{}, false
}

// sampleRing draws up to count walkable cells whose Manhattan distance to
// center lies in [minDist, maxDist].
func (n *Navigator) sampleRing(center Cell, minDist, maxDist, count int) []Cell {
	if minDist < 0 {
		minDist = 0
	}
	if maxDist < minDist || maxDist <= 0 || count <= 0 {
		return nil
	}
	out := make([]Cell, 0, count)
	for i := 0; i < count; i++ {
		d := minDist + n.rng.Intn(maxDist-minDist+1)
		// Walk the diamond of radius d: dx takes |dx| of the budget, dy the rest.
		dx := n.rng.Intn(2*d+1) - d
		dy := d - abs(dx)
		if n.rng.Intn(2) == 0 {
			dy = -dy
		}
		c := center.Add(dx, dy)
		if n.isWalkable(c) {
			out = append(out, c)
		}
	}
	return out
}

// roomCenters returns the walkable centres of every room.
func (n *Navigator) roomCenters() []Cell {
	if n.world == nil {
		return nil
	}
	rooms := n.world.Rooms()
	out := make([]Cell, 0, len(rooms))
	for _, r := range rooms {
		if c := r.Center(); n.isWalkable(c) {
			out = append(out, c)
		}
	}
	return out
}

// exploreScore favours far, stale, non-corridor tiles. Room centres get a
// flat bonus so they win ties against arbitrary floor.
func (n *Navigator) exploreScore(from, c Cell, center bool) float64 {
	o := n.opts
	s := float64(Manhattan(from, c))*o.DistanceWeight + n.novelty(c)*o.NoveltyWeight
	if n.world != nil {
		switch n.world.RoomType(c) {
		case RoomCorridor:
			s -= o.CorridorPenalty
		case RoomUnknown:
		default:
			s += o.RoomBonus
		}
	}
	if center {
		s += o.RoomCenterBonus
	}
	return s
}

// bestOf returns the highest scoring candidate. A tiny random jitter breaks
// ties so equal candidates do not always resolve to the same cell.
func (n *Navigator) bestOf(cands []scored) (Cell, bool) {
	if len(cands) == 0 {
		return Cell{}, false
	}
	best, bestScore := cands[0].cell, cands[0].score+n.rng.Float64()*1e-3
	for _, c := range cands[1:] {
		if s := c.score + n.rng.Float64()*1e-3; s > bestScore {
			best, bestScore = c.cell, s
		}
	}
	return best, true
}

// fleeTarget picks a walkable cell that increases the Manhattan distance to
// threat, scored by gain minus weighted travel. Candidates come from
// sampleAround(center, radius). Returns false when nothing gains distance.
func (n *Navigator) fleeTarget(from, threat, center Cell, radius, samples int, travelWeight float64) (Cell, bool) {
	cur := Manhattan(from, threat)
	var cands []scored
	for _, c := range n.sampleAround(center, radius, samples) {
		gain := Manhattan(c, threat) - cur
		if gain <= 0 || c == from {
			continue
		}
		cands = append(cands, scored{c, float64(gain) - travelWeight*float64(Manhattan(from, c))})
	}
	return n.bestOf(cands)
}

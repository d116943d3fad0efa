package contour

// Polyline is an ordered run of vertex indices. A closed polyline implicitly
// connects its last vertex back to its first; the first vertex is not
// repeated.
type Polyline struct {
	Indices []uint32 `json:"indices"`
	Closed  bool     `json:"closed"`
}

// Polylines chains the segments of c into runs. Runs starting at vertices
// whose degree is not 2 are emitted first; the remaining segments form
// loops. A run that returns to its start vertex is closed, so two loops
// touching at a saddle vertex come out as two closed polylines. Each
// segment is used exactly once and the result is deterministic for a given
// contour. Vertices without segments are omitted.
func (c *Contour) Polylines() []Polyline {
	nseg := c.SegmentCount()
	if nseg == 0 {
		return nil
	}

	adj := make([][]int, c.VertexCount())
	for s := 0; s < nseg; s++ {
		a, b := c.Segment(s)
		adj[a] = append(adj[a], s)
		adj[b] = append(adj[b], s)
	}

	used := make([]bool, nseg)
	next := func(v uint32) (int, bool) {
		for _, s := range adj[v] {
			if !used[s] {
				return s, true
			}
		}
		return 0, false
	}
	// walk follows unused segments from start until it gets stuck or comes
	// back to start. A run that comes back is returned closed, without the
	// repeated start vertex.
	walk := func(start uint32) Polyline {
		run := []uint32{start}
		v := start
		for {
			s, ok := next(v)
			if !ok {
				return Polyline{Indices: run}
			}
			used[s] = true
			a, b := c.Segment(s)
			if a == v {
				v = b
			} else {
				v = a
			}
			if v == start && len(run) > 2 {
				return Polyline{Indices: run, Closed: true}
			}
			run = append(run, v)
		}
	}

	var out []Polyline
	for v := range adj {
		if len(adj[v]) == 2 || len(adj[v]) == 0 {
			continue
		}
		for {
			if _, ok := next(uint32(v)); !ok {
				break
			}
			out = append(out, walk(uint32(v)))
		}
	}

	for s := 0; s < nseg; s++ {
		if used[s] {
			continue
		}
		start, _ := c.Segment(s)
		out = append(out, walk(start))
	}
	return out
}

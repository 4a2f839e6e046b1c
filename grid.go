package main

const (
	GridRows = 8
	GridCols = 8
)

// SpatialGrid partitions the board into a fixed GridRows x GridCols
// matrix of sectors and keeps a reverse index from sector to member
// entity ids for broad-phase queries. Membership is diffed
// incrementally on every move, never rebuilt from scratch.
type SpatialGrid struct {
	cellW, cellH float64
	members      [GridRows * GridCols]map[string]struct{}
	sections     map[string][]int
}

func NewSpatialGrid() *SpatialGrid {
	g := &SpatialGrid{
		cellW:    BoardWidth / GridCols,
		cellH:    BoardHeight / GridRows,
		sections: make(map[string][]int),
	}
	for i := range g.members {
		g.members[i] = make(map[string]struct{})
	}
	return g
}

// CellsOverlapping returns the index of every sector whose rectangle
// overlaps the given bounds. An entity near a sector boundary belongs
// to multiple sectors at once.
func (g *SpatialGrid) CellsOverlapping(b Rect) []int {
	minCX := clampCell(int(b.MinX/g.cellW), GridCols)
	maxCX := clampCell(int(b.MaxX/g.cellW), GridCols)
	minCY := clampCell(int(b.MinY/g.cellH), GridRows)
	maxCY := clampCell(int(b.MaxY/g.cellH), GridRows)

	cells := make([]int, 0, (maxCX-minCX+1)*(maxCY-minCY+1))
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			cells = append(cells, cy*GridCols+cx)
		}
	}
	return cells
}

func clampCell(c, n int) int {
	if c < 0 {
		return 0
	}
	if c >= n {
		return n - 1
	}
	return c
}

// Update recomputes the entity's sector set from its bounds and syncs
// the reverse index: remove stale memberships, add new ones.
func (g *SpatialGrid) Update(id string, b Rect) {
	next := g.CellsOverlapping(b)
	prev := g.sections[id]

	for _, c := range prev {
		if !containsCell(next, c) {
			delete(g.members[c], id)
		}
	}
	for _, c := range next {
		if !containsCell(prev, c) {
			g.members[c][id] = struct{}{}
		}
	}
	g.sections[id] = next
}

// Remove drops the entity from every sector it occupies
func (g *SpatialGrid) Remove(id string) {
	for _, c := range g.sections[id] {
		delete(g.members[c], id)
	}
	delete(g.sections, id)
}

// Sections returns the sectors the entity currently occupies
func (g *SpatialGrid) Sections(id string) []int {
	return g.sections[id]
}

// Query returns the member ids of a single sector
func (g *SpatialGrid) Query(cell int) []string {
	if cell < 0 || cell >= len(g.members) {
		return nil
	}
	ids := make([]string, 0, len(g.members[cell]))
	for id := range g.members[cell] {
		ids = append(ids, id)
	}
	return ids
}

// Near returns the ids sharing at least one sector with the given
// bounds, excluding the entity itself. Broad-phase candidates only;
// callers still run the exact overlap test.
func (g *SpatialGrid) Near(id string, b Rect) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, c := range g.CellsOverlapping(b) {
		for m := range g.members[c] {
			if m == id {
				continue
			}
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			ids = append(ids, m)
		}
	}
	return ids
}

func containsCell(cells []int, c int) bool {
	for _, v := range cells {
		if v == c {
			return true
		}
	}
	return false
}

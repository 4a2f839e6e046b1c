package main

import (
	"sort"
	"testing"
)

// memberCells walks the reverse index and returns every cell holding id
func memberCells(g *SpatialGrid, id string) []int {
	var cells []int
	for c := 0; c < GridRows*GridCols; c++ {
		for _, m := range g.Query(c) {
			if m == id {
				cells = append(cells, c)
			}
		}
	}
	return cells
}

func sameCells(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]int(nil), a...)
	bs := append([]int(nil), b...)
	sort.Ints(as)
	sort.Ints(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func TestCellsOverlappingSingle(t *testing.T) {
	g := NewSpatialGrid()

	// Small bounds fully inside the top-left sector
	cells := g.CellsOverlapping(Rect{MinX: 10, MinY: 10, MaxX: 50, MaxY: 50})
	if len(cells) != 1 || cells[0] != 0 {
		t.Errorf("CellsOverlapping = %v, want [0]", cells)
	}
}

func TestCellsOverlappingBoundary(t *testing.T) {
	g := NewSpatialGrid()

	// Bounds straddling the first vertical sector boundary
	cellW := BoardWidth / GridCols
	cells := g.CellsOverlapping(Rect{MinX: cellW - 10, MinY: 10, MaxX: cellW + 10, MaxY: 50})
	if !sameCells(cells, []int{0, 1}) {
		t.Errorf("CellsOverlapping = %v, want [0 1]", cells)
	}
}

func TestCellsOverlappingClamped(t *testing.T) {
	g := NewSpatialGrid()

	// Out-of-board bounds clamp to edge sectors instead of panicking
	cells := g.CellsOverlapping(Rect{MinX: -500, MinY: -500, MaxX: -400, MaxY: -400})
	if !sameCells(cells, []int{0}) {
		t.Errorf("negative bounds: CellsOverlapping = %v, want [0]", cells)
	}
	cells = g.CellsOverlapping(Rect{MinX: BoardWidth + 100, MinY: BoardHeight + 100, MaxX: BoardWidth + 200, MaxY: BoardHeight + 200})
	if !sameCells(cells, []int{GridRows*GridCols - 1}) {
		t.Errorf("overflow bounds: CellsOverlapping = %v, want last cell", cells)
	}
}

func TestGridUpdateMovesMembership(t *testing.T) {
	g := NewSpatialGrid()

	g.Update("a", Rect{MinX: 10, MinY: 10, MaxX: 50, MaxY: 50})
	if !sameCells(g.Sections("a"), []int{0}) {
		t.Fatalf("Sections after first update = %v, want [0]", g.Sections("a"))
	}

	// Move across the board: old membership must be dropped
	g.Update("a", Rect{MinX: BoardWidth - 50, MinY: BoardHeight - 50, MaxX: BoardWidth - 10, MaxY: BoardHeight - 10})
	want := []int{GridRows*GridCols - 1}
	if !sameCells(g.Sections("a"), want) {
		t.Errorf("Sections after move = %v, want %v", g.Sections("a"), want)
	}
	if !sameCells(memberCells(g, "a"), want) {
		t.Errorf("reverse index after move = %v, want %v", memberCells(g, "a"), want)
	}
}

// The reverse index must agree with per-entity sections after any
// sequence of updates and removals
func TestGridIndexConsistency(t *testing.T) {
	g := NewSpatialGrid()

	moves := []struct {
		id string
		b  Rect
	}{
		{"a", Rect{MinX: 0, MinY: 0, MaxX: 90, MaxY: 90}},
		{"b", Rect{MinX: 350, MinY: 200, MaxX: 450, MaxY: 300}},
		{"a", Rect{MinX: 390, MinY: 240, MaxX: 410, MaxY: 260}},
		{"c", Rect{MinX: 1590, MinY: 990, MaxX: 1610, MaxY: 1010}},
		{"b", Rect{MinX: 3000, MinY: 1900, MaxX: 3100, MaxY: 1990}},
		{"a", Rect{MinX: 0, MinY: 0, MaxX: 90, MaxY: 90}},
	}
	for _, mv := range moves {
		g.Update(mv.id, mv.b)
		for _, id := range []string{"a", "b", "c"} {
			if !sameCells(g.Sections(id), memberCells(g, id)) {
				t.Fatalf("after moving %s: sections %v != reverse index %v for %s",
					mv.id, g.Sections(id), memberCells(g, id), id)
			}
		}
	}

	g.Remove("b")
	if g.Sections("b") != nil {
		t.Errorf("Sections after Remove = %v, want nil", g.Sections("b"))
	}
	if len(memberCells(g, "b")) != 0 {
		t.Errorf("reverse index still holds removed id: %v", memberCells(g, "b"))
	}
}

func TestGridNear(t *testing.T) {
	g := NewSpatialGrid()

	g.Update("self", Rect{MinX: 10, MinY: 10, MaxX: 50, MaxY: 50})
	g.Update("close", Rect{MinX: 60, MinY: 60, MaxX: 100, MaxY: 100})
	g.Update("far", Rect{MinX: 3000, MinY: 1900, MaxX: 3100, MaxY: 1990})

	near := g.Near("self", Rect{MinX: 10, MinY: 10, MaxX: 50, MaxY: 50})
	if len(near) != 1 || near[0] != "close" {
		t.Errorf("Near = %v, want [close]", near)
	}
}

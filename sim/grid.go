package sim

import "fmt"

// Cell is the static terrain of one grid square.
type Cell uint8

const (
	CellOpen Cell = iota
	CellWall
)

// Position addresses a grid square by row and column (0-based, row-major).
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Less reports whether p precedes q in reading order: top to bottom, then left to right.
func (p Position) Less(q Position) bool {
	if p.Row != q.Row {
		return p.Row < q.Row
	}
	return p.Col < q.Col
}

// Neighbors returns the four orthogonal neighbours in reading order
// (up, left, right, down). Positions may fall outside the grid.
func (p Position) Neighbors() [4]Position {
	return [4]Position{
		{Row: p.Row - 1, Col: p.Col},
		{Row: p.Row, Col: p.Col - 1},
		{Row: p.Row, Col: p.Col + 1},
		{Row: p.Row + 1, Col: p.Col},
	}
}

// Adjacent reports whether p and q are orthogonal neighbours.
func (p Position) Adjacent(q Position) bool {
	dr, dc := p.Row-q.Row, p.Col-q.Col
	return (dr == 0 && (dc == 1 || dc == -1)) || (dc == 0 && (dr == 1 || dr == -1))
}

// Grid is the immutable terrain of an arena. Occupancy lives on CombatState.
type Grid struct {
	rows, cols int
	cells      []Cell
}

// NewGrid creates a rows x cols grid with every cell open.
func NewGrid(rows, cols int) *Grid {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("NewGrid: negative dimensions %dx%d", rows, cols))
	}
	return &Grid{rows: rows, cols: cols, cells: make([]Cell, rows*cols)}
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// Size is the number of cells; valid cell indices are [0, Size).
func (g *Grid) Size() int { return len(g.cells) }

func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.rows && p.Col >= 0 && p.Col < g.cols
}

// index maps an in-bounds position to its row-major cell index.
func (g *Grid) index(p Position) int {
	return p.Row*g.cols + p.Col
}

// position is the inverse of index.
func (g *Grid) position(i int) Position {
	return Position{Row: i / g.cols, Col: i % g.cols}
}

// At returns the cell at p. Out-of-bounds positions read as walls.
func (g *Grid) At(p Position) Cell {
	if !g.InBounds(p) {
		return CellWall
	}
	return g.cells[g.index(p)]
}

// IsOpen reports whether p is in bounds and not a wall.
func (g *Grid) IsOpen(p Position) bool {
	return g.At(p) == CellOpen
}

// Set changes the terrain at p. Only used while building an arena.
func (g *Grid) Set(p Position, c Cell) {
	if !g.InBounds(p) {
		panic(fmt.Sprintf("Grid.Set: %v out of bounds for %dx%d grid", p, g.rows, g.cols))
	}
	g.cells[g.index(p)] = c
}

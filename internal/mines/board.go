package mines

import (
	"fmt"
	"iter"
	"math/rand/v2"
)

type State uint8

const (
	InProgress State = iota
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	}
	return "unknown"
}

type Board struct {
	Params
	GameOver, Won bool
	mines         []bool /* real mine points */
	grid          Grid   /* player knowledge */
	revealed      int
	flagged       int
	exploded      int
}

// NewBoard places params.MineCount mines uniformly at random.
func NewBoard(params Params, r *rand.Rand) (*Board, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	n := params.Cells()
	cells := make([]int, n)
	for i := range cells {
		cells[i] = i
	}
	mines := make([]bool, n)
	for i := range params.MineCount {
		j := i + r.IntN(n-i)
		cells[i], cells[j] = cells[j], cells[i]
		mines[cells[i]] = true
	}
	return newBoard(params, mines), nil
}

// NewBoardWithMines builds a board with a fixed layout. MineCount is taken
// from the layout.
func NewBoardWithMines(rows, cols int, layout []Point) (*Board, error) {
	params := Params{Rows: rows, Cols: cols, MineCount: len(layout)}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	mines := make([]bool, params.Cells())
	for _, p := range layout {
		if !params.InBounds(p.Row, p.Col) {
			return nil, fmt.Errorf("%w: mine at (%d, %d) is off the board", ErrInvalidConfiguration, p.Row, p.Col)
		}
		i := p.Row*cols + p.Col
		if mines[i] {
			return nil, fmt.Errorf("%w: duplicate mine at (%d, %d)", ErrInvalidConfiguration, p.Row, p.Col)
		}
		mines[i] = true
	}
	return newBoard(params, mines), nil
}

func newBoard(params Params, mines []bool) *Board {
	grid := make(Grid, len(mines))
	for i := range grid {
		grid[i] = Hidden
	}
	return &Board{
		Params:   params,
		mines:    mines,
		grid:     grid,
		exploded: -1,
	}
}

func (b *Board) checkBounds(row, col int) error {
	if !b.InBounds(row, col) {
		return fmt.Errorf(
			"%w: (%d, %d) is outside the %dx%d board",
			ErrOutOfBounds, row, col, b.Rows, b.Cols,
		)
	}
	return nil
}

func (b *Board) neighbors(i int) iter.Seq[int] {
	row, col := i/b.Cols, i%b.Cols
	return func(yield func(int) bool) {
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				if !b.InBounds(row+dr, col+dc) {
					continue
				}
				if !yield((row+dr)*b.Cols + col + dc) {
					return
				}
			}
		}
	}
}

func (b *Board) neighborMines(i int) int {
	n := 0
	for j := range b.neighbors(i) {
		if b.mines[j] {
			n++
		}
	}
	return n
}

// NeighborCount reports the mine count around a cell, or -1 for a mine.
func (b *Board) NeighborCount(row, col int) (int, error) {
	if err := b.checkBounds(row, col); err != nil {
		return 0, err
	}
	i := row*b.Cols + col
	if b.mines[i] {
		return -1, nil
	}
	return b.neighborMines(i), nil
}

// Reveal opens a cell and returns how many cells were newly revealed.
// Revealing a covered zero cell opens its whole zero region together
// with the numbered cells bordering it. Calls after the game has ended,
// or on flagged or already revealed cells, change nothing.
func (b *Board) Reveal(row, col int) (int, error) {
	if err := b.checkBounds(row, col); err != nil {
		return 0, err
	}
	if b.GameOver {
		return 0, nil
	}
	i := row*b.Cols + col
	if b.grid[i] != Hidden {
		return 0, nil
	}
	if b.mines[i] {
		b.GameOver = true
		b.Won = false
		b.exploded = i
		return 0, nil
	}

	opened := b.floodFill(i)

	if b.revealed == b.SafeCells() {
		b.GameOver = true
		b.Won = true
	}
	return opened, nil
}

func (b *Board) floodFill(start int) int {
	opened := 0
	b.grid[start] = Todo
	todo := []int{start}
	for len(todo) > 0 {
		i := todo[len(todo)-1]
		todo = todo[:len(todo)-1]

		v := b.neighborMines(i)
		b.grid[i] = CellState(v)
		opened++
		if v != 0 {
			continue
		}
		for j := range b.neighbors(i) {
			if b.grid[j] == Hidden {
				b.grid[j] = Todo
				todo = append(todo, j)
			}
		}
	}
	b.revealed += opened
	return opened
}

// Flag toggles the flag on a covered cell and returns whether the cell is
// flagged afterwards.
func (b *Board) Flag(row, col int) (bool, error) {
	if err := b.checkBounds(row, col); err != nil {
		return false, err
	}
	i := row*b.Cols + col
	if b.GameOver {
		return b.grid[i] == Flagged, nil
	}
	switch b.grid[i] {
	case Hidden:
		b.grid[i] = Flagged
		b.flagged++
		return true, nil
	case Flagged:
		b.grid[i] = Hidden
		b.flagged--
		return false, nil
	}
	return false, nil
}

func (b *Board) Cell(row, col int) (CellState, error) {
	if err := b.checkBounds(row, col); err != nil {
		return Hidden, err
	}
	return b.grid[row*b.Cols+col], nil
}

func (b *Board) IsMine(row, col int) bool {
	return b.InBounds(row, col) && b.mines[row*b.Cols+col]
}

func (b *Board) Mines() []Point {
	points := make([]Point, 0, b.MineCount)
	for i, mine := range b.mines {
		if mine {
			points = append(points, Point{Row: i / b.Cols, Col: i % b.Cols})
		}
	}
	return points
}

// Exploded returns the mine that ended the game, if any.
func (b *Board) Exploded() (Point, bool) {
	if b.exploded < 0 {
		return Point{}, false
	}
	return Point{Row: b.exploded / b.Cols, Col: b.exploded % b.Cols}, true
}

func (b *Board) Revealed() int {
	return b.revealed
}

func (b *Board) Flagged() int {
	return b.flagged
}

func (b *Board) State() State {
	switch {
	case !b.GameOver:
		return InProgress
	case b.Won:
		return Won
	default:
		return Lost
	}
}

package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type CellState int8

const (
	Todo     CellState = -10 // internal to floodFill
	Hidden   CellState = -2
	Flagged  CellState = -1
	Mine     CellState = 64
	Exploded CellState = 65
	/*
	 * Each item in the player grid is one of the following values:
	 *
	 * 	- 0 to 8 mean the square is open and has a surrounding mine
	 * 	  count.
	 *
	 * 	- -1 means the square is flagged by the player.
	 *
	 * 	- -2 means the square is still covered.
	 *
	 * 	- 64 means the square is a mine shown after the game ended.
	 *
	 * 	- 65 means the square is the mine the player hit.
	 */
)

func (s CellState) Revealed() bool {
	return 0 <= s && s <= 8
}

func (s CellState) String() string {
	switch {
	case s == Hidden:
		return "X"
	case s == Flagged:
		return "F"
	case s == 0:
		return "-"
	case 1 <= s && s <= 8:
		return strconv.Itoa(int(s))
	case s == Mine || s == Exploded:
		return "*"
	default:
		return "?"
	}
}

type Grid []CellState

// Render writes the grid the way the agent sees it: a header with column
// numbers followed by one numbered line per row.
func (g Grid) Render(cols int) string {
	if cols <= 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("  ")
	for c := range cols {
		fmt.Fprintf(&b, " %2d", c)
	}
	for r := range len(g) / cols {
		fmt.Fprintf(&b, "\n%2d ", r)
		for c := range cols {
			b.WriteString(" " + g[r*cols+c].String())
		}
	}
	return b.String()
}

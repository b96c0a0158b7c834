package mines

import "encoding/json"

// Snapshot is the board as the player sees it. Mines are only visible once
// the game is over.
type Snapshot struct {
	Params
	Cells          Grid `json:"cells"`
	GameOver       bool `json:"game_over"`
	Won            bool `json:"won"`
	MinesRemaining int  `json:"mines_remaining"`
}

func (b *Board) Snapshot() Snapshot {
	cells := make(Grid, len(b.grid))
	copy(cells, b.grid)
	if b.GameOver {
		for i, mine := range b.mines {
			if mine {
				cells[i] = Mine
			}
		}
		if b.exploded >= 0 {
			cells[b.exploded] = Exploded
		}
	}
	return Snapshot{
		Params:         b.Params,
		Cells:          cells,
		GameOver:       b.GameOver,
		Won:            b.Won,
		MinesRemaining: b.MineCount - b.flagged,
	}
}

func (s Snapshot) At(row, col int) CellState {
	return s.Cells[row*s.Cols+col]
}

func (s Snapshot) String() string {
	return s.Cells.Render(s.Cols)
}

type snapshotJSON struct {
	Params
	Cells          [][]CellState `json:"cells"`
	Board          string        `json:"board"`
	GameOver       bool          `json:"game_over"`
	Won            bool          `json:"won"`
	MinesRemaining int           `json:"mines_remaining"`
}

// [Snapshot] implements [json.Marshaler]
func (s Snapshot) MarshalJSON() ([]byte, error) {
	rows := make([][]CellState, s.Rows)
	for r := range rows {
		rows[r] = s.Cells[r*s.Cols : (r+1)*s.Cols]
	}
	return json.Marshal(snapshotJSON{
		Params:         s.Params,
		Cells:          rows,
		Board:          s.String(),
		GameOver:       s.GameOver,
		Won:            s.Won,
		MinesRemaining: s.MinesRemaining,
	})
}

package simulate

import "github.com/vancomm/minesweeper-gym/internal/mines"

type RewardRow struct {
	Label string
	mines.Reward
}

// RewardTable scores typical outcomes on params, from random-level play up
// to a win.
func RewardTable(params mines.Params) []RewardRow {
	safe := params.SafeCells()
	levels := []struct {
		label string
		cells int
	}{
		{"Random level", int(mines.ExpectedRandom(params))},
		{"25% progress", int(float64(safe) * 0.25)},
		{"50% progress", int(float64(safe) * 0.5)},
		{"75% progress", int(float64(safe) * 0.75)},
		{"90% progress", int(float64(safe) * 0.9)},
		{"Won the game", safe},
	}

	rows := make([]RewardRow, len(levels))
	for i, level := range levels {
		rows[i] = RewardRow{
			Label:  level.label,
			Reward: mines.Score(params, level.cells, level.cells == safe),
		}
	}
	return rows
}

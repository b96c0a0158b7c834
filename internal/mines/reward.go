package mines

import (
	"fmt"
	"math"
	"strings"
)

const (
	WinReward     = 1.0
	PartialReward = 0.5
)

// ExpectedRandom is the expected number of safe cells revealed by clicking
// uniformly at random among covered cells until the first mine. Mines and
// safe cells are exchangeable, so the M mines split the N-M safe cells into
// M+1 runs of equal expected length: E[X] = (N - M) / (M + 1).
func ExpectedRandom(p Params) float64 {
	return float64(p.SafeCells()) / float64(p.MineCount+1)
}

type Reward struct {
	Reward         float64 `json:"reward"`
	CellsRevealed  int     `json:"cells_revealed"`
	SafeCells      int     `json:"safe_cells"`
	ExpectedRandom float64 `json:"expected_random"`
	AboveRandom    float64 `json:"above_random"`
	Won            bool    `json:"won"`
}

// Score grades a game against the random-play baseline. A win is worth
// WinReward no matter how it was reached. Otherwise only cells revealed
// beyond the baseline count, scaled linearly into [0, PartialReward).
func Score(p Params, cellsRevealed int, won bool) Reward {
	expected := ExpectedRandom(p)
	r := Reward{
		CellsRevealed:  cellsRevealed,
		SafeCells:      p.SafeCells(),
		ExpectedRandom: expected,
		AboveRandom:    math.Max(0, float64(cellsRevealed)-expected),
		Won:            won,
	}

	switch {
	case won:
		r.Reward = WinReward
	case float64(cellsRevealed) <= expected, p.MineCount <= 0:
		r.Reward = 0
	default:
		maxAbove := float64(p.SafeCells()) - expected
		v := PartialReward * (float64(cellsRevealed) - expected) / maxAbove
		r.Reward = math.Max(0, math.Min(v, math.Nextafter(PartialReward, 0)))
	}
	return r
}

func (r Reward) Summary() string {
	var b strings.Builder
	b.WriteString("Game Statistics:\n")
	fmt.Fprintf(&b, "- Cells Revealed: %d / %d\n", r.CellsRevealed, r.SafeCells)
	fmt.Fprintf(&b, "- Expected Random: %.1f cells\n", r.ExpectedRandom)
	fmt.Fprintf(&b, "- Performance: %.0f cells above random\n", r.AboveRandom)
	if r.Won {
		b.WriteString("- Win Status: Won\n")
	} else {
		b.WriteString("- Win Status: Lost\n")
	}
	fmt.Fprintf(&b, "- Reward: %.3f", r.Reward)
	return b.String()
}

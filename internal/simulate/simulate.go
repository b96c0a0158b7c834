// Package simulate estimates how far uniformly random play gets on a board:
// click a random covered cell until a mine goes off or the board is cleared.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-gym/internal/mines"
)

// RunOne plays a single random game on a fresh layout and returns the number
// of safe cells revealed. There is no first-click safety.
func RunOne(params mines.Params, r *rand.Rand) (int, error) {
	board, err := mines.NewBoard(params, r)
	if err != nil {
		return 0, err
	}

	candidates := make([]int, params.Cells())
	for i := range candidates {
		candidates[i] = i
	}
	for len(candidates) > 0 && !board.GameOver {
		k := r.IntN(len(candidates))
		i := candidates[k]
		candidates[k] = candidates[len(candidates)-1]
		candidates = candidates[:len(candidates)-1]

		row, col := i/params.Cols, i%params.Cols
		// cascades may have opened it already
		if cell, _ := board.Cell(row, col); cell != mines.Hidden {
			continue
		}
		if _, err := board.Reveal(row, col); err != nil {
			return 0, err
		}
	}
	return board.Revealed(), nil
}

func workerRand(seed int64, worker int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(worker)))
}

// Simulate plays runs random games over workers goroutines. Worker w plays
// runs w, w+workers, ... with its own generator, so results only depend on
// seed and workers.
func Simulate(
	ctx context.Context, params mines.Params, runs int, seed int64, workers int,
) ([]int, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if runs <= 0 {
		return nil, fmt.Errorf("runs must be positive (runs = %d)", runs)
	}
	workers = max(1, min(workers, runs))

	results := make([]int, runs)
	g, gCtx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() error {
			r := workerRand(seed, w)
			for n, i := 0, w; i < runs; n, i = n+1, i+workers {
				if n%256 == 0 && gCtx.Err() != nil {
					return gCtx.Err()
				}
				cells, err := RunOne(params, r)
				if err != nil {
					return err
				}
				results[i] = cells
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

var ErrEmpty = errors.New("empty dataset")

// PercentileThreshold returns the nearest-rank percentile of data, rounding
// the rank up: the element at ceil(p/100 * n) in ascending order.
func PercentileThreshold(data []int, percentile float64) (int, error) {
	if len(data) == 0 {
		return 0, ErrEmpty
	}
	if !(percentile > 0 && percentile <= 100) {
		return 0, fmt.Errorf("percentile must be in (0, 100] (percentile = %g)", percentile)
	}
	xs := slices.Clone(data)
	slices.Sort(xs)
	n := len(xs)
	rank := int(math.Ceil(percentile / 100 * float64(n)))
	return xs[max(0, min(n-1, rank-1))], nil
}

type Summary struct {
	Runs   int     `json:"runs"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
}

// Summarize reports the mean, the population standard deviation and the range.
func Summarize(data []int) (Summary, error) {
	if len(data) == 0 {
		return Summary{}, ErrEmpty
	}
	s := Summary{Runs: len(data), Min: slices.Min(data), Max: slices.Max(data)}
	var sum float64
	for _, x := range data {
		sum += float64(x)
	}
	s.Mean = sum / float64(len(data))
	var sq float64
	for _, x := range data {
		d := float64(x) - s.Mean
		sq += d * d
	}
	s.StdDev = math.Sqrt(sq / float64(len(data)))
	return s, nil
}

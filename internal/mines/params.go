package mines

import (
	"errors"
	"fmt"
	"hash/maphash"
	"math/rand/v2"
)

var (
	ErrInvalidConfiguration = errors.New("invalid board configuration")
	ErrOutOfBounds          = errors.New("cell out of bounds")
)

type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Params struct {
	Rows      int `json:"rows" yaml:"rows"`
	Cols      int `json:"cols" yaml:"cols"`
	MineCount int `json:"num_mines" yaml:"num_mines"`
}

func (p Params) Cells() int {
	return p.Rows * p.Cols
}

func (p Params) SafeCells() int {
	return p.Cells() - p.MineCount
}

func (p Params) Validate() error {
	if p.Rows <= 0 || p.Cols <= 0 {
		return fmt.Errorf(
			"%w: board must have positive dimensions (rows = %d, cols = %d)",
			ErrInvalidConfiguration, p.Rows, p.Cols,
		)
	}
	if p.MineCount <= 0 || p.MineCount >= p.Cells() {
		return fmt.Errorf(
			"%w: number of mines must be between 1 and %d (num_mines = %d)",
			ErrInvalidConfiguration, p.Cells()-1, p.MineCount,
		)
	}
	return nil
}

func (p Params) InBounds(row, col int) bool {
	return 0 <= row && row < p.Rows && 0 <= col && col < p.Cols
}

func (p Params) String() string {
	return fmt.Sprintf("%dx%d(%d)", p.Rows, p.Cols, p.MineCount)
}

// NewRand returns the generator every board of a given seed is built from.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

func RandomSeed() int64 {
	return int64(new(maphash.Hash).Sum64() >> 1)
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vancomm/minesweeper-gym/internal/mines"
)

func lookupInt(key string, dst *int) error {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}

// BoardDefaults overrides fallback with MINESWEEPER_ROWS, MINESWEEPER_COLS
// and MINESWEEPER_MINES, and reads an optional fixed MINESWEEPER_SEED.
func BoardDefaults(fallback mines.Params) (mines.Params, *int64, error) {
	params := fallback
	if err := lookupInt("MINESWEEPER_ROWS", &params.Rows); err != nil {
		return params, nil, err
	}
	if err := lookupInt("MINESWEEPER_COLS", &params.Cols); err != nil {
		return params, nil, err
	}
	if err := lookupInt("MINESWEEPER_MINES", &params.MineCount); err != nil {
		return params, nil, err
	}
	if err := params.Validate(); err != nil {
		return params, nil, fmt.Errorf("invalid default board: %w", err)
	}

	s, ok := os.LookupEnv("MINESWEEPER_SEED")
	if !ok || s == "" {
		return params, nil, nil
	}
	seed, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return params, nil, fmt.Errorf("invalid MINESWEEPER_SEED: %w", err)
	}
	return params, &seed, nil
}

package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper-gym/internal/mines"
)

var ErrNotSetup = errors.New("no game in progress: call setup first")

type Status string

const (
	StatusReady           Status = "ready"
	StatusInProgress      Status = "in_progress"
	StatusRevealed        Status = "revealed"
	StatusAlreadyRevealed Status = "already_revealed"
	StatusFlaggedCell     Status = "flagged_cell"
	StatusMineHit         Status = "mine_hit"
	StatusWon             Status = "won"
	StatusGameOver        Status = "game_over"
	StatusFlagged         Status = "flagged"
	StatusUnflagged       Status = "unflagged"
)

type Result struct {
	Status        Status          `json:"status"`
	Message       string          `json:"message"`
	Board         *mines.Snapshot `json:"board,omitempty"`
	Opened        int             `json:"opened,omitempty"`
	MovesMade     int             `json:"moves_made"`
	CellsRevealed int             `json:"cells_revealed"`
}

// Episode describes the game currently held by a session.
type Episode struct {
	ID        uuid.UUID
	TaskID    string
	Seed      int64
	Params    mines.Params
	StartedAt time.Time
	EndedAt   *time.Time
}

// Session owns the single active board of an environment process together
// with its move counters. All methods are safe for concurrent use; calls are
// applied one at a time.
type Session struct {
	mu            sync.Mutex
	board         *mines.Board
	episode       Episode
	movesMade     int
	cellsRevealed int
	gamesPlayed   int
	gamesWon      int
	now           func() time.Time
}

func New() *Session {
	return &Session{now: time.Now}
}

// Setup starts a new game, replacing the previous one. A nil seed draws a
// fresh one, which is kept on the episode so the layout can be replayed.
func (s *Session) Setup(params mines.Params, seed *int64, taskID string) (Result, error) {
	var sd int64
	if seed != nil {
		sd = *seed
	} else {
		sd = mines.RandomSeed()
	}

	board, err := mines.NewBoard(params, mines.NewRand(sd))
	if err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.board = board
	s.movesMade = 0
	s.cellsRevealed = 0
	s.gamesPlayed++
	s.episode = Episode{
		ID:        uuid.New(),
		TaskID:    taskID,
		Seed:      sd,
		Params:    params,
		StartedAt: s.now().UTC(),
	}

	return s.result(StatusReady, fmt.Sprintf(
		"New %dx%d minesweeper game created with %d mines",
		params.Rows, params.Cols, params.MineCount,
	)), nil
}

func (s *Session) Reveal(row, col int) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.board == nil {
		return Result{}, ErrNotSetup
	}
	cell, err := s.board.Cell(row, col)
	if err != nil {
		return Result{}, err
	}
	if s.board.GameOver {
		s.movesMade++
		return s.result(StatusGameOver, "Game is already over"), nil
	}

	opened, err := s.board.Reveal(row, col)
	if err != nil {
		return Result{}, err
	}
	s.movesMade++
	s.cellsRevealed += opened
	s.finish()

	var res Result
	switch {
	case cell == mines.Flagged:
		res = s.result(StatusFlaggedCell, fmt.Sprintf("Cell (%d, %d) is flagged; unflag it before revealing", row, col))
	case cell != mines.Hidden:
		res = s.result(StatusAlreadyRevealed, fmt.Sprintf("Cell (%d, %d) is already revealed", row, col))
	case s.board.State() == mines.Lost:
		res = s.result(StatusMineHit, fmt.Sprintf("GAME OVER! You hit a mine at (%d, %d)", row, col))
	case s.board.State() == mines.Won:
		res = s.result(StatusWon, "CONGRATULATIONS! You won!")
	default:
		res = s.result(StatusRevealed, fmt.Sprintf("Revealed cell (%d, %d)", row, col))
	}
	res.Opened = opened
	return res, nil
}

func (s *Session) Flag(row, col int) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.board == nil {
		return Result{}, ErrNotSetup
	}
	cell, err := s.board.Cell(row, col)
	if err != nil {
		return Result{}, err
	}
	if s.board.GameOver {
		s.movesMade++
		return s.result(StatusGameOver, "Game is already over"), nil
	}

	flagged, err := s.board.Flag(row, col)
	if err != nil {
		return Result{}, err
	}
	s.movesMade++

	switch {
	case cell.Revealed():
		return s.result(StatusAlreadyRevealed, fmt.Sprintf("Cannot flag revealed cell (%d, %d)", row, col)), nil
	case flagged:
		return s.result(StatusFlagged, fmt.Sprintf("Flagged cell (%d, %d)", row, col)), nil
	default:
		return s.result(StatusUnflagged, fmt.Sprintf("Unflagged cell (%d, %d)", row, col)), nil
	}
}

func (s *Session) Board() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.board == nil {
		return Result{}, ErrNotSetup
	}
	switch s.board.State() {
	case mines.Won:
		return s.result(StatusWon, "GAME WON!"), nil
	case mines.Lost:
		return s.result(StatusGameOver, "GAME OVER!"), nil
	}
	return s.result(StatusInProgress, "GAME IN PROGRESS"), nil
}

// finish stamps the end of the episode the first time the board reaches a
// terminal state. Must be called with s.mu held.
func (s *Session) finish() {
	if !s.board.GameOver || s.episode.EndedAt != nil {
		return
	}
	endedAt := s.now().UTC()
	s.episode.EndedAt = &endedAt
	if s.board.Won {
		s.gamesWon++
	}
}

// result must be called with s.mu held.
func (s *Session) result(status Status, message string) Result {
	snapshot := s.board.Snapshot()
	return Result{
		Status:        status,
		Message:       message,
		Board:         &snapshot,
		MovesMade:     s.movesMade,
		CellsRevealed: s.cellsRevealed,
	}
}

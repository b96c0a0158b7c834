package session

import (
	"math"

	"github.com/vancomm/minesweeper-gym/internal/mines"
)

type Evaluation struct {
	mines.Reward
	GameOver       bool    `json:"game_over"`
	MovesMade      int     `json:"moves_made"`
	CellsFlagged   int     `json:"cells_flagged"`
	CellsTotal     int     `json:"cells_total"`
	Progress       float64 `json:"progress"`
	MinesRemaining int     `json:"mines_remaining"`
	GamesPlayed    int     `json:"games_played"`
	GamesWon       int     `json:"games_won"`
	WinRate        float64 `json:"win_rate"`
	EpisodeID      string  `json:"episode_id"`
	TaskID         string  `json:"task_id,omitempty"`
	Content        string  `json:"content"`
}

// Evaluate scores the current game. It may be called at any point of the
// episode, not only once it has ended.
func (s *Session) Evaluate() (Evaluation, Episode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.board == nil {
		return Evaluation{}, Episode{}, ErrNotSetup
	}

	params := s.board.Params
	reward := mines.Score(params, s.cellsRevealed, s.board.Won)
	e := Evaluation{
		Reward:         reward,
		GameOver:       s.board.GameOver,
		MovesMade:      s.movesMade,
		CellsFlagged:   s.board.Flagged(),
		CellsTotal:     params.Cells(),
		Progress:       float64(s.board.Revealed()) / math.Max(1, float64(params.SafeCells())),
		MinesRemaining: params.MineCount - s.board.Flagged(),
		GamesPlayed:    s.gamesPlayed,
		GamesWon:       s.gamesWon,
		WinRate:        float64(s.gamesWon) / math.Max(1, float64(s.gamesPlayed)),
		EpisodeID:      s.episode.ID.String(),
		TaskID:         s.episode.TaskID,
		Content:        reward.Summary(),
	}
	return e, s.episode, nil
}

// Episode returns the episode of the current game.
func (s *Session) Episode() (Episode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.episode, s.board != nil
}

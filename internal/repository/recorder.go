package repository

import (
	"context"
	"errors"

	"github.com/vancomm/minesweeper-gym/internal/session"
)

// Recorder stores evaluated episodes. The first evaluation of an episode
// inserts it, later ones update the outcome.
type Recorder struct {
	q *Queries
}

func NewRecorder(q *Queries) *Recorder {
	return &Recorder{q: q}
}

func (r *Recorder) RecordEpisode(
	ctx context.Context, episode session.Episode, eval session.Evaluation,
) error {
	_, err := r.q.CreateEpisode(ctx, CreateEpisodeParams{
		EpisodeId:     episode.ID,
		TaskId:        episode.TaskID,
		Seed:          episode.Seed,
		BoardRows:     episode.Params.Rows,
		BoardCols:     episode.Params.Cols,
		MineCount:     episode.Params.MineCount,
		MovesMade:     eval.MovesMade,
		CellsRevealed: eval.CellsRevealed,
		GameOver:      eval.GameOver,
		Won:           eval.Won,
		Reward:        eval.Reward.Reward,
		StartedAt:     episode.StartedAt,
		EndedAt:       episode.EndedAt,
	})
	if !errors.Is(err, ErrEpisodeExists) {
		return err
	}

	_, err = r.q.UpdateEpisode(ctx, episode.ID, UpdateEpisodeParams{
		MovesMade:     &eval.MovesMade,
		CellsRevealed: &eval.CellsRevealed,
		GameOver:      &eval.GameOver,
		Won:           &eval.Won,
		Reward:        &eval.Reward.Reward,
		EndedAt:       episode.EndedAt,
	})
	return err
}

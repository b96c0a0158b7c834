package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

var (
	ErrEpisodeExists   = errors.New("episode already recorded")
	ErrEpisodeNotFound = errors.New("episode not found")
)

type Episode struct {
	EpisodeId     uuid.UUID
	TaskId        string
	Seed          int64
	BoardRows     int
	BoardCols     int
	MineCount     int
	MovesMade     int
	CellsRevealed int
	GameOver      bool
	Won           bool
	Reward        float64
	StartedAt     pgtype.Timestamptz
	EndedAt       pgtype.Timestamptz
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

type CreateEpisodeParams struct {
	EpisodeId     uuid.UUID
	TaskId        string
	Seed          int64
	BoardRows     int
	BoardCols     int
	MineCount     int
	MovesMade     int
	CellsRevealed int
	GameOver      bool
	Won           bool
	Reward        float64
	StartedAt     time.Time
	EndedAt       *time.Time
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func collectEpisode(rows pgx.Rows) (*Episode, error) {
	episode, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Episode])
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, ErrEpisodeNotFound
	case isUniqueViolation(err):
		return nil, ErrEpisodeExists
	}
	return episode, err
}

func (q *Queries) CreateEpisode(ctx context.Context, params CreateEpisodeParams) (*Episode, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO episode (
			episode_id, task_id, seed, board_rows, board_cols, mine_count,
			moves_made, cells_revealed, game_over, won, reward, started_at, ended_at
		)
		VALUES (
			@episode_id, @task_id, @seed, @board_rows, @board_cols, @mine_count,
			@moves_made, @cells_revealed, @game_over, @won, @reward, @started_at, @ended_at
		)
		RETURNING *;`,
		pgx.NamedArgs{
			"episode_id":     params.EpisodeId,
			"task_id":        params.TaskId,
			"seed":           params.Seed,
			"board_rows":     params.BoardRows,
			"board_cols":     params.BoardCols,
			"mine_count":     params.MineCount,
			"moves_made":     params.MovesMade,
			"cells_revealed": params.CellsRevealed,
			"game_over":      params.GameOver,
			"won":            params.Won,
			"reward":         params.Reward,
			"started_at":     params.StartedAt,
			"ended_at":       params.EndedAt,
		},
	)
	return collectEpisode(rows)
}

func (q *Queries) GetEpisode(ctx context.Context, episodeId uuid.UUID) (*Episode, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT * FROM episode WHERE episode_id = $1", episodeId,
	)
	return collectEpisode(rows)
}

type UpdateEpisodeParams struct {
	MovesMade     *int
	CellsRevealed *int
	GameOver      *bool
	Won           *bool
	Reward        *float64
	EndedAt       *time.Time
}

func (p UpdateEpisodeParams) SetClause() (string, pgx.NamedArgs) {
	parts := []string{"updated_at = now()"}
	args := pgx.NamedArgs{}

	if p.MovesMade != nil {
		parts = append(parts, "moves_made = @moves_made")
		args["moves_made"] = *p.MovesMade
	}
	if p.CellsRevealed != nil {
		parts = append(parts, "cells_revealed = @cells_revealed")
		args["cells_revealed"] = *p.CellsRevealed
	}
	if p.GameOver != nil {
		parts = append(parts, "game_over = @game_over")
		args["game_over"] = *p.GameOver
	}
	if p.Won != nil {
		parts = append(parts, "won = @won")
		args["won"] = *p.Won
	}
	if p.Reward != nil {
		parts = append(parts, "reward = @reward")
		args["reward"] = *p.Reward
	}
	if p.EndedAt != nil {
		parts = append(parts, "ended_at = @ended_at")
		args["ended_at"] = *p.EndedAt
	}

	return strings.Join(parts, ", "), args
}

func (q *Queries) UpdateEpisode(
	ctx context.Context, episodeId uuid.UUID, params UpdateEpisodeParams,
) (*Episode, error) {
	setClause, args := params.SetClause()
	args["episode_id"] = episodeId
	rows, _ := q.db.Query(
		ctx,
		"UPDATE episode SET "+setClause+" WHERE episode_id = @episode_id RETURNING *",
		args,
	)
	return collectEpisode(rows)
}

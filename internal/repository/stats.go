package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
)

type Stats struct {
	BoardRows         int     `json:"rows"`
	BoardCols         int     `json:"cols"`
	MineCount         int     `json:"num_mines"`
	Episodes          int64   `json:"episodes"`
	Wins              int64   `json:"wins"`
	WinRate           float64 `json:"win_rate"`
	MeanReward        float64 `json:"mean_reward"`
	MeanCellsRevealed float64 `json:"mean_cells_revealed"`
}

type StatsFilter struct {
	Rows      *int
	Cols      *int
	MineCount *int
	TaskId    *string
}

func (f StatsFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Rows != nil {
		clauses = append(clauses, "board_rows = @board_rows")
		args["board_rows"] = *f.Rows
	}
	if f.Cols != nil {
		clauses = append(clauses, "board_cols = @board_cols")
		args["board_cols"] = *f.Cols
	}
	if f.MineCount != nil {
		clauses = append(clauses, "mine_count = @mine_count")
		args["mine_count"] = *f.MineCount
	}
	if f.TaskId != nil {
		clauses = append(clauses, "task_id = @task_id")
		args["task_id"] = *f.TaskId
	}
	return strings.Join(clauses, " AND "), args
}

// GetStats aggregates recorded episodes per board configuration.
func (q *Queries) GetStats(ctx context.Context, filter StatsFilter) ([]Stats, error) {
	query := `
	SELECT
		board_rows,
		board_cols,
		mine_count,
		count(*) episodes,
		count(*) FILTER (WHERE won) wins,
		(count(*) FILTER (WHERE won))::float8 / count(*) win_rate,
		avg(reward)::float8 mean_reward,
		avg(cells_revealed)::float8 mean_cells_revealed
	FROM episode
	`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	query += " GROUP BY board_rows, board_cols, mine_count ORDER BY board_rows, board_cols, mine_count;"

	rows, _ := q.db.Query(ctx, query, args)
	return pgx.CollectRows(rows, pgx.RowToStructByName[Stats])
}

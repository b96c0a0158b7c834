package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-gym/internal/database"
	"github.com/vancomm/minesweeper-gym/internal/mines"
	"github.com/vancomm/minesweeper-gym/internal/repository"
	"github.com/vancomm/minesweeper-gym/internal/session"
)

// newQueries returns queries against DATABASE_URL and a task id that is
// unique to the test. Episodes of that task are deleted when the test ends.
func newQueries(t *testing.T) (*repository.Queries, string) {
	t.Helper()
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, _, err := database.ConnectAndMigrate(ctx)
	require.NoError(t, err)

	taskId := "test_" + uuid.NewString()
	t.Cleanup(func() {
		pool.Exec(ctx, "DELETE FROM episode WHERE task_id = $1", taskId)
		pool.Close()
	})
	return repository.New(pool), taskId
}

func TestStatsFilterWhereClause(t *testing.T) {
	t.Parallel()

	clause, args := repository.StatsFilter{}.WhereClause()
	assert.Empty(t, clause)
	assert.Empty(t, args)

	rows, mineCount := 9, 10
	clause, args = repository.StatsFilter{Rows: &rows, MineCount: &mineCount}.WhereClause()
	assert.Equal(t, "board_rows = @board_rows AND mine_count = @mine_count", clause)
	assert.Equal(t, pgx.NamedArgs{"board_rows": 9, "mine_count": 10}, args)
}

func TestUpdateEpisodeSetClause(t *testing.T) {
	t.Parallel()

	won := true
	clause, args := repository.UpdateEpisodeParams{Won: &won}.SetClause()
	assert.Equal(t, "updated_at = now(), won = @won", clause)
	assert.Equal(t, pgx.NamedArgs{"won": true}, args)
}

func TestEpisodeLifecycle(t *testing.T) {
	q, taskId := newQueries(t)
	ctx := context.Background()

	id := uuid.New()
	started := time.Now().UTC().Truncate(time.Microsecond)
	created, err := q.CreateEpisode(ctx, repository.CreateEpisodeParams{
		EpisodeId: id,
		TaskId:    taskId,
		Seed:      43,
		BoardRows: 5,
		BoardCols: 5,
		MineCount: 3,
		StartedAt: started,
	})
	require.NoError(t, err)
	assert.Equal(t, id, created.EpisodeId)
	assert.False(t, created.EndedAt.Valid)

	_, err = q.CreateEpisode(ctx, repository.CreateEpisodeParams{
		EpisodeId: id, TaskId: taskId, Seed: 1, BoardRows: 5, BoardCols: 5, MineCount: 3, StartedAt: started,
	})
	assert.ErrorIs(t, err, repository.ErrEpisodeExists)

	reward, won := 1.0, true
	updated, err := q.UpdateEpisode(ctx, id, repository.UpdateEpisodeParams{Reward: &reward, Won: &won})
	require.NoError(t, err)
	assert.Equal(t, 1.0, updated.Reward)
	assert.True(t, updated.Won)

	fetched, err := q.GetEpisode(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, updated.Reward, fetched.Reward)

	_, err = q.GetEpisode(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrEpisodeNotFound)
}

func TestRecorderAndStats(t *testing.T) {
	q, taskId := newQueries(t)
	ctx := context.Background()
	rec := repository.NewRecorder(q)

	s := session.New()
	seed := int64(7)
	_, err := s.Setup(mines.Params{Rows: 13, Cols: 11, MineCount: 7}, &seed, taskId)
	require.NoError(t, err)
	_, err = s.Flag(0, 0)
	require.NoError(t, err)

	eval, episode, err := s.Evaluate()
	require.NoError(t, err)
	require.NoError(t, rec.RecordEpisode(ctx, episode, eval))
	// Evaluating again updates the same row.
	require.NoError(t, rec.RecordEpisode(ctx, episode, eval))

	rows, cols := 13, 11
	stats, err := q.GetStats(ctx, repository.StatsFilter{Rows: &rows, Cols: &cols, TaskId: &taskId})
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, int64(1), stats[0].Episodes)
	assert.Equal(t, 7, stats[0].MineCount)
	assert.Equal(t, 0.0, stats[0].MeanReward)
}

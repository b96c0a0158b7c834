package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-gym/internal/mines"
)

func seed(v int64) *int64 { return &v }

// newWallSession returns a session playing a 5x5 board with a wall of
// mines in column 2.
func newWallSession(t *testing.T) *Session {
	t.Helper()
	s := New()
	_, err := s.Setup(mines.Params{Rows: 5, Cols: 5, MineCount: 5}, seed(1), "task")
	require.NoError(t, err)

	board, err := mines.NewBoardWithMines(5, 5, []mines.Point{
		{Row: 0, Col: 2}, {Row: 1, Col: 2}, {Row: 2, Col: 2}, {Row: 3, Col: 2}, {Row: 4, Col: 2},
	})
	require.NoError(t, err)
	s.board = board
	return s
}

func TestActionsBeforeSetup(t *testing.T) {
	s := New()

	_, err := s.Reveal(0, 0)
	assert.ErrorIs(t, err, ErrNotSetup)
	_, err = s.Flag(0, 0)
	assert.ErrorIs(t, err, ErrNotSetup)
	_, err = s.Board()
	assert.ErrorIs(t, err, ErrNotSetup)
	_, _, err = s.Evaluate()
	assert.ErrorIs(t, err, ErrNotSetup)

	_, ok := s.Episode()
	assert.False(t, ok)
}

func TestSetup(t *testing.T) {
	s := New()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return now }

	res, err := s.Setup(mines.Params{Rows: 9, Cols: 9, MineCount: 10}, seed(42), "minesweeper_hard_21")
	require.NoError(t, err)
	assert.Equal(t, StatusReady, res.Status)
	assert.Equal(t, "New 9x9 minesweeper game created with 10 mines", res.Message)
	require.NotNil(t, res.Board)
	assert.Equal(t, 81, len(res.Board.Cells))
	assert.Zero(t, res.MovesMade)

	episode, ok := s.Episode()
	require.True(t, ok)
	assert.Equal(t, int64(42), episode.Seed)
	assert.Equal(t, "minesweeper_hard_21", episode.TaskID)
	assert.Equal(t, now, episode.StartedAt)
	assert.Nil(t, episode.EndedAt)

	want, err := mines.NewBoard(mines.Params{Rows: 9, Cols: 9, MineCount: 10}, mines.NewRand(42))
	require.NoError(t, err)
	assert.Equal(t, want.Mines(), s.board.Mines())
}

func TestSetupWithoutSeedRecordsOne(t *testing.T) {
	s := New()
	_, err := s.Setup(mines.Params{Rows: 5, Cols: 5, MineCount: 3}, nil, "")
	require.NoError(t, err)

	episode, _ := s.Episode()
	want, err := mines.NewBoard(episode.Params, mines.NewRand(episode.Seed))
	require.NoError(t, err)
	assert.Equal(t, want.Mines(), s.board.Mines())
}

func TestFailedSetupKeepsCurrentGame(t *testing.T) {
	s := newWallSession(t)
	_, err := s.Reveal(0, 0)
	require.NoError(t, err)
	before, _ := s.Board()
	episode, _ := s.Episode()

	_, err = s.Setup(mines.Params{Rows: 5, Cols: 5, MineCount: 25}, nil, "")
	assert.ErrorIs(t, err, mines.ErrInvalidConfiguration)

	after, err := s.Board()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	again, _ := s.Episode()
	assert.Equal(t, episode, again)
	assert.Equal(t, 1, s.gamesPlayed)
}

func TestSetupReplacesGame(t *testing.T) {
	s := newWallSession(t)
	_, err := s.Reveal(0, 0)
	require.NoError(t, err)
	first, _ := s.Episode()

	res, err := s.Setup(mines.Params{Rows: 4, Cols: 4, MineCount: 2}, seed(7), "")
	require.NoError(t, err)
	assert.Zero(t, res.MovesMade)
	assert.Zero(t, res.CellsRevealed)
	assert.Equal(t, 4, res.Board.Rows)

	second, _ := s.Episode()
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, s.gamesPlayed)
}

func TestRevealCounters(t *testing.T) {
	s := newWallSession(t)

	res, err := s.Reveal(0, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusRevealed, res.Status)
	assert.Equal(t, 10, res.Opened)
	assert.Equal(t, 1, res.MovesMade)
	assert.Equal(t, 10, res.CellsRevealed)

	res, err = s.Reveal(0, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyRevealed, res.Status)
	assert.Equal(t, 2, res.MovesMade)
	assert.Equal(t, 10, res.CellsRevealed)

	res, err = s.Reveal(0, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, res.MovesMade)
	assert.Equal(t, 11, res.CellsRevealed)
}

func TestRevealFlaggedCell(t *testing.T) {
	s := newWallSession(t)

	_, err := s.Flag(0, 0)
	require.NoError(t, err)

	res, err := s.Reveal(0, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusFlaggedCell, res.Status)
	assert.Zero(t, res.CellsRevealed)
	assert.Equal(t, mines.Flagged, res.Board.At(0, 0))
}

func TestFlagTwiceRestoresCell(t *testing.T) {
	s := newWallSession(t)

	res, err := s.Flag(3, 3)
	require.NoError(t, err)
	assert.Equal(t, StatusFlagged, res.Status)
	assert.Equal(t, mines.Flagged, res.Board.At(3, 3))
	assert.Equal(t, 4, res.Board.MinesRemaining)

	res, err = s.Flag(3, 3)
	require.NoError(t, err)
	assert.Equal(t, StatusUnflagged, res.Status)
	assert.Equal(t, mines.Hidden, res.Board.At(3, 3))
	assert.Equal(t, 2, res.MovesMade)
}

func TestFlagRevealedCell(t *testing.T) {
	s := newWallSession(t)
	_, err := s.Reveal(0, 0)
	require.NoError(t, err)

	res, err := s.Flag(0, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyRevealed, res.Status)
	assert.Equal(t, mines.CellState(0), res.Board.At(0, 0))
}

func TestOutOfBoundsLeavesSessionUnchanged(t *testing.T) {
	s := newWallSession(t)
	_, err := s.Reveal(0, 0)
	require.NoError(t, err)
	before, _ := s.Board()

	_, err = s.Reveal(5, 0)
	assert.ErrorIs(t, err, mines.ErrOutOfBounds)
	_, err = s.Flag(0, -1)
	assert.ErrorIs(t, err, mines.ErrOutOfBounds)

	after, _ := s.Board()
	assert.Equal(t, before, after)
	assert.Equal(t, 1, after.MovesMade)
}

func TestMineHitThenLenientReveal(t *testing.T) {
	s := newWallSession(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return now }

	res, err := s.Reveal(0, 2)
	require.NoError(t, err)
	assert.Equal(t, StatusMineHit, res.Status)
	assert.True(t, res.Board.GameOver)
	assert.Equal(t, mines.Exploded, res.Board.At(0, 2))

	episode, _ := s.Episode()
	require.NotNil(t, episode.EndedAt)
	assert.Equal(t, now, *episode.EndedAt)

	after, err := s.Reveal(0, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusGameOver, after.Status)
	assert.Equal(t, res.Board, after.Board)

	after, err = s.Flag(4, 4)
	require.NoError(t, err)
	assert.Equal(t, StatusGameOver, after.Status)
	assert.Equal(t, res.Board, after.Board)

	_, err = s.Reveal(99, 99)
	assert.ErrorIs(t, err, mines.ErrOutOfBounds)
}

func TestWinAndEvaluate(t *testing.T) {
	s := newWallSession(t)

	_, err := s.Reveal(0, 0)
	require.NoError(t, err)
	res, err := s.Reveal(0, 4)
	require.NoError(t, err)
	assert.Equal(t, StatusWon, res.Status)
	assert.Equal(t, 10, res.Opened)
	assert.Equal(t, 20, res.CellsRevealed)

	board, err := s.Board()
	require.NoError(t, err)
	assert.Equal(t, StatusWon, board.Status)

	e, episode, err := s.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 1.0, e.Reward.Reward)
	assert.True(t, e.Won)
	assert.True(t, e.GameOver)
	assert.Equal(t, 20, e.CellsRevealed)
	assert.Equal(t, 1.0, e.Progress)
	assert.Equal(t, 1, e.GamesPlayed)
	assert.Equal(t, 1, e.GamesWon)
	assert.Equal(t, 1.0, e.WinRate)
	assert.Equal(t, episode.ID.String(), e.EpisodeID)
	assert.Equal(t, "task", e.TaskID)
	assert.Contains(t, e.Content, "Win Status: Won")

	// A finished game is only counted once.
	_, err = s.Reveal(0, 0)
	require.NoError(t, err)
	e, _, err = s.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 1, e.GamesWon)
}

func TestEvaluateInProgress(t *testing.T) {
	s := newWallSession(t)

	_, err := s.Reveal(0, 0)
	require.NoError(t, err)

	e, _, err := s.Evaluate()
	require.NoError(t, err)
	assert.False(t, e.GameOver)
	assert.Equal(t, 10, e.CellsRevealed)
	assert.InDelta(t, 20.0/6.0, e.ExpectedRandom, 1e-12)
	assert.InDelta(t, 0.5*(10-20.0/6.0)/(20-20.0/6.0), e.Reward.Reward, 1e-12)
	assert.InDelta(t, 0.5, e.Progress, 1e-12)
	assert.Equal(t, 25, e.CellsTotal)
}

func TestConcurrentMovesAreSerialized(t *testing.T) {
	s := New()
	_, err := s.Setup(mines.Params{Rows: 20, Cols: 20, MineCount: 1}, seed(3), "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for r := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range 20 {
				_, err := s.Flag(r, c)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	res, err := s.Board()
	require.NoError(t, err)
	assert.Equal(t, 400, res.MovesMade)
	assert.Equal(t, 1-400, res.Board.MinesRemaining)
}

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-gym/internal/repository"
)

var errStatsDisabled = errors.New("episode records are disabled")

type StatsSource interface {
	GetStats(ctx context.Context, filter repository.StatsFilter) ([]repository.Stats, error)
}

type StatsHandler struct {
	logger  *slog.Logger
	stats   StatsSource
	decoder *schema.Decoder
}

// NewStatsHandler returns a handler answering 404 when stats is nil.
func NewStatsHandler(logger *slog.Logger, stats StatsSource) *StatsHandler {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)

	return &StatsHandler{
		logger:  logger,
		stats:   stats,
		decoder: dec,
	}
}

type statsQuery struct {
	Rows     *int    `schema:"rows"`
	Cols     *int    `schema:"cols"`
	NumMines *int    `schema:"num_mines"`
	TaskID   *string `schema:"task_id"`
}

func (h StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.stats == nil {
		sendJSONOrLog(w, h.logger, http.StatusNotFound, errorResponse{
			Error: errStatsDisabled.Error(),
			Kind:  "not_found",
		})
		return
	}

	var query statsQuery
	if err := h.decoder.Decode(&query, r.URL.Query()); err != nil {
		sendJSONOrLog(w, h.logger, http.StatusBadRequest, errorResponse{
			Error: err.Error(),
			Kind:  "invalid_argument",
		})
		return
	}

	stats, err := h.stats.GetStats(r.Context(), repository.StatsFilter{
		Rows:      query.Rows,
		Cols:      query.Cols,
		MineCount: query.NumMines,
		TaskId:    query.TaskID,
	})
	if err != nil {
		h.logger.Error("unable to fetch stats", slog.Any("error", err))
		sendJSONOrLog(w, h.logger, http.StatusInternalServerError, wrapError(err))
		return
	}
	sendJSONOrLog(w, h.logger, http.StatusOK, map[string]any{"stats": stats})
}

package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vancomm/minesweeper-gym/internal/actions"
	"github.com/vancomm/minesweeper-gym/internal/config"
	"github.com/vancomm/minesweeper-gym/internal/session"
)

const maxBodySize = 1 << 20

type ActionHandler struct {
	logger     *slog.Logger
	dispatcher *actions.Dispatcher
	ws         *config.WebSocket
}

func NewActionHandler(
	logger *slog.Logger,
	dispatcher *actions.Dispatcher,
	ws *config.WebSocket,
) *ActionHandler {
	return &ActionHandler{
		logger:     logger,
		dispatcher: dispatcher,
		ws:         ws,
	}
}

// parseArguments accepts either {"arguments": {...}} or the arguments object
// itself. An empty body means no arguments.
func parseArguments(r *http.Request) (map[string]any, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read body: %s", actions.ErrInvalidArgument, err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("%w: body must be a JSON object: %s", actions.ErrInvalidArgument, err)
	}

	if inner, ok := obj["arguments"]; ok {
		switch inner := inner.(type) {
		case map[string]any:
			return inner, nil
		case nil:
			return nil, nil
		default:
			return nil, fmt.Errorf("%w: arguments must be an object", actions.ErrInvalidArgument)
		}
	}
	return obj, nil
}

func (h ActionHandler) Call(w http.ResponseWriter, r *http.Request) {
	args, err := parseArguments(r)
	if err != nil {
		sendErrorOrLog(w, h.logger, err)
		return
	}
	values, err := actions.Values(args, r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, h.logger, err)
		return
	}

	res, err := h.dispatcher.Call(r.Context(), r.PathValue("name"), values)
	if err != nil {
		sendErrorOrLog(w, h.logger, err)
		return
	}
	sendJSONOrLog(w, h.logger, http.StatusOK, res)
}

func (h ActionHandler) List(w http.ResponseWriter, r *http.Request) {
	sendJSONOrLog(w, h.logger, http.StatusOK, map[string][]string{
		"actions": actions.Names(),
	})
}

func (h ActionHandler) Board(w http.ResponseWriter, r *http.Request) {
	res, err := h.dispatcher.Session().Board()
	if err != nil {
		sendErrorOrLog(w, h.logger, err)
		return
	}
	sendJSONOrLog(w, h.logger, http.StatusOK, res)
}

func (h ActionHandler) BoardText(w http.ResponseWriter, r *http.Request) {
	res, err := h.dispatcher.Session().Board()
	if err != nil {
		sendErrorOrLog(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, boardText(res))
}

func boardText(res session.Result) string {
	return fmt.Sprintf("%s\n%s\n", res.Board.String(), res.Message)
}

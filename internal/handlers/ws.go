package handlers

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper-gym/internal/actions"
)

type command struct {
	action   actions.Action
	args     []string
	required int
}

// Each line of a text message is one command, e.g. "o 3 4" reveals (3, 4).
var commands = map[string]command{
	"s": {actions.Setup, []string{"rows", "cols", "num_mines", "seed"}, 3},
	"o": {actions.Reveal, []string{"row", "col"}, 2},
	"f": {actions.Flag, []string{"row", "col"}, 2},
	"g": {actions.GetBoard, nil, 0},
	"e": {actions.Evaluate, nil, 0},
}

type wsMessage struct {
	Command string `json:"command"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

func iterBySep(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}

func parseCommand(line string) (actions.Action, url.Values, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return "", nil, fmt.Errorf("%w: empty command", actions.ErrInvalidArgument)
	}

	cmd, ok := commands[parts[0]]
	if !ok {
		return "", nil, fmt.Errorf("%w %q", actions.ErrUnknownAction, parts[0])
	}
	args := parts[1:]
	if len(args) < cmd.required || len(args) > len(cmd.args) {
		return "", nil, fmt.Errorf(
			"%w: %q takes %d to %d arguments, got %d",
			actions.ErrInvalidArgument, parts[0], cmd.required, len(cmd.args), len(args),
		)
	}

	values := url.Values{}
	for i, arg := range args {
		values.Set(cmd.args[i], arg)
	}
	return cmd.action, values, nil
}

func (h ActionHandler) execute(ctx context.Context, line string) wsMessage {
	msg := wsMessage{Command: line}
	action, values, err := parseCommand(line)
	if err == nil {
		msg.Result, err = h.dispatcher.Call(ctx, string(action), values)
	}
	if err != nil {
		e := wrapError(err)
		msg.Error, msg.Kind = e.Error, e.Kind
	}
	return msg
}

func (h ActionHandler) keepAlive(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(h.ws.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deadline := time.Now().Add(h.ws.WriteWait)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

func (h ActionHandler) Connect(w http.ResponseWriter, r *http.Request) {
	conn, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("unable to upgrade", slog.Any("error", err))
		return
	}
	defer conn.Close()

	h.logger.Debug("established WS connection", slog.String("remote_addr", r.RemoteAddr))

	conn.SetReadLimit(h.ws.ReadLimit)
	conn.SetReadDeadline(time.Now().Add(h.ws.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.ws.PongWait))
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go h.keepAlive(ctx, conn)

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("abnormal ws break", slog.Any("error", err))
			}
			return
		}
		if mt != websocket.TextMessage {
			return
		}

		text := strings.TrimSpace(string(message))
		h.logger.Debug(fmt.Sprintf("\t> %s", text))
		for _, line := range iterBySep(text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(h.ws.WriteWait))
			if err := conn.WriteJSON(h.execute(ctx, line)); err != nil {
				h.logger.Error("unable to write json", slog.Any("error", err))
				return
			}
		}
	}
}

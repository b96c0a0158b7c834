package app

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/vancomm/minesweeper-gym/internal/actions"
)

const maxLineSize = 1 << 20

type stdioRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type stdioResponse struct {
	Name   string `json:"name"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

func decodeRequest(line []byte) (stdioRequest, error) {
	var req stdioRequest
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("%w: malformed request: %s", actions.ErrInvalidArgument, err)
	}
	return req, nil
}

// ServeStdio answers one JSON request per input line with one JSON response
// line until in is exhausted or ctx is done.
func (a *App) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	enc := json.NewEncoder(out)

	a.logger.Info("serving actions on stdio")
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		req, err := decodeRequest(line)
		resp := stdioResponse{Name: req.Name}
		if err == nil {
			resp.Result, err = a.dispatcher.CallJSON(ctx, req.Name, req.Arguments)
		}
		if err != nil {
			if !actions.IsCallerError(err) {
				a.logger.Error("action failed", slog.String("action", req.Name), slog.Any("error", err))
			}
			resp.Error, resp.Kind = err.Error(), actions.ErrorKind(err)
		}

		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("unable to write response: %w", err)
		}
	}
	return scanner.Err()
}

package actions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-gym/internal/mines"
	"github.com/vancomm/minesweeper-gym/internal/session"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnknownAction   = fmt.Errorf("%w: unknown action", ErrInvalidArgument)
)

type Action string

const (
	Setup    Action = "setup"
	Reveal   Action = "reveal"
	Flag     Action = "flag"
	GetBoard Action = "get_board"
	Evaluate Action = "evaluate"
)

var all = []Action{Setup, Reveal, Flag, GetBoard, Evaluate}

func Names() []string {
	names := make([]string, len(all))
	for i, a := range all {
		names[i] = string(a)
	}
	return names
}

func ParseAction(s string) (Action, error) {
	for _, a := range all {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownAction, s)
}

// Recorder persists evaluated episodes.
type Recorder interface {
	RecordEpisode(ctx context.Context, episode session.Episode, eval session.Evaluation) error
}

// Defaults fill in setup arguments the caller leaves out.
type Defaults struct {
	Params mines.Params
	Seed   *int64
}

var StandardDefaults = Defaults{
	Params: mines.Params{Rows: 9, Cols: 9, MineCount: 10},
}

type Dispatcher struct {
	logger   *slog.Logger
	session  *session.Session
	recorder Recorder
	defaults Defaults
	decoder  *schema.Decoder
}

// New returns a dispatcher for s. recorder may be nil.
func New(
	logger *slog.Logger,
	s *session.Session,
	recorder Recorder,
	defaults Defaults,
) *Dispatcher {
	return &Dispatcher{
		logger:   logger,
		session:  s,
		recorder: recorder,
		defaults: defaults,
		decoder:  newDecoder(),
	}
}

func (d *Dispatcher) Session() *session.Session {
	return d.session
}

// CallJSON runs an action with tool-call style arguments.
func (d *Dispatcher) CallJSON(ctx context.Context, name string, args map[string]any) (any, error) {
	values, err := Values(args, nil)
	if err != nil {
		return nil, err
	}
	return d.Call(ctx, name, values)
}

func (d *Dispatcher) Call(ctx context.Context, name string, values url.Values) (any, error) {
	action, err := ParseAction(name)
	if err != nil {
		return nil, err
	}

	res, err := d.call(ctx, action, values)
	if err != nil {
		d.logger.Debug("action failed",
			slog.String("action", name),
			slog.String("kind", ErrorKind(err)),
			slog.Any("error", err),
		)
		return nil, err
	}
	d.logger.Debug("action", slog.String("action", name), slog.Any("args", values))
	return res, nil
}

func (d *Dispatcher) call(ctx context.Context, action Action, values url.Values) (any, error) {
	switch action {
	case Setup:
		args, err := decode[SetupArgs](d.decoder, values)
		if err != nil {
			return nil, err
		}
		return d.setup(args)
	case Reveal, Flag:
		args, err := decode[CellArgs](d.decoder, values)
		if err != nil {
			return nil, err
		}
		if err := args.validate(); err != nil {
			return nil, err
		}
		if action == Reveal {
			return d.session.Reveal(args.Row, args.Col)
		}
		return d.session.Flag(args.Row, args.Col)
	case GetBoard:
		return d.session.Board()
	case Evaluate:
		return d.evaluate(ctx)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownAction, action)
}

func (d *Dispatcher) setup(args SetupArgs) (session.Result, error) {
	if err := args.validate(); err != nil {
		return session.Result{}, err
	}

	params := d.defaults.Params
	if args.Rows != nil {
		params.Rows = *args.Rows
	}
	if args.Cols != nil {
		params.Cols = *args.Cols
	}
	if args.NumMines != nil {
		params.MineCount = *args.NumMines
	}
	seed := d.defaults.Seed
	if args.RandomSeed != nil {
		seed = args.RandomSeed
	}
	if args.Seed != nil {
		seed = args.Seed
	}

	res, err := d.session.Setup(params, seed, args.TaskID)
	if err != nil {
		return res, err
	}
	episode, _ := d.session.Episode()
	d.logger.Info("new game",
		slog.String("episode", episode.ID.String()),
		slog.String("task", args.TaskID),
		slog.String("params", params.String()),
		slog.Int64("seed", episode.Seed),
	)
	return res, nil
}

func (d *Dispatcher) evaluate(ctx context.Context) (session.Evaluation, error) {
	eval, episode, err := d.session.Evaluate()
	if err != nil {
		return eval, err
	}
	d.logger.Info("evaluated",
		slog.String("episode", eval.EpisodeID),
		slog.Float64("reward", eval.Reward.Reward),
		slog.Int("cells_revealed", eval.CellsRevealed),
		slog.Bool("won", eval.Won),
	)
	if d.recorder != nil {
		if err := d.recorder.RecordEpisode(ctx, episode, eval); err != nil {
			d.logger.Error("unable to record episode",
				slog.String("episode", eval.EpisodeID),
				slog.Any("error", err),
			)
		}
	}
	return eval, nil
}

func ErrorKind(err error) string {
	switch {
	case errors.Is(err, mines.ErrInvalidConfiguration):
		return "invalid_configuration"
	case errors.Is(err, mines.ErrOutOfBounds):
		return "out_of_bounds"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, session.ErrNotSetup):
		return "not_setup"
	}
	return "internal"
}

// IsCallerError reports whether err is part of the action error taxonomy,
// as opposed to a failure of the environment itself.
func IsCallerError(err error) bool {
	return ErrorKind(err) != "internal"
}

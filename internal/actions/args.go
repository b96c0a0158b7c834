package actions

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/gorilla/schema"
)

const MaxDimension = 256

type SetupArgs struct {
	Rows       *int   `schema:"rows"`
	Cols       *int   `schema:"cols"`
	NumMines   *int   `schema:"num_mines"`
	Seed       *int64 `schema:"seed"`
	RandomSeed *int64 `schema:"random_seed"`
	TaskID     string `schema:"task_id"`
}

func (a SetupArgs) validate() error {
	for name, v := range map[string]*int{"rows": a.Rows, "cols": a.Cols} {
		if v != nil && *v > MaxDimension {
			return fmt.Errorf("%w: %s must be at most %d", ErrInvalidArgument, name, MaxDimension)
		}
	}
	if a.NumMines != nil && *a.NumMines > MaxDimension*MaxDimension {
		return fmt.Errorf("%w: num_mines must be at most %d", ErrInvalidArgument, MaxDimension*MaxDimension)
	}
	if a.Seed != nil && a.RandomSeed != nil && *a.Seed != *a.RandomSeed {
		return fmt.Errorf("%w: seed and random_seed disagree", ErrInvalidArgument)
	}
	return nil
}

type CellArgs struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

func (a CellArgs) validate() error {
	if a.Row < math.MinInt32 || a.Row > math.MaxInt32 || a.Col < math.MinInt32 || a.Col > math.MaxInt32 {
		return fmt.Errorf("%w: row and col must fit in 32 bits", ErrInvalidArgument)
	}
	return nil
}

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

func decode[T any](dec *schema.Decoder, src url.Values) (T, error) {
	var dst T
	if err := dec.Decode(&dst, src); err != nil {
		return dst, fmt.Errorf("%w: %s", ErrInvalidArgument, err)
	}
	return dst, nil
}

// Values flattens JSON tool-call arguments into form values, overriding
// any value already present in base. Only scalars are accepted.
func Values(args map[string]any, base url.Values) (url.Values, error) {
	values := url.Values{}
	for k, vs := range base {
		values[k] = append([]string(nil), vs...)
	}
	for k, v := range args {
		s, ok, err := scalar(v)
		if err != nil {
			return nil, fmt.Errorf("%w: argument %q %s", ErrInvalidArgument, k, err)
		}
		if !ok {
			values.Del(k)
			continue
		}
		values.Set(k, s)
	}
	return values, nil
}

func scalar(v any) (string, bool, error) {
	switch v := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	case bool:
		return strconv.FormatBool(v), true, nil
	case int:
		return strconv.Itoa(v), true, nil
	case int64:
		return strconv.FormatInt(v, 10), true, nil
	case float64:
		return formatFloat(v), true, nil
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return v.String(), true, nil
		}
		f, err := v.Float64()
		if err != nil {
			return "", false, fmt.Errorf("is not a number")
		}
		return formatFloat(f), true, nil
	}
	return "", false, fmt.Errorf("must be a scalar, got %T", v)
}

// formatFloat keeps integral values such as 4.0 decodable as integers.
func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

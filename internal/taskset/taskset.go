// Package taskset builds the training tasks an orchestrator plays against
// the environment: each task names the board to set up and how to score it.
package taskset

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/vancomm/minesweeper-gym/internal/mines"
)

const (
	DefaultBaseSeed = 42
	DefaultImage    = "minesweeper:dev"
)

type Difficulty struct {
	Name   string       `yaml:"name"`
	Params mines.Params `yaml:",inline"`
	Count  int          `yaml:"count"`
}

var DefaultDifficulties = []Difficulty{
	{Name: "easy", Params: mines.Params{Rows: 5, Cols: 5, MineCount: 3}, Count: 10},
	{Name: "medium", Params: mines.Params{Rows: 7, Cols: 7, MineCount: 7}, Count: 10},
	{Name: "hard", Params: mines.Params{Rows: 9, Cols: 9, MineCount: 10}, Count: 10},
}

// Task is one row of the dataset. Nested objects are stored as JSON strings.
type Task struct {
	ID           string `json:"id" yaml:"id"`
	Prompt       string `json:"prompt" yaml:"prompt"`
	MCPConfig    string `json:"mcp_config" yaml:"mcp_config"`
	SetupTool    string `json:"setup_tool" yaml:"setup_tool"`
	EvaluateTool string `json:"evaluate_tool" yaml:"evaluate_tool"`
	Metadata     string `json:"metadata" yaml:"metadata"`
}

type toolCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type server struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

type metadata struct {
	Difficulty string `json:"difficulty"`
	BoardSize  string `json:"board_size"`
	NumMines   int    `json:"num_mines"`
	TaskNumber int    `json:"task_number"`
	Answer     string `json:"answer"`
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// Generate numbers tasks across all difficulties from 1 and seeds task n
// with baseSeed+n. image is the container the orchestrator runs with -i.
func Generate(difficulties []Difficulty, baseSeed int64, image string) ([]Task, error) {
	mcpConfig := mustJSON(map[string]server{
		"minesweeper": {Command: "docker", Args: []string{"run", "--rm", "-i", image}},
	})
	evaluateTool := mustJSON(toolCall{Name: "evaluate", Arguments: map[string]any{}})

	tasks := make([]Task, 0)
	n := 0
	for _, d := range difficulties {
		if err := d.Params.Validate(); err != nil {
			return nil, fmt.Errorf("difficulty %q: %w", d.Name, err)
		}
		for i := range d.Count {
			n++
			p := d.Params
			tasks = append(tasks, Task{
				ID: fmt.Sprintf("minesweeper_%s_%d", d.Name, n),
				Prompt: fmt.Sprintf(
					"Play Minesweeper on a %dx%d board with %d mines. Try to reveal as many safe cells as possible without hitting any mines.",
					p.Rows, p.Cols, p.MineCount,
				),
				MCPConfig: mcpConfig,
				SetupTool: mustJSON(toolCall{Name: "setup", Arguments: map[string]any{
					"rows":        p.Rows,
					"cols":        p.Cols,
					"num_mines":   p.MineCount,
					"random_seed": baseSeed + int64(n),
				}}),
				EvaluateTool: evaluateTool,
				Metadata: mustJSON(metadata{
					Difficulty: d.Name,
					BoardSize:  fmt.Sprintf("%dx%d", p.Rows, p.Cols),
					NumMines:   p.MineCount,
					TaskNumber: i + 1,
				}),
			})
		}
	}
	return tasks, nil
}

type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatJSONL, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want json, jsonl or yaml)", s)
}

func Write(w io.Writer, tasks []Task, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case FormatJSONL:
		enc := json.NewEncoder(w)
		for _, task := range tasks {
			if err := enc.Encode(task); err != nil {
				return err
			}
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q", format)
}

// LoadDifficulties reads a YAML list of difficulties, e.g.
//
//	- name: expert
//	  rows: 16
//	  cols: 16
//	  num_mines: 40
//	  count: 5
func LoadDifficulties(r io.Reader) ([]Difficulty, error) {
	var difficulties []Difficulty
	if err := yaml.NewDecoder(r).Decode(&difficulties); err != nil {
		return nil, fmt.Errorf("unable to parse difficulties: %w", err)
	}
	return difficulties, nil
}

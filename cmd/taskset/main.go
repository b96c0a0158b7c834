package main

import (
	"flag"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-gym/internal/taskset"
)

var (
	log = logrus.New()

	out          string
	format       string
	baseSeed     int64
	image        string
	difficulties string
)

func init() {
	flag.StringVar(&out, "out", "-", "output file, - for stdout")
	flag.StringVar(&format, "format", "jsonl", "output format: json, jsonl or yaml")
	flag.Int64Var(&baseSeed, "seed", taskset.DefaultBaseSeed, "base seed; task n is set up with seed+n")
	flag.StringVar(&image, "image", taskset.DefaultImage, "environment container image")
	flag.StringVar(&difficulties, "difficulties", "", "YAML file of difficulties (default easy, medium and hard)")
}

func loadDifficulties() []taskset.Difficulty {
	if difficulties == "" {
		return taskset.DefaultDifficulties
	}
	f, err := os.Open(difficulties)
	if err != nil {
		log.Fatal("unable to open difficulties: ", err)
	}
	defer f.Close()
	ds, err := taskset.LoadDifficulties(f)
	if err != nil {
		log.Fatal(err)
	}
	return ds
}

func main() {
	flag.Parse()
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	f, err := taskset.ParseFormat(format)
	if err != nil {
		log.Fatal(err)
	}

	tasks, err := taskset.Generate(loadDifficulties(), baseSeed, image)
	if err != nil {
		log.Fatal("unable to generate tasks: ", err)
	}

	var w io.Writer = os.Stdout
	if out != "-" {
		file, err := os.Create(out)
		if err != nil {
			log.Fatal("unable to create output: ", err)
		}
		defer file.Close()
		w = file
	}

	if err := taskset.Write(w, tasks, f); err != nil {
		log.Fatal("unable to write tasks: ", err)
	}
	log.WithFields(logrus.Fields{
		"tasks":  len(tasks),
		"format": f,
		"out":    out,
	}).Info("created minesweeper taskset")
}

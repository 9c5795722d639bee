package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/tracklabel/pkg/storage"
	"github.com/cyclopcam/tracklabel/pkg/track"
)

// Convert tracker output into a Label Studio prediction, eg
// tracklabel -i Abuse029_x264.txt -o Abuse029_x264.json
func main() {
	parser := argparse.NewParser("tracklabel", "Convert object tracker output into Label Studio video rectangles")
	input := parser.String("i", "input", &argparse.Options{Help: "Tracker output file (local path or gs://bucket/path)", Required: true})
	output := parser.String("o", "output", &argparse.Options{Help: "Output JSON file. Default is stdout", Default: ""})
	sortFrames := parser.Flag("", "sort", &argparse.Options{Help: "Sort each track by frame number before splitting it into runs", Default: false})
	mergeRuns := parser.Flag("", "merge", &argparse.Options{Help: "Emit one region per track, instead of one region per contiguous run", Default: false})
	pretty := parser.Flag("", "pretty", &argparse.Options{Help: "Indent the output JSON", Default: false})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	if err := run(logger, *input, *output, track.Options{SortFrames: *sortFrames, MergeRuns: *mergeRuns}, *pretty); err != nil {
		logger.Errorf("%v", err)
		logger.Close()
		os.Exit(1)
	}
}

func run(logger logs.Log, input, output string, options track.Options, pretty bool) error {
	src, err := storage.Open(context.Background(), logger, input)
	if err != nil {
		return err
	}
	defer src.Close()

	result, err := track.Process(src, options)
	if err != nil {
		return fmt.Errorf("Failed to convert %v: %w", input, err)
	}
	logger.Infof("%v regions, %v keyframes", len(result.Result), result.NumKeyframes())

	var dst io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		dst = f
	}

	encoder := json.NewEncoder(dst)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(result)
}

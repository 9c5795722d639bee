// Package track converts per-frame object tracker output into Label Studio
// video rectangle predictions.
//
// The tracker writes one line per detection:
//
//	frame,object_id,x,y,width,height,_,_,_,_,label,class_id
//
// Detections are grouped by (object_id, class_id), each group is split into runs
// of consecutive frames, and each run becomes a keyframe sequence whose 'enabled'
// flags tell the front-end where to interpolate.
package track

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Maximum length of a single line of tracker output
const maxLineBytes = 1024 * 1024

type Options struct {
	SortFrames bool // Stable-sort each object's detections by frame before splitting into runs. The tracker normally emits frames in order.
	MergeRuns  bool // Emit one region per object instead of one region per run
}

// Fingerprint identifies the output layout produced by these options, eg "sort=false,merge=true".
// Results produced with different fingerprints are not interchangeable.
func (o Options) Fingerprint() string {
	return fmt.Sprintf("sort=%v,merge=%v", o.SortFrames, o.MergeRuns)
}

// ReadDetections parses every line of source.
// Blank lines are skipped. The first malformed line aborts the read.
func ReadDetections(source io.Reader) ([]Detection, error) {
	scanner := bufio.NewScanner(source)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	detections := []Detection{}
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		d, err := ParseDetection(line)
		if err != nil {
			var mErr *MalformedRecordError
			if errors.As(err, &mErr) {
				mErr.Line = lineNum
			}
			return nil, err
		}
		detections = append(detections, d)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &MalformedRecordError{Line: lineNum + 1, Reason: "line too long", Err: err}
		}
		return nil, fmt.Errorf("%w: %v", ErrResourceUnavailable, err)
	}
	return detections, nil
}

// Process reads tracker output from source and returns the Label Studio prediction.
// Process has no side effects, and returns no partial result on error.
func Process(source io.Reader, options Options) (*ResultCollection, error) {
	detections, err := ReadDetections(source)
	if err != nil {
		return nil, err
	}
	groups := GroupByIdentity(detections)
	if options.SortFrames {
		SortFrames(groups)
	}
	return Encode(groups, options), nil
}

// ProcessFile runs Process on a tracker output file
func ProcessFile(filename string, options Options) (*ResultCollection, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceUnavailable, err)
	}
	defer f.Close()
	return Process(f, options)
}

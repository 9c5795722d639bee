package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/tracklabel/pkg/kibi"
	"github.com/cyclopcam/tracklabel/pkg/shell"
	"github.com/cyclopcam/tracklabel/pkg/storage"
	"github.com/cyclopcam/tracklabel/pkg/track"
	"github.com/cyclopcam/tracklabel/pkg/workdir"
	"github.com/cyclopcam/tracklabel/server/predictiondb"
)

// Predictor turns a video URL into a Label Studio prediction:
// download the video, run the tracker on it, and convert the tracker output.
type Predictor struct {
	log          logs.Log
	tracker      TrackerConfig
	modelVersion string
	options      track.Options
	workDirs     *workdir.WorkDirs
	cache        *predictiondb.PredictionDB // May be nil
	storageCfg   StorageConfig
	maxVideo     int64 // Zero means no limit
}

func NewPredictor(log logs.Log, cfg *Config, cache *predictiondb.PredictionDB) (*Predictor, error) {
	maxVideo, err := cfg.MaxVideoBytes()
	if err != nil {
		return nil, err
	}
	workDirs, err := workdir.NewWorkDirs(cfg.WorkDir, 24*time.Hour)
	if err != nil {
		return nil, err
	}
	return &Predictor{
		log:          log,
		tracker:      cfg.Tracker,
		modelVersion: cfg.ModelVersion,
		options: track.Options{
			SortFrames: cfg.SortFrames,
			MergeRuns:  cfg.MergeRuns,
		},
		workDirs:   workDirs,
		cache:      cache,
		storageCfg: cfg.VideoStorage,
		maxVideo:   maxVideo,
	}, nil
}

// Predict runs the tracker on the video at videoURL (gs://bucket/path).
// The work directory is always removed, whether or not prediction succeeds.
func (p *Predictor) Predict(ctx context.Context, videoURL string) (*track.ResultCollection, error) {
	loc, err := storage.ParseURL(videoURL)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		cached, err := p.cache.Get(videoURL, p.modelVersion, p.options.Fingerprint())
		if err != nil {
			p.log.Warnf("Prediction cache lookup for %v failed: %v", videoURL, err)
		} else if cached != nil {
			p.log.Infof("Using cached prediction for %v (%v regions)", videoURL, len(cached.Result))
			return cached, nil
		}
	}

	dir, err := p.workDirs.New()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := p.workDirs.Remove(dir); err != nil {
			p.log.Errorf("Failed to remove work directory %v: %v", dir, err)
		}
	}()

	result, err := p.predictInDir(ctx, loc, dir)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		if err := p.cache.Put(videoURL, p.modelVersion, p.options.Fingerprint(), result); err != nil {
			p.log.Warnf("Failed to cache prediction for %v: %v", videoURL, err)
		}
	}
	return result, nil
}

func (p *Predictor) predictInDir(ctx context.Context, loc storage.Location, dir string) (*track.ResultCollection, error) {
	store, closeStore, err := p.openStorage(loc.Bucket)
	if err != nil {
		return nil, fmt.Errorf("Failed to open storage for bucket %v: %w", loc.Bucket, err)
	}
	defer closeStore()

	videoFile := filepath.Join(dir, loc.Name)
	start := time.Now()
	nBytes, err := storage.Download(ctx, store, loc.Path, videoFile, p.maxVideo)
	if err != nil {
		return nil, fmt.Errorf("%w: Failed to download %v: %w", track.ErrResourceUnavailable, loc, err)
	}
	p.log.Infof("Downloaded %v (%v) in %.1f seconds", loc, kibi.FormatBytes(nBytes), time.Since(start).Seconds())

	outputBase := filepath.Join(dir, strings.TrimSuffix(loc.Name, filepath.Ext(loc.Name))+"_results")
	if err := p.runTracker(ctx, videoFile, outputBase); err != nil {
		return nil, err
	}

	result, err := track.ProcessFile(outputBase+p.tracker.OutputSuffix, p.options)
	if err != nil {
		return nil, err
	}
	p.log.Infof("Tracker found %v regions (%v keyframes) in %v", len(result.Result), result.NumKeyframes(), loc)
	return result, nil
}

func (p *Predictor) runTracker(ctx context.Context, source, output string) error {
	if timeout := p.tracker.Timeout(); timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	args := TrackerArgs(p.tracker.Args, source, output)
	p.log.Infof("Running tracker: %v %v", p.tracker.Command, strings.Join(args, " "))
	start := time.Now()
	if _, err := shell.RunContext(ctx, p.tracker.Command, args...); err != nil {
		return fmt.Errorf("Tracker failed: %w", err)
	}
	p.log.Infof("Tracker finished in %.1f seconds", time.Since(start).Seconds())
	return nil
}

// TrackerArgs substitutes {source} and {output} into the tracker's argument list
func TrackerArgs(template []string, source, output string) []string {
	r := strings.NewReplacer("{source}", source, "{output}", output)
	args := make([]string, len(template))
	for i, a := range template {
		args[i] = r.Replace(a)
	}
	return args
}

// openStorage returns the blob store that holds 'bucket', and a function to release it
func (p *Predictor) openStorage(bucket string) (storage.Storage, func(), error) {
	if p.storageCfg.GCS != nil {
		s, err := storage.NewStorageGCS(p.log, bucket, p.storageCfg.GCS.Public)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}
	if strings.Contains(bucket, "..") {
		return nil, nil, fmt.Errorf("%w: bucket %v", storage.ErrInvalidName, bucket)
	}
	root := filepath.Join(p.storageCfg.Filesystem.Root, bucket)
	if _, err := os.Stat(root); err != nil {
		return nil, nil, err
	}
	s, err := storage.NewStorageFS(p.log, root)
	if err != nil {
		return nil, nil, err
	}
	return s, func() {}, nil
}

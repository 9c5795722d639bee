package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cyclopcam/tracklabel/pkg/kibi"
)

const DefaultConfigFile = "tracklabel.json"

type Config struct {
	Listen           string        `json:"listen"`           // eg ":9090"
	WorkDir          string        `json:"workDir"`          // Scratch space for downloaded videos and tracker output
	PredictionDB     string        `json:"predictionDB"`     // Path to the sqlite prediction cache. Empty disables the cache.
	PredictionMaxAge int           `json:"predictionMaxAge"` // Days. Older cached predictions are purged at startup. Zero keeps them forever.
	ModelVersion     string        `json:"modelVersion"`     // Reported to Label Studio, and part of the cache key
	PredictRateLimit int           `json:"predictRateLimit"` // Max /predict requests per minute, per client IP
	SortFrames       bool          `json:"sortFrames"`       // See track.Options
	MergeRuns        bool          `json:"mergeRuns"`        // See track.Options
	MaxVideoSize     string        `json:"maxVideoSize"`     // eg "4 GB". Larger videos are not downloaded. Empty means no limit.
	Tracker          TrackerConfig `json:"tracker"`
	VideoStorage     StorageConfig `json:"videoStorage"`
}

// TrackerConfig is the external object tracker that we run on each video.
// The placeholders {source} and {output} in Args are replaced with the downloaded
// video path, and the output path (without OutputSuffix).
type TrackerConfig struct {
	Command        string   `json:"command"`        // eg "python3"
	Args           []string `json:"args"`           // eg ["yolov8_tracking/track.py", "--source", "{source}", "--save-txt", "--save-txt-path", "{output}"]
	OutputSuffix   string   `json:"outputSuffix"`   // The tracker appends this to {output}. Default ".txt"
	TimeoutSeconds int      `json:"timeoutSeconds"` // Kill the tracker if it runs longer than this. Zero means no limit.
}

// One of the storage options must be configured (i.e. either 'filesystem' or 'gcs').
// Video URLs are always gs://bucket/path. With 'filesystem', the bucket is a directory under Root.
type StorageConfig struct {
	Filesystem *StorageConfigFS  `json:"filesystem"`
	GCS        *StorageConfigGCS `json:"gcs"`
}

type StorageConfigFS struct {
	Root string `json:"root"`
}

type StorageConfigGCS struct {
	Public bool `json:"public"` // Use an anonymous client (only works for public buckets)
}

func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		Command:      "python3",
		Args:         []string{"yolov8_tracking/track.py", "--source", "{source}", "--save-txt", "--save-txt-path", "{output}"},
		OutputSuffix: ".txt",
	}
}

func LoadConfig(filename string) (*Config, error) {
	if filename == "" {
		filename = DefaultConfigFile
	}
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("Error loading %v: %w", filename, err)
	}
	cfg := &Config{}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("Error parsing config file %v: %w", filename, err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("Invalid config file %v: %w", filename, err)
	}
	return cfg, nil
}

func (c *Config) SetDefaults() {
	def := DefaultTrackerConfig()
	if c.Listen == "" {
		c.Listen = ":9090"
	}
	if c.WorkDir == "" {
		c.WorkDir = filepath.Join(os.TempDir(), "tracklabel")
	}
	if c.ModelVersion == "" {
		c.ModelVersion = "yolov8"
	}
	if c.PredictRateLimit == 0 {
		c.PredictRateLimit = 30
	}
	if c.Tracker.Command == "" {
		c.Tracker.Command = def.Command
		if len(c.Tracker.Args) == 0 {
			c.Tracker.Args = def.Args
		}
	}
	if c.Tracker.OutputSuffix == "" {
		c.Tracker.OutputSuffix = def.OutputSuffix
	}
}

func (c *Config) Validate() error {
	if c.VideoStorage.Filesystem == nil && c.VideoStorage.GCS == nil {
		return fmt.Errorf("One of the storage options must be configured (i.e. either 'filesystem' or 'gcs')")
	}
	if c.VideoStorage.Filesystem != nil && c.VideoStorage.Filesystem.Root == "" {
		return fmt.Errorf("videoStorage.filesystem.root is empty")
	}
	if _, err := c.MaxVideoBytes(); err != nil {
		return fmt.Errorf("maxVideoSize: %w", err)
	}
	if c.PredictionMaxAge < 0 {
		return fmt.Errorf("predictionMaxAge may not be negative")
	}
	if c.Tracker.TimeoutSeconds < 0 {
		return fmt.Errorf("tracker.timeoutSeconds may not be negative")
	}
	return nil
}

// MaxVideoBytes returns the parsed MaxVideoSize, or zero if there is no limit
func (c *Config) MaxVideoBytes() (int64, error) {
	if c.MaxVideoSize == "" {
		return 0, nil
	}
	return kibi.ParseBytes(c.MaxVideoSize)
}

func (t *TrackerConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

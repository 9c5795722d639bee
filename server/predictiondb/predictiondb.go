package predictiondb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cyclopcam/dbh"
	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/tracklabel/pkg/track"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PredictionDB caches tracker results, because running the tracker over a video
// takes minutes, and Label Studio asks for the same prediction repeatedly.
type PredictionDB struct {
	Log logs.Log
	DB  *gorm.DB
}

// Open or create a prediction DB
func NewPredictionDB(log logs.Log, dbFilename string) (*PredictionDB, error) {
	if err := os.MkdirAll(filepath.Dir(dbFilename), 0770); err != nil {
		return nil, fmt.Errorf("Failed to create prediction DB directory: %w", err)
	}
	log.Infof("Opening prediction DB at '%v'", dbFilename)
	db, err := dbh.OpenDB(log, dbh.MakeSqliteConfig(dbFilename), Migrations(log), 0)
	if err != nil {
		return nil, fmt.Errorf("Failed to open prediction database %v: %w", dbFilename, err)
	}
	return &PredictionDB{
		Log: log,
		DB:  db,
	}, nil
}

func (p *PredictionDB) Close() {
	if sqlDB, err := p.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

// Get returns the cached result, or nil if there is none.
// options is track.Options.Fingerprint() of the options that the result must have been produced with.
func (p *PredictionDB) Get(videoURL, modelVersion, options string) (*track.ResultCollection, error) {
	pred := Prediction{}
	err := p.DB.Where("video_url = ? AND model_version = ? AND options = ?", videoURL, modelVersion, options).First(&pred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	if pred.Result == nil {
		return nil, nil
	}
	return &pred.Result.Data, nil
}

// Put inserts or replaces the cached result
func (p *PredictionDB) Put(videoURL, modelVersion, options string, result *track.ResultCollection) error {
	var resultJSON dbh.JSONField[track.ResultCollection]
	resultJSON.Data = *result
	pred := &Prediction{
		VideoURL:     videoURL,
		ModelVersion: modelVersion,
		Options:      options,
		CreatedAt:    dbh.MakeIntTime(time.Now()),
		NumRegions:   len(result.Result),
		Result:       &resultJSON,
	}
	return p.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(pred).Error
}

// Purge removes cached results older than maxAge, and returns the number removed
func (p *PredictionDB) Purge(maxAge time.Duration) (int64, error) {
	cutoff := dbh.MakeIntTime(time.Now().Add(-maxAge))
	res := p.DB.Where("created_at < ?", cutoff).Delete(&Prediction{})
	return res.RowsAffected, res.Error
}

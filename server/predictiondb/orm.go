package predictiondb

import (
	"github.com/cyclopcam/dbh"
	"github.com/cyclopcam/tracklabel/pkg/track"
)

// Prediction is a cached tracker result for one video
type Prediction struct {
	VideoURL     string                                 `gorm:"primaryKey" json:"videoURL"`
	ModelVersion string                                 `gorm:"primaryKey" json:"modelVersion"`
	Options      string                                 `gorm:"primaryKey" json:"options"` // track.Options.Fingerprint()
	CreatedAt    dbh.IntTime                            `json:"createdAt"`
	NumRegions   int                                    `json:"numRegions"`
	Result       *dbh.JSONField[track.ResultCollection] `json:"result"`
}

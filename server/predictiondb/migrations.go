package predictiondb

import (
	"github.com/BurntSushi/migration"
	"github.com/cyclopcam/dbh"
	"github.com/cyclopcam/logs"
)

func Migrations(log logs.Log) []migration.Migrator {
	migs := []migration.Migrator{}
	idx := 0

	migs = append(migs, dbh.MakeMigrationFromSQL(log, &idx,
		`
		CREATE TABLE prediction(
			video_url TEXT NOT NULL,
			model_version TEXT NOT NULL,
			created_at INT NOT NULL,
			num_regions INT NOT NULL,
			result TEXT NOT NULL,
			PRIMARY KEY (video_url, model_version)
		);
	`))

	migs = append(migs, dbh.MakeMigrationFromSQL(log, &idx,
		`
		CREATE INDEX idx_prediction_created_at ON prediction(created_at);
	`))

	// Results depend on the output options (see track.Options.Fingerprint), so they are part of the key.
	// Old entries have unknown options, and this is only a cache, so start afresh.
	migs = append(migs, dbh.MakeMigrationFromSQL(log, &idx,
		`
		DROP TABLE prediction;

		CREATE TABLE prediction(
			video_url TEXT NOT NULL,
			model_version TEXT NOT NULL,
			options TEXT NOT NULL,
			created_at INT NOT NULL,
			num_regions INT NOT NULL,
			result TEXT NOT NULL,
			PRIMARY KEY (video_url, model_version, options)
		);

		CREATE INDEX idx_prediction_created_at ON prediction(created_at);
	`))

	return migs
}

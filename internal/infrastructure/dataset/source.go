package dataset

import (
	"github.com/turtacn/precinct-analytics/internal/config"
	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/precinct-analytics/pkg/errors"
)

// NewSource picks the dataset source named by cfg.  db is required only for
// the postgres source.
func NewSource(cfg config.DatasetConfig, db Querier, log logging.Logger) (precinct.Source, error) {
	switch cfg.Source {
	case config.DatasetSourceFile, "":
		if cfg.Path == "" {
			return nil, errors.InvalidParam("dataset.path is required for the file source")
		}
		return NewFileSource(cfg.Path, log), nil
	case config.DatasetSourcePostgres:
		if db == nil {
			return nil, errors.InvalidParam("database connection is required for the postgres source")
		}
		return NewPostgresSource(db, log), nil
	default:
		return nil, errors.InvalidParam("unsupported dataset source").WithDetail(cfg.Source)
	}
}

//Personal.AI order the ending

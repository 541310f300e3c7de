package dataset

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"

	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/database/postgres"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/precinct-analytics/pkg/errors"
)

const (
	selectJurisdictions = `SELECT id, name, type FROM jurisdictions ORDER BY id`
	selectPrecincts     = `SELECT id, COALESCE(jurisdiction_id, ''), payload FROM precincts ORDER BY id`

	upsertJurisdiction = `
		INSERT INTO jurisdictions (id, name, type) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, type = EXCLUDED.type`
	upsertPrecinct = `
		INSERT INTO precincts (id, jurisdiction_id, payload, updated_at) VALUES ($1, NULLIF($2, ''), $3, NOW())
		ON CONFLICT (id) DO UPDATE SET jurisdiction_id = EXCLUDED.jurisdiction_id, payload = EXCLUDED.payload, updated_at = NOW()`
)

// Querier runs read queries; *pgxpool.Pool and pgx.Tx satisfy it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource loads the dataset from the jurisdictions and precincts
// tables.  Each precinct row carries its full record as a JSONB payload.
type PostgresSource struct {
	db     Querier
	logger logging.Logger
}

// NewPostgresSource returns a source over db.
func NewPostgresSource(db Querier, log logging.Logger) *PostgresSource {
	return &PostgresSource{db: db, logger: logging.OrNop(log)}
}

// Load reads both tables.
func (s *PostgresSource) Load(ctx context.Context) (*precinct.Dataset, error) {
	jurisdictions, err := s.loadJurisdictions(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.loadPrecincts(ctx)
	if err != nil {
		return nil, err
	}
	ds := precinct.NewDataset(records, jurisdictions)
	s.logger.Info("dataset loaded",
		logging.String("source", "postgres"),
		logging.Int("precincts", ds.Len()),
		logging.Int("jurisdictions", len(jurisdictions)),
	)
	return ds, nil
}

func (s *PostgresSource) loadJurisdictions(ctx context.Context) ([]precinct.Jurisdiction, error) {
	rows, err := s.db.Query(ctx, selectJurisdictions)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "failed to query jurisdictions")
	}
	defer rows.Close()

	var out []precinct.Jurisdiction
	for rows.Next() {
		var j precinct.Jurisdiction
		if err := rows.Scan(&j.ID, &j.Name, &j.Type); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDataSourceParseError, "failed to scan jurisdiction")
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "failed to read jurisdictions")
	}
	return out, nil
}

func (s *PostgresSource) loadPrecincts(ctx context.Context) ([]precinct.Record, error) {
	rows, err := s.db.Query(ctx, selectPrecincts)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "failed to query precincts")
	}
	defer rows.Close()

	var out []precinct.Record
	for rows.Next() {
		var (
			id, jurisdictionID string
			payload            []byte
		)
		if err := rows.Scan(&id, &jurisdictionID, &payload); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDataSourceParseError, "failed to scan precinct")
		}
		var rec precinct.Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDataSourceParseError, "failed to decode precinct payload").WithDetail(id)
		}
		rec.ID = id
		if jurisdictionID != "" {
			rec.JurisdictionID = jurisdictionID
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "failed to read precincts")
	}
	return out, nil
}

// Import upserts every jurisdiction and precinct of ds in one transaction and
// returns the number of precincts written.
func Import(ctx context.Context, db postgres.TxBeginner, ds *precinct.Dataset, log logging.Logger) (int, error) {
	written := 0
	err := postgres.WithTransaction(ctx, db, pgx.TxOptions{}, func(tx pgx.Tx, ctx context.Context) error {
		for _, j := range ds.Jurisdictions() {
			if _, err := tx.Exec(ctx, upsertJurisdiction, j.ID, j.Name, j.Type); err != nil {
				return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to upsert jurisdiction").WithDetail(j.ID)
			}
		}
		for _, r := range ds.Records() {
			payload, err := json.Marshal(r)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode precinct").WithDetail(r.ID)
			}
			if _, err := tx.Exec(ctx, upsertPrecinct, r.ID, r.JurisdictionID, payload); err != nil {
				return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to upsert precinct").WithDetail(r.ID)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	logging.OrNop(log).Info("dataset imported", logging.Int("precincts", written))
	return written, nil
}

//Personal.AI order the ending

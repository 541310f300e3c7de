// Package dataset implements precinct.Source over a YAML/JSON file and over
// PostgreSQL, and imports file datasets into the database.
package dataset

import (
	"context"
	"os"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/precinct-analytics/pkg/errors"
)

// fileDocument is the on-disk layout.  JSON is valid YAML, so one decoder
// serves both.  Election history is a list so years need no string keys.
type fileDocument struct {
	Jurisdictions []precinct.Jurisdiction `yaml:"jurisdictions"`
	Precincts     []filePrecinct          `yaml:"precincts"`
}

type filePrecinct struct {
	ID               string                        `yaml:"id"`
	Name             string                        `yaml:"name"`
	JurisdictionID   string                        `yaml:"jurisdiction_id"`
	JurisdictionName string                        `yaml:"jurisdiction_name"`
	JurisdictionType string                        `yaml:"jurisdiction_type"`
	Demographics     precinct.Demographics         `yaml:"demographics"`
	Political        precinct.PoliticalAffiliation `yaml:"political"`
	Electoral        precinct.ElectoralMetrics     `yaml:"electoral"`
	Targeting        precinct.TargetingScores      `yaml:"targeting"`
	ElectionHistory  []precinct.ElectionResult     `yaml:"election_history"`
	Engagement       *precinct.EngagementMetrics   `yaml:"engagement"`
	Tapestry         *precinct.TapestryProfile     `yaml:"tapestry"`
}

func (p *filePrecinct) record() precinct.Record {
	r := precinct.Record{
		ID:               p.ID,
		Name:             p.Name,
		JurisdictionID:   p.JurisdictionID,
		JurisdictionName: p.JurisdictionName,
		JurisdictionType: p.JurisdictionType,
		Demographics:     p.Demographics,
		Political:        p.Political,
		Electoral:        p.Electoral,
		Targeting:        p.Targeting,
		Engagement:       p.Engagement,
		Tapestry:         p.Tapestry,
	}
	if len(p.ElectionHistory) > 0 {
		r.ElectionHistory = make(map[int]precinct.ElectionResult, len(p.ElectionHistory))
		for _, res := range p.ElectionHistory {
			r.ElectionHistory[res.Year] = res
		}
	}
	return r
}

func fromRecord(r *precinct.Record) filePrecinct {
	p := filePrecinct{
		ID:               r.ID,
		Name:             r.Name,
		JurisdictionID:   r.JurisdictionID,
		JurisdictionName: r.JurisdictionName,
		JurisdictionType: r.JurisdictionType,
		Demographics:     r.Demographics,
		Political:        r.Political,
		Electoral:        r.Electoral,
		Targeting:        r.Targeting,
		Engagement:       r.Engagement,
		Tapestry:         r.Tapestry,
		ElectionHistory:  r.HistoryDescending(),
	}
	return p
}

// FileSource loads the dataset from a YAML or JSON document.
type FileSource struct {
	path   string
	logger logging.Logger
}

// NewFileSource returns a source reading path.
func NewFileSource(path string, log logging.Logger) *FileSource {
	return &FileSource{path: path, logger: logging.OrNop(log)}
}

// Load reads and indexes the file.
func (s *FileSource) Load(ctx context.Context) (*precinct.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "failed to read dataset file").WithDetail(s.path)
	}
	ds, err := Decode(data)
	if err != nil {
		return nil, err
	}
	s.logger.Info("dataset loaded",
		logging.String("source", "file"),
		logging.String("path", s.path),
		logging.Int("precincts", ds.Len()),
	)
	return ds, nil
}

// Decode parses a YAML or JSON dataset document.
func Decode(data []byte) (*precinct.Dataset, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceParseError, "failed to parse dataset document")
	}
	records := make([]precinct.Record, 0, len(doc.Precincts))
	for i := range doc.Precincts {
		if doc.Precincts[i].ID == "" {
			return nil, errors.New(errors.ErrCodeDataSourceParseError, "precinct without id").
				WithDetail(doc.Precincts[i].Name)
		}
		records = append(records, doc.Precincts[i].record())
	}
	return precinct.NewDataset(records, doc.Jurisdictions), nil
}

// Encode renders ds as a YAML document that Decode reads back.
func Encode(ds *precinct.Dataset) ([]byte, error) {
	doc := fileDocument{}
	for _, j := range ds.Jurisdictions() {
		doc.Jurisdictions = append(doc.Jurisdictions, *j)
	}
	sort.Slice(doc.Jurisdictions, func(i, j int) bool { return doc.Jurisdictions[i].ID < doc.Jurisdictions[j].ID })
	for _, r := range ds.Records() {
		doc.Precincts = append(doc.Precincts, fromRecord(r))
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode dataset")
	}
	return out, nil
}

//Personal.AI order the ending

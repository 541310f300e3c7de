package precinct

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// DefaultSampleSize is the number of sample identifiers suggested in
// not-found errors.
const DefaultSampleSize = 5

// Source supplies the full precinct dataset at engine construction time.
type Source interface {
	Load(ctx context.Context) (*Dataset, error)
}

// Dataset is the immutable, indexed set of precinct records and jurisdictions.
// It is never mutated after NewDataset returns and is safe for concurrent use.
type Dataset struct {
	records       []*Record
	byID          map[string]*Record
	byName        map[string]*Record
	jurisdictions []*Jurisdiction
	jurByID       map[string]*Jurisdiction
	jurByName     map[string]*Jurisdiction
	members       map[string][]*Record
}

// NewDataset indexes records and jurisdictions.  Records are copied so later
// changes to the caller's slice cannot leak in.  Jurisdictions referenced by a
// record but absent from the list are synthesized from the record's
// jurisdiction fields.  When two records share a folded name the first one in
// id order wins name lookups.
func NewDataset(records []Record, jurisdictions []Jurisdiction) *Dataset {
	ds := &Dataset{
		byID:      make(map[string]*Record, len(records)),
		byName:    make(map[string]*Record, len(records)),
		jurByID:   make(map[string]*Jurisdiction),
		jurByName: make(map[string]*Jurisdiction),
		members:   make(map[string][]*Record),
	}

	for i := range jurisdictions {
		j := jurisdictions[i]
		ds.addJurisdiction(&j)
	}

	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for i := range sorted {
		rec := sorted[i]
		if rec.ID == "" {
			continue
		}
		if _, dup := ds.byID[rec.ID]; dup {
			continue
		}
		r := &rec
		ds.records = append(ds.records, r)
		ds.byID[r.ID] = r
		if key := Fold(r.Name); key != "" {
			if _, taken := ds.byName[key]; !taken {
				ds.byName[key] = r
			}
		}
		if r.JurisdictionID == "" {
			continue
		}
		if _, ok := ds.jurByID[r.JurisdictionID]; !ok {
			name := r.JurisdictionName
			if name == "" {
				name = r.JurisdictionID
			}
			ds.addJurisdiction(&Jurisdiction{ID: r.JurisdictionID, Name: name, Type: r.JurisdictionType})
		}
		ds.members[r.JurisdictionID] = append(ds.members[r.JurisdictionID], r)
	}

	sort.Slice(ds.jurisdictions, func(i, j int) bool {
		return ds.jurisdictions[i].Name < ds.jurisdictions[j].Name
	})
	return ds
}

func (ds *Dataset) addJurisdiction(j *Jurisdiction) {
	if j.ID == "" {
		return
	}
	if _, dup := ds.jurByID[j.ID]; dup {
		return
	}
	ds.jurisdictions = append(ds.jurisdictions, j)
	ds.jurByID[j.ID] = j
	if key := Fold(j.Name); key != "" {
		if _, taken := ds.jurByName[key]; !taken {
			ds.jurByName[key] = j
		}
	}
}

// Fold normalizes an identifier for case-insensitive exact matching.
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Len returns the number of precincts.
func (ds *Dataset) Len() int { return len(ds.records) }

// Records returns all precincts ordered by id.  The returned records must be
// treated as read-only.
func (ds *Dataset) Records() []*Record {
	out := make([]*Record, len(ds.records))
	copy(out, ds.records)
	return out
}

// Precinct looks up a precinct by exact id, falling back to a case-insensitive
// exact name match.
func (ds *Dataset) Precinct(identifier string) (*Record, bool) {
	if r, ok := ds.byID[identifier]; ok {
		return r, true
	}
	trimmed := strings.TrimSpace(identifier)
	if r, ok := ds.byID[trimmed]; ok {
		return r, true
	}
	r, ok := ds.byName[Fold(identifier)]
	return r, ok
}

// Resolve looks up every identifier, silently dropping unmatched ones and
// collapsing duplicates.  Input order is preserved.
func (ds *Dataset) Resolve(identifiers []string) []*Record {
	seen := make(map[string]struct{}, len(identifiers))
	out := make([]*Record, 0, len(identifiers))
	for _, id := range identifiers {
		r, ok := ds.Precinct(id)
		if !ok {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Jurisdiction looks up a jurisdiction by id or case-insensitive name.
func (ds *Dataset) Jurisdiction(identifier string) (*Jurisdiction, bool) {
	if j, ok := ds.jurByID[identifier]; ok {
		return j, true
	}
	j, ok := ds.jurByName[Fold(identifier)]
	return j, ok
}

// Jurisdictions returns all jurisdictions ordered by name.
func (ds *Dataset) Jurisdictions() []*Jurisdiction {
	out := make([]*Jurisdiction, len(ds.jurisdictions))
	copy(out, ds.jurisdictions)
	return out
}

// Members returns the precincts of a jurisdiction ordered by id.
func (ds *Dataset) Members(jurisdictionID string) []*Record {
	m := ds.members[jurisdictionID]
	out := make([]*Record, len(m))
	copy(out, m)
	return out
}

// PrecinctSamples returns up to n precinct names (or ids for unnamed
// precincts) for use in not-found errors.
func (ds *Dataset) PrecinctSamples(n int) []string {
	out := make([]string, 0, n)
	for _, r := range ds.records {
		if len(out) == n {
			break
		}
		if r.Name != "" {
			out = append(out, r.Name)
		} else {
			out = append(out, r.ID)
		}
	}
	return out
}

// JurisdictionSamples returns up to n jurisdiction names.
func (ds *Dataset) JurisdictionSamples(n int) []string {
	out := make([]string, 0, n)
	for _, j := range ds.jurisdictions {
		if len(out) == n {
			break
		}
		out = append(out, j.Name)
	}
	return out
}

//Personal.AI order the ending

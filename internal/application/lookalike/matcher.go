package lookalike

import (
	"context"
	"math"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/precinct-analytics/pkg/errors"
)

// ---------------------------------------------------------------------------
// Profile and results
// ---------------------------------------------------------------------------

// Algorithm selects the per-category distance metric.
type Algorithm string

const (
	AlgorithmEuclidean   Algorithm = "euclidean"
	AlgorithmCosine      Algorithm = "cosine"
	AlgorithmMahalanobis Algorithm = "mahalanobis"
)

// ParseAlgorithm validates a raw algorithm name.  Empty selects Euclidean.
func ParseAlgorithm(raw string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(raw))); a {
	case "":
		return AlgorithmEuclidean, nil
	case AlgorithmEuclidean, AlgorithmCosine, AlgorithmMahalanobis:
		return a, nil
	default:
		return "", errors.Newf(errors.ErrCodeSimilarityAlgorithmInvalid,
			"unsupported similarity algorithm %q; expected euclidean, cosine or mahalanobis", raw)
	}
}

// Weights are the per-category contributions to the overall score.
type Weights struct {
	Demographic float64 `json:"demographic" yaml:"demographic" mapstructure:"demographic"`
	Political   float64 `json:"political" yaml:"political" mapstructure:"political"`
	Electoral   float64 `json:"electoral" yaml:"electoral" mapstructure:"electoral"`
	Tapestry    float64 `json:"tapestry" yaml:"tapestry" mapstructure:"tapestry"`
	Engagement  float64 `json:"engagement" yaml:"engagement" mapstructure:"engagement"`
}

// DefaultWeights returns the weights used when every weight is zero.
func DefaultWeights() Weights {
	return Weights{Demographic: 0.30, Political: 0.30, Electoral: 0.20, Tapestry: 0.10, Engagement: 0.10}
}

func (w Weights) of(c Category) float64 {
	switch c {
	case CategoryDemographic:
		return w.Demographic
	case CategoryPolitical:
		return w.Political
	case CategoryElectoral:
		return w.Electoral
	case CategoryTapestry:
		return w.Tapestry
	case CategoryEngagement:
		return w.Engagement
	default:
		return 0
	}
}

// Normalize scales w to sum to 1.  Negative weights are rejected; all-zero
// weights take DefaultWeights.
func (w Weights) Normalize() (Weights, error) {
	sum := 0.0
	for _, c := range Categories() {
		v := w.of(c)
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return Weights{}, errors.Newf(errors.CodeInvalidParam, "lookalike: weight for %s must be a non-negative number", c)
		}
		sum += v
	}
	if sum == 0 {
		w, sum = DefaultWeights(), 1
	}
	return Weights{
		Demographic: w.Demographic / sum,
		Political:   w.Political / sum,
		Electoral:   w.Electoral / sum,
		Tapestry:    w.Tapestry / sum,
		Engagement:  w.Engagement / sum,
	}, nil
}

// Profile describes a lookalike search.  Exactly one of SourcePrecinctIDs and
// SegmentID must be set.
type Profile struct {
	SourcePrecinctIDs  []string  `json:"source_precinct_ids,omitempty"`
	SegmentID          string    `json:"segment_id,omitempty"`
	Algorithm          Algorithm `json:"algorithm"`
	Weights            Weights   `json:"weights"`
	MinSimilarityScore float64   `json:"min_similarity_score"`
	MaxResults         int       `json:"max_results"`
	ExcludeSources     bool      `json:"exclude_sources"`
}

// ReferenceProfile summarizes the reference set.
type ReferenceProfile struct {
	PrecinctCount      int      `json:"precinct_count"`
	PrecinctIDs        []string `json:"precinct_ids"`
	RepresentativeName string   `json:"representative_name"`
	SegmentID          string   `json:"segment_id,omitempty"`
	AvgMedianAge       float64  `json:"avg_median_age"`
	AvgMedianIncome    float64  `json:"avg_median_income"`
	AvgPartisanLean    float64  `json:"avg_partisan_lean"`
}

// Direction tags whether a match is above or below the reference.
type Direction string

const (
	Higher Direction = "higher"
	Lower  Direction = "lower"
)

// Difference explains one feature gap between a match and the reference.
// Difference is match minus reference in raw units and never zero; features
// equal to the reference are not reported.
type Difference struct {
	Feature        string    `json:"feature"`
	Category       Category  `json:"category"`
	ReferenceValue float64   `json:"reference_value"`
	MatchValue     float64   `json:"match_value"`
	Difference     float64   `json:"difference"`
	Direction      Direction `json:"direction"`
}

// Match is one scored candidate.
type Match struct {
	PrecinctID      string               `json:"precinct_id"`
	PrecinctName    string               `json:"precinct_name"`
	Jurisdiction    string               `json:"jurisdiction"`
	SimilarityScore float64              `json:"similarity_score"`
	CategoryScores  map[Category]float64 `json:"category_scores"`
	TopDifferences  []Difference         `json:"top_differences"`
}

// Results is the outcome of FindLookalikes.
type Results struct {
	Algorithm        Algorithm        `json:"algorithm"`
	Weights          Weights          `json:"weights"`
	ReferenceProfile ReferenceProfile `json:"reference_profile"`
	Matches          []Match          `json:"matches"`
	CandidatesScored int              `json:"candidates_scored"`
}

// ---------------------------------------------------------------------------
// Matcher
// ---------------------------------------------------------------------------

// SegmentResolver looks up saved segments by id.
type SegmentResolver interface {
	GetSegment(ctx context.Context, id string) (*precinct.SegmentDefinition, error)
}

// MatcherConfig holds the dependencies and tuning of Matcher.
type MatcherConfig struct {
	Dataset  *precinct.Dataset
	Segments SegmentResolver
	Logger   logging.Logger

	DefaultAlgorithm  Algorithm
	DefaultMaxResults int
	TopDifferences    int
	Workers           int
	ConditionLimit    float64
}

// Default tuning.
const (
	DefaultMaxResults     = 25
	DefaultTopDifferences = 5
)

type featureSet struct {
	present bool
	raw     []float64
	norm    []float64
}

// Matcher scores precincts against reference sets.  Normalization statistics
// and covariance factorizations are fitted once at construction; Matcher is
// safe for concurrent use.
type Matcher struct {
	ds       *precinct.Dataset
	segments SegmentResolver
	logger   logging.Logger

	algorithm  Algorithm
	maxResults int
	topN       int
	workers    int

	records []*precinct.Record
	index   map[string]int
	models  map[Category]*categoryModel
	vectors []map[Category]featureSet
}

// NewMatcher fits the feature models over the dataset.
func NewMatcher(cfg MatcherConfig) (*Matcher, error) {
	if cfg.Dataset == nil {
		return nil, errors.InvalidParam("lookalike: dataset is required")
	}
	alg, err := ParseAlgorithm(string(cfg.DefaultAlgorithm))
	if err != nil {
		return nil, err
	}
	m := &Matcher{
		ds:         cfg.Dataset,
		segments:   cfg.Segments,
		logger:     logging.OrNop(cfg.Logger),
		algorithm:  alg,
		maxResults: cfg.DefaultMaxResults,
		topN:       cfg.TopDifferences,
		workers:    cfg.Workers,
		records:    cfg.Dataset.Records(),
		models:     make(map[Category]*categoryModel),
	}
	if m.maxResults <= 0 {
		m.maxResults = DefaultMaxResults
	}
	if m.topN <= 0 {
		m.topN = DefaultTopDifferences
	}
	if m.workers <= 0 {
		m.workers = runtime.GOMAXPROCS(0)
	}
	condLimit := cfg.ConditionLimit
	if condLimit <= 0 {
		condLimit = DefaultConditionLimit
	}

	m.index = make(map[string]int, len(m.records))
	m.vectors = make([]map[Category]featureSet, len(m.records))
	for i, r := range m.records {
		m.index[r.ID] = i
		m.vectors[i] = make(map[Category]featureSet, len(Categories()))
	}

	for _, c := range Categories() {
		width := len(categoryFeatures[c])
		rows := make([][]float64, 0, len(m.records))
		for i, r := range m.records {
			if !hasCategory(r, c) {
				continue
			}
			raw := extract(r, c)
			rows = append(rows, raw)
			m.vectors[i][c] = featureSet{present: true, raw: raw}
		}
		model := newCategoryModel(rows, width, condLimit)
		m.models[c] = model
		for i := range m.vectors {
			if fs := m.vectors[i][c]; fs.present {
				fs.norm = model.normalize(fs.raw)
				m.vectors[i][c] = fs
			}
		}
		if model.chol == nil {
			m.logger.Debug("covariance unavailable, mahalanobis falls back to euclidean",
				logging.String("category", string(c)),
				logging.Int("rows", len(rows)))
		}
	}
	return m, nil
}

// MahalanobisAvailable reports whether category c has a usable covariance
// factorization.
func (m *Matcher) MahalanobisAvailable(c Category) bool {
	model, ok := m.models[c]
	return ok && model.chol != nil
}

// FindLookalikes scores every candidate precinct against the reference set
// described by p.
func (m *Matcher) FindLookalikes(ctx context.Context, p Profile) (*Results, error) {
	hasIDs := len(p.SourcePrecinctIDs) > 0
	hasSegment := strings.TrimSpace(p.SegmentID) != ""
	if hasIDs == hasSegment {
		return nil, errors.New(errors.ErrCodeLookalikeReferenceInvalid,
			"lookalike: provide either source precinct ids or a segment id, not both")
	}

	alg := p.Algorithm
	if alg == "" {
		alg = m.algorithm
	}
	alg, err := ParseAlgorithm(string(alg))
	if err != nil {
		return nil, err
	}
	weights, err := p.Weights.Normalize()
	if err != nil {
		return nil, err
	}

	refs, err := m.references(ctx, p)
	if err != nil {
		return nil, err
	}

	refIdx := make(map[int]struct{}, len(refs))
	refOrder := make([]int, 0, len(refs))
	for _, r := range refs {
		i := m.index[r.ID]
		refIdx[i] = struct{}{}
		refOrder = append(refOrder, i)
	}
	sort.Ints(refOrder)
	ref := m.referenceVectors(refOrder)

	candidates := make([]int, 0, len(m.records))
	for i := range m.records {
		if _, isRef := refIdx[i]; isRef && p.ExcludeSources {
			continue
		}
		candidates = append(candidates, i)
	}

	scored := make([]*Match, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for slot, idx := range candidates {
		slot, idx := slot, idx
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scored[slot] = m.score(idx, ref, alg, weights)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "lookalike: scoring interrupted")
	}

	minScore := p.MinSimilarityScore
	matches := make([]Match, 0, len(scored))
	for _, s := range scored {
		if s != nil && s.SimilarityScore >= minScore {
			matches = append(matches, *s)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].SimilarityScore != matches[j].SimilarityScore {
			return matches[i].SimilarityScore > matches[j].SimilarityScore
		}
		return matches[i].PrecinctID < matches[j].PrecinctID
	})
	limit := p.MaxResults
	if limit <= 0 {
		limit = m.maxResults
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}

	res := &Results{
		Algorithm:        alg,
		Weights:          weights,
		ReferenceProfile: referenceProfile(refs, p.SegmentID),
		Matches:          matches,
		CandidatesScored: len(candidates),
	}
	m.logger.Debug("lookalike search finished",
		logging.String("algorithm", string(alg)),
		logging.Int("references", len(refs)),
		logging.Int("candidates", len(candidates)),
		logging.Int("matches", len(matches)))
	return res, nil
}

func (m *Matcher) references(ctx context.Context, p Profile) ([]*precinct.Record, error) {
	if len(p.SourcePrecinctIDs) > 0 {
		refs := m.ds.Resolve(p.SourcePrecinctIDs)
		if len(refs) == 0 {
			return nil, errors.NoMatchingPrecincts()
		}
		return refs, nil
	}
	if m.segments == nil {
		return nil, errors.New(errors.ErrCodeLookalikeReferenceInvalid, "lookalike: segment lookups are not configured")
	}
	seg, err := m.segments.GetSegment(ctx, p.SegmentID)
	if err != nil {
		return nil, err
	}
	if seg == nil || len(seg.Results) == 0 {
		return nil, errors.EmptySegment()
	}
	refs := m.ds.Resolve(seg.PrecinctIDs())
	if len(refs) == 0 {
		return nil, errors.EmptySegment()
	}
	return refs, nil
}

// referenceVectors averages the raw and normalized features of the reference
// records per category.  A category absent from every reference is omitted.
func (m *Matcher) referenceVectors(refIdx []int) map[Category]featureSet {
	out := make(map[Category]featureSet, len(Categories()))
	for _, c := range Categories() {
		width := len(categoryFeatures[c])
		norm := make([]float64, width)
		raw := make([]float64, width)
		rawN := make([]int, width)
		n := 0
		for _, idx := range refIdx {
			fs := m.vectors[idx][c]
			if !fs.present {
				continue
			}
			n++
			for j := 0; j < width; j++ {
				norm[j] += fs.norm[j]
				if !math.IsNaN(fs.raw[j]) {
					raw[j] += fs.raw[j]
					rawN[j]++
				}
			}
		}
		if n == 0 {
			continue
		}
		for j := 0; j < width; j++ {
			norm[j] /= float64(n)
			if rawN[j] > 0 {
				raw[j] /= float64(rawN[j])
			} else {
				raw[j] = missing
			}
		}
		out[c] = featureSet{present: true, raw: raw, norm: norm}
	}
	return out
}

func (m *Matcher) score(idx int, ref map[Category]featureSet, alg Algorithm, w Weights) *Match {
	r := m.records[idx]
	match := &Match{
		PrecinctID:     r.ID,
		PrecinctName:   r.Name,
		Jurisdiction:   r.JurisdictionName,
		CategoryScores: make(map[Category]float64, len(Categories())),
	}

	var weighted, total float64
	diffs := make([]rankedDiff, 0)
	for _, c := range Categories() {
		cand, rf := m.vectors[idx][c], ref[c]
		if !cand.present || !rf.present {
			continue
		}
		s := m.models[c].similarity(alg, rf.norm, cand.norm)
		match.CategoryScores[c] = s
		weighted += w.of(c) * s
		total += w.of(c)
		diffs = appendDiffs(diffs, c, rf, cand)
	}
	if total > 0 {
		match.SimilarityScore = math.Max(0, math.Min(1, weighted/total))
	}
	match.TopDifferences = topDifferences(diffs, m.topN)
	return match
}

type rankedDiff struct {
	Difference
	delta float64
}

func appendDiffs(out []rankedDiff, c Category, ref, cand featureSet) []rankedDiff {
	for j, f := range categoryFeatures[c] {
		rv, mv := ref.raw[j], cand.raw[j]
		if math.IsNaN(rv) || math.IsNaN(mv) {
			continue
		}
		d := mv - rv
		if d == 0 {
			continue
		}
		dir := Lower
		if d > 0 {
			dir = Higher
		}
		out = append(out, rankedDiff{
			Difference: Difference{
				Feature:        f.name,
				Category:       c,
				ReferenceValue: rv,
				MatchValue:     mv,
				Difference:     d,
				Direction:      dir,
			},
			delta: math.Abs(cand.norm[j] - ref.norm[j]),
		})
	}
	return out
}

// topDifferences ranks features by normalized delta so that differences in
// large-unit features such as income do not swamp percentages.
func topDifferences(diffs []rankedDiff, n int) []Difference {
	sort.SliceStable(diffs, func(i, j int) bool {
		if diffs[i].delta != diffs[j].delta {
			return diffs[i].delta > diffs[j].delta
		}
		return diffs[i].Feature < diffs[j].Feature
	})
	if len(diffs) > n {
		diffs = diffs[:n]
	}
	out := make([]Difference, len(diffs))
	for i, d := range diffs {
		out[i] = d.Difference
	}
	return out
}

func referenceProfile(refs []*precinct.Record, segmentID string) ReferenceProfile {
	rp := ReferenceProfile{
		PrecinctCount: len(refs),
		PrecinctIDs:   make([]string, 0, len(refs)),
		SegmentID:     segmentID,
	}
	if len(refs) == 0 {
		return rp
	}
	rp.RepresentativeName = refs[0].Name
	for _, r := range refs {
		rp.PrecinctIDs = append(rp.PrecinctIDs, r.ID)
		rp.AvgMedianAge += r.Demographics.MedianAge
		rp.AvgMedianIncome += r.Demographics.MedianHouseholdIncome
		rp.AvgPartisanLean += r.Electoral.PartisanLean
	}
	n := float64(len(refs))
	rp.AvgMedianAge /= n
	rp.AvgMedianIncome /= n
	rp.AvgPartisanLean /= n
	return rp
}

//Personal.AI order the ending

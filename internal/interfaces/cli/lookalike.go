package cli

import (
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/precinct-analytics/internal/application/lookalike"
	"github.com/turtacn/precinct-analytics/pkg/errors"
)

// NewLookalikeCmd builds the lookalike command.
func NewLookalikeCmd() *cobra.Command {
	var (
		precincts, segmentID, algorithm string
		minScore                        float64
		maxResults                      int
		excludeSources                  bool
		rawWeights                      map[string]string
	)

	cmd := &cobra.Command{
		Use:   "lookalike",
		Short: "Find precincts similar to a reference set",
		Example: `  precinctctl lookalike --precincts ingham-lansing-001,ingham-lansing-002 --max-results 10
  precinctctl lookalike --segment seg-1 --algorithm cosine --weights political=0.6,electoral=0.4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			weights, err := parseWeights(rawWeights)
			if err != nil {
				return err
			}
			eng, err := engineFor(cmd)
			if err != nil {
				return err
			}
			res, err := eng.FindLookalikes(cmd.Context(), lookalike.Profile{
				SourcePrecinctIDs:  splitList(precincts),
				SegmentID:          segmentID,
				Algorithm:          lookalike.Algorithm(algorithm),
				Weights:            weights,
				MinSimilarityScore: minScore,
				MaxResults:         maxResults,
				ExcludeSources:     excludeSources,
			})
			if err != nil {
				return err
			}
			return PrintResult(cmd, lookalikeView{res})
		},
	}

	f := cmd.Flags()
	f.StringVar(&precincts, "precincts", "", "comma-separated reference precinct ids or names")
	f.StringVar(&segmentID, "segment", "", "saved segment id to use as the reference set")
	f.StringVar(&algorithm, "algorithm", "", "euclidean|cosine|mahalanobis (default from config)")
	f.Float64Var(&minScore, "min-score", 0, "minimum similarity score (0-100)")
	f.IntVar(&maxResults, "max-results", 0, "maximum matches to return (default from config)")
	f.BoolVar(&excludeSources, "exclude-sources", true, "leave reference precincts out of the matches")
	f.StringToStringVar(&rawWeights, "weights", nil, "category weights, e.g. demographic=0.3,political=0.3")
	cmd.MarkFlagsOneRequired("precincts", "segment")
	cmd.MarkFlagsMutuallyExclusive("precincts", "segment")
	return cmd
}

// parseWeights converts --weights pairs.  Unnamed categories stay zero; an
// empty map selects the default weights.
func parseWeights(raw map[string]string) (lookalike.Weights, error) {
	var w lookalike.Weights
	for k, v := range raw {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return w, errors.InvalidParam("weight must be a number").WithDetail(k + "=" + v)
		}
		switch lookalike.Category(strings.ToLower(strings.TrimSpace(k))) {
		case lookalike.CategoryDemographic:
			w.Demographic = f
		case lookalike.CategoryPolitical:
			w.Political = f
		case lookalike.CategoryElectoral:
			w.Electoral = f
		case lookalike.CategoryTapestry:
			w.Tapestry = f
		case lookalike.CategoryEngagement:
			w.Engagement = f
		default:
			return w, errors.InvalidParam("unknown weight category").WithDetail(k)
		}
	}
	return w, nil
}

type lookalikeView struct {
	*lookalike.Results
}

func (v lookalikeView) TableHeaders() []string {
	return []string{"#", "PRECINCT", "JURISDICTION", "SCORE", "TOP DIFFERENCE"}
}

func (v lookalikeView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Matches))
	for i, m := range v.Matches {
		top := ""
		if len(m.TopDifferences) > 0 {
			d := m.TopDifferences[0]
			top = d.Feature + " (" + string(d.Direction) + ")"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			m.PrecinctName,
			m.Jurisdiction,
			f1(m.SimilarityScore),
			top,
		})
	}
	return rows
}

// categoryColumns lists category names in a stable order for text output.
func categoryColumns(scores map[lookalike.Category]float64) []string {
	out := make([]string, 0, len(scores))
	for c, s := range scores {
		out = append(out, string(c)+"="+f1(s))
	}
	sort.Strings(out)
	return out
}

// String renders one line per match for --output text.
func (v lookalikeView) String() string {
	var sb strings.Builder
	for _, m := range v.Matches {
		sb.WriteString(m.PrecinctID)
		sb.WriteString("\t")
		sb.WriteString(f1(m.SimilarityScore))
		sb.WriteString("\t")
		sb.WriteString(strings.Join(categoryColumns(m.CategoryScores), " "))
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

//Personal.AI order the ending

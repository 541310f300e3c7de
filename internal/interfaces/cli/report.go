package cli

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/precinct-analytics/internal/application/reporting"
)

// NewReportCmd builds the report command.  Without --format it prints the
// aggregated profile; with it the profile is rendered as a document.
func NewReportCmd() *cobra.Command {
	var precincts, segmentID, format, out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate a precinct selection or saved segment into a report profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := engineFor(cmd)
			if err != nil {
				return err
			}
			var p *reporting.AggregatedProfile
			if segmentID != "" {
				p, err = eng.AggregateSegment(cmd.Context(), segmentID)
			} else {
				p, err = eng.AggregatePrecincts(splitList(precincts))
			}
			if err != nil {
				return err
			}
			if format == "" {
				return PrintResult(cmd, profileView{p})
			}

			res, err := eng.RenderReport(cmd.Context(), p, format)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(res.Content)
				return err
			}
			if err := os.WriteFile(out, res.Content, 0o644); err != nil {
				return err
			}
			PrintSuccess(cmd, "report written to "+out)
			return nil
		},
	}
	cmd.Flags().StringVar(&precincts, "precincts", "", "comma-separated precinct ids or names")
	cmd.Flags().StringVar(&segmentID, "segment", "", "saved segment id")
	cmd.Flags().StringVar(&format, "format", "", "render a document instead of the profile (markdown|html)")
	cmd.Flags().StringVar(&out, "out", "", "write the rendered document to this path (default stdout)")
	cmd.MarkFlagsOneRequired("precincts", "segment")
	cmd.MarkFlagsMutuallyExclusive("precincts", "segment")
	return cmd
}

type profileView struct {
	*reporting.AggregatedProfile
}

func (v profileView) TableHeaders() []string { return []string{"FIELD", "VALUE"} }

func (v profileView) TableRows() [][]string {
	p := v.AggregatedProfile
	rows := [][]string{
		{"precincts", strconv.Itoa(p.PrecinctCount)},
		{"jurisdictions", strings.Join(p.Jurisdictions, ", ")},
		{"median_age", f1(p.Demographics.MedianAge)},
		{"median_household_income", f1(p.Demographics.MedianHouseholdIncome)},
		{"college_pct", f1(p.Demographics.CollegePct)},
		{"partisan_lean", f1(p.Electoral.PartisanLean)},
		{"avg_turnout", f1(p.Electoral.AvgTurnout)},
		{"dominant_party", p.DominantParty},
		{"competitiveness", string(p.Competitiveness)},
		{"volatility", string(p.Volatility)},
		{"recommended_strategy", string(p.RecommendedStrategy)},
	}
	if p.SegmentName != "" {
		rows = append([][]string{{"segment", p.SegmentName}}, rows...)
	}
	for _, h := range p.ElectionHistory {
		rows = append(rows, []string{"election_" + strconv.Itoa(h.Year), "margin " + f1(h.Margin) + ", turnout " + f1(h.Turnout)})
	}
	return rows
}

//Personal.AI order the ending

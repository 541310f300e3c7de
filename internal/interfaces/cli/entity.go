package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/precinct-analytics/internal/application/comparison"
	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
)

// NewEntityCmd builds the entity command.
func NewEntityCmd() *cobra.Command {
	var boundary string
	cmd := &cobra.Command{
		Use:   "entity <identifier>",
		Short: "Build the comparison profile of a precinct or jurisdiction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := engineFor(cmd)
			if err != nil {
				return err
			}
			ent, err := eng.BuildEntity(args[0], boundary)
			if err != nil {
				return err
			}
			return PrintResult(cmd, entityView{ent})
		},
	}
	cmd.Flags().StringVarP(&boundary, "type", "t", precinct.BoundaryPrecincts, "boundary type: precincts|jurisdictions")
	return cmd
}

// NewCompareCmd builds the compare command.
func NewCompareCmd() *cobra.Command {
	var leftType, rightType string
	cmd := &cobra.Command{
		Use:   "compare <left> <right>",
		Short: "Compare two precincts or jurisdictions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := engineFor(cmd)
			if err != nil {
				return err
			}
			res, err := eng.Compare(args[0], leftType, args[1], rightType)
			if err != nil {
				return err
			}
			return PrintResult(cmd, comparisonView{res})
		},
	}
	cmd.Flags().StringVar(&leftType, "left-type", precinct.BoundaryPrecincts, "boundary type of the left entity")
	cmd.Flags().StringVar(&rightType, "right-type", precinct.BoundaryPrecincts, "boundary type of the right entity")
	return cmd
}

type entityView struct {
	*comparison.Entity
}

func (v entityView) TableHeaders() []string { return []string{"FIELD", "VALUE"} }

func (v entityView) TableRows() [][]string {
	e := v.Entity
	rows := [][]string{
		{"id", e.ID},
		{"name", e.Name},
		{"type", string(e.Type)},
		{"precincts", strconv.Itoa(e.PrecinctCount)},
		{"median_age", f1(e.Demographics.MedianAge)},
		{"median_income", f1(e.Demographics.MedianHouseholdIncome)},
		{"partisan_lean", f1(e.PoliticalProfile.PartisanLean)},
		{"avg_turnout", f1(e.Electoral.AvgTurnout)},
		{"gotv_priority", f1(e.TargetingScores.GOTVPriority)},
		{"persuasion", f1(e.TargetingScores.PersuasionOpportunity)},
		{"combined_score", f1(e.TargetingScores.CombinedScore)},
		{"strategy", string(e.TargetingScores.RecommendedStrategy)},
	}
	if e.ParentJurisdiction != nil {
		rows = append(rows, []string{"jurisdiction", e.ParentJurisdiction.Name})
	}
	return rows
}

type comparisonView struct {
	*comparison.Result
}

func (v comparisonView) TableHeaders() []string {
	return []string{"SECTION", "METRIC", v.Left.Name, v.Right.Name, "DIFF", "DIFF %"}
}

func (v comparisonView) TableRows() [][]string {
	var rows [][]string
	add := func(section string, diffs []comparison.MetricDiff) {
		for _, d := range diffs {
			rows = append(rows, []string{section, d.Metric, f1(d.Left), f1(d.Right), f1(d.Difference), f1(d.PercentDiff)})
		}
	}
	add("demographics", v.Differences.Demographics)
	add("political", v.Differences.PoliticalProfile)
	add("electoral", v.Differences.Electoral)
	add("targeting", v.Differences.Targeting)
	return rows
}

//Personal.AI order the ending

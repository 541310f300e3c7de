package cli

import (
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
	"github.com/turtacn/precinct-analytics/pkg/errors"
)

// NewSegmentCmd builds the segment command group.  Segments are produced by
// the filtering tools upstream and registered here so universes, lookalike
// searches and reports can reference them by id.
func NewSegmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segment",
		Short: "Register and inspect saved segments",
	}
	cmd.AddCommand(newSegmentSaveCmd(), newSegmentListCmd(), newSegmentShowCmd(), newSegmentDeleteCmd())
	return cmd
}

func newSegmentSaveCmd() *cobra.Command {
	var file, id, name string
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a segment definition from a YAML or JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			seg, err := readSegment(file)
			if err != nil {
				return err
			}
			if id != "" {
				seg.ID = id
			}
			if name != "" {
				seg.Name = name
			}
			eng, err := engineFor(cmd)
			if err != nil {
				return err
			}
			saved, err := eng.SaveSegment(cmd.Context(), seg)
			if err != nil {
				return err
			}
			return PrintResult(cmd, segmentView{saved})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "segment definition file")
	cmd.Flags().StringVar(&id, "id", "", "override the segment id")
	cmd.Flags().StringVar(&name, "name", "", "override the segment name")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readSegment(path string) (*precinct.SegmentDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.InvalidParam("cannot read segment file").WithDetail(path).WithCause(err)
	}
	var seg precinct.SegmentDefinition
	if err := yaml.Unmarshal(data, &seg); err != nil {
		return nil, errors.InvalidParam("invalid segment file").WithDetail(path).WithCause(err)
	}
	return &seg, nil
}

func newSegmentListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved segments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := engineFor(cmd)
			if err != nil {
				return err
			}
			segs, err := eng.ListSegments(cmd.Context())
			if err != nil {
				return err
			}
			return PrintResult(cmd, segmentList(segs))
		},
	}
}

func newSegmentShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <segment-id>",
		Short: "Show a saved segment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := engineFor(cmd)
			if err != nil {
				return err
			}
			seg, err := eng.GetSegment(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return PrintResult(cmd, segmentView{seg})
		},
	}
}

func newSegmentDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <segment-id>",
		Short: "Delete a saved segment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := engineFor(cmd)
			if err != nil {
				return err
			}
			if err := eng.DeleteSegment(cmd.Context(), args[0]); err != nil {
				return err
			}
			PrintSuccess(cmd, "segment "+args[0]+" deleted")
			return nil
		},
	}
}

type segmentView struct {
	*precinct.SegmentDefinition
}

func (v segmentView) TableHeaders() []string {
	return []string{"PRECINCT", "JURISDICTION", "REGISTERED", "GOTV", "PERSUASION", "STRATEGY"}
}

func (v segmentView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Results))
	for _, r := range v.Results {
		name := r.PrecinctName
		if name == "" {
			name = r.PrecinctID
		}
		rows = append(rows, []string{
			name, r.Jurisdiction,
			strconv.FormatFloat(r.RegisteredVoters, 'f', 0, 64),
			f1(r.GOTVPriority),
			f1(r.PersuasionOpportunity),
			r.TargetingStrategy,
		})
	}
	return rows
}

type segmentList []*precinct.SegmentDefinition

func (l segmentList) TableHeaders() []string { return []string{"ID", "NAME", "PRECINCTS"} }

func (l segmentList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, s := range l {
		rows = append(rows, []string{s.ID, s.Name, strconv.Itoa(len(s.Results))})
	}
	return rows
}

//Personal.AI order the ending

package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/precinct-analytics/internal/application/canvassing"
)

// NewUniverseCmd builds the universe command group.
func NewUniverseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "universe",
		Short: "Build and work canvassing universes",
		Long: "Universes are kept in the configured registry.  With the memory backend they\n" +
			"live only for the current invocation; configure store.backend=redis to keep them.",
	}
	cmd.AddCommand(
		newUniverseCreateCmd(),
		newUniverseListCmd(),
		newUniverseShowCmd(),
		newUniverseSortCmd(),
		newUniverseStaffingCmd(),
		newUniverseTurfsCmd(),
		newUniverseSummaryCmd(),
		newUniverseDeleteCmd(),
	)
	return cmd
}

func newUniverseCreateCmd() *cobra.Command {
	var (
		name, precincts, segmentID, sortBy string
		sizing                             canvassing.Config
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a universe from precincts or a saved segment",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := engineFor(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var u *canvassing.Universe
			if segmentID != "" {
				u, err = eng.CreateUniverseFromSegment(ctx, segmentID, name, &sizing)
			} else {
				u, err = eng.CreateUniverse(ctx, name, splitList(precincts), &sizing)
			}
			if err != nil {
				return err
			}
			if sortBy != "" {
				if u, err = eng.SortUniverse(ctx, u.ID, sortBy); err != nil {
					return err
				}
			}
			return PrintResult(cmd, universeView{u})
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "universe name")
	f.StringVar(&precincts, "precincts", "", "comma-separated precinct ids or names")
	f.StringVar(&segmentID, "segment", "", "saved segment id")
	f.StringVar(&sortBy, "sort", "", "rank by gotv|persuasion|doors|swing|combined after creation")
	f.IntVar(&sizing.TargetDoorsPerTurf, "doors-per-turf", 0, "target doors per turf (default from config)")
	f.IntVar(&sizing.TargetDoorsPerHour, "doors-per-hour", 0, "target doors per hour (default from config)")
	f.Float64Var(&sizing.TargetContactRate, "contact-rate", 0, "expected contact rate in (0, 1] (default from config)")
	cmd.MarkFlagsOneRequired("precincts", "segment")
	cmd.MarkFlagsMutuallyExclusive("precincts", "segment")
	return cmd
}

func newUniverseListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered universes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := engineFor(cmd)
			if err != nil {
				return err
			}
			us, err := eng.ListUniverses(cmd.Context())
			if err != nil {
				return err
			}
			return PrintResult(cmd, universeList(us))
		},
	}
}

func newUniverseShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <universe-id>",
		Short: "Show a universe and its ranked precincts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := engineFor(cmd)
			if err != nil {
				return err
			}
			u, err := eng.GetUniverse(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return PrintResult(cmd, universeView{u})
		},
	}
}

func newUniverseSortCmd() *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "sort <universe-id>",
		Short: "Re-rank a universe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := engineFor(cmd)
			if err != nil {
				return err
			}
			u, err := eng.SortUniverse(cmd.Context(), args[0], by)
			if err != nil {
				return err
			}
			return PrintResult(cmd, universeView{u})
		},
	}
	cmd.Flags().StringVar(&by, "by", string(canvassing.SortByCombined), "gotv|persuasion|doors|swing|combined")
	return cmd
}

func newUniverseStaffingCmd() *cobra.Command {
	var (
		days       int
		hours      float64
		volunteers int
	)
	cmd := &cobra.Command{
		Use:   "staffing <universe-id>",
		Short: "Estimate volunteer shifts for a universe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := engineFor(cmd)
			if err != nil {
				return err
			}
			plan, err := eng.EstimateStaffing(cmd.Context(), args[0], canvassing.StaffingRequest{
				Days:                days,
				HoursPerShift:       hours,
				VolunteersAvailable: volunteers,
			})
			if err != nil {
				return err
			}
			return PrintResult(cmd, staffingView{plan})
		},
	}
	cmd.Flags().IntVar(&days, "days", 14, "days available")
	cmd.Flags().Float64Var(&hours, "hours-per-shift", 3, "hours per volunteer shift")
	cmd.Flags().IntVar(&volunteers, "volunteers", 0, "volunteers available per day (0 = unlimited)")
	return cmd
}

func newUniverseTurfsCmd() *cobra.Command {
	var opts canvassing.TurfOptions
	var priority string
	cmd := &cobra.Command{
		Use:   "turfs <universe-id>",
		Short: "Group a universe into turfs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := engineFor(cmd)
			if err != nil {
				return err
			}
			opts.PriorityMetric = canvassing.SortKey(priority)
			turfs, err := eng.OptimizeTurfs(cmd.Context(), args[0], &opts)
			if err != nil {
				return err
			}
			return PrintResult(cmd, turfList(turfs))
		},
	}
	cmd.Flags().IntVar(&opts.TargetDoorsPerTurf, "doors-per-turf", 0, "target doors per turf (default from the universe)")
	cmd.Flags().IntVar(&opts.MaxTurfs, "max-turfs", 0, "maximum number of turfs (0 = unlimited)")
	cmd.Flags().StringVar(&priority, "priority", string(canvassing.SortByGOTV), "ordering metric")
	return cmd
}

func newUniverseSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <universe-id>",
		Short: "Summarize a universe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := engineFor(cmd)
			if err != nil {
				return err
			}
			s, err := eng.UniverseSummary(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return PrintResult(cmd, s)
		},
	}
}

func newUniverseDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <universe-id>",
		Short: "Remove a universe from the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := engineFor(cmd)
			if err != nil {
				return err
			}
			if err := eng.DeleteUniverse(cmd.Context(), args[0]); err != nil {
				return err
			}
			PrintSuccess(cmd, "universe "+args[0]+" deleted")
			return nil
		},
	}
}

// NewRouteCmd builds the route command.
func NewRouteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route <precinct-id,precinct-id,...>",
		Short: "Suggest a walking order for precincts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := engineFor(cmd)
			if err != nil {
				return err
			}
			return PrintResult(cmd, eng.RouteSuggestions(args[0]))
		},
	}
}

// NewMetricsCmd builds the metrics command.
func NewMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics <precinct-id,precinct-id,...>",
		Short: "Estimate doors and canvassing time for a selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := engineFor(cmd)
			if err != nil {
				return err
			}
			return PrintResult(cmd, eng.CanvassMetrics(splitList(args[0])))
		},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Table views
// ─────────────────────────────────────────────────────────────────────────────

type universeView struct {
	*canvassing.Universe
}

func (v universeView) TableHeaders() []string {
	return []string{"RANK", "PRECINCT", "JURISDICTION", "DOORS", "GOTV", "PERSUASION", "COMBINED", "STRATEGY"}
}

func (v universeView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Precincts))
	for _, e := range v.Precincts {
		rows = append(rows, []string{
			strconv.Itoa(e.PriorityRank),
			e.PrecinctName,
			e.Jurisdiction,
			strconv.Itoa(e.EstimatedDoors),
			f1(e.GOTVPriority),
			f1(e.PersuasionOpportunity),
			f1(e.CombinedScore),
			string(e.TargetingStrategy),
		})
	}
	return rows
}

type universeList []*canvassing.Universe

func (l universeList) TableHeaders() []string {
	return []string{"ID", "NAME", "PRECINCTS", "DOORS", "TURFS", "HOURS", "VOLUNTEERS", "SORT"}
}

func (l universeList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, u := range l {
		rows = append(rows, []string{
			u.ID, u.Name,
			strconv.Itoa(u.TotalPrecincts),
			strconv.Itoa(u.TotalEstimatedDoors),
			strconv.Itoa(u.EstimatedTurfs),
			strconv.Itoa(u.EstimatedHours),
			strconv.Itoa(u.VolunteersNeeded),
			string(u.SortKey),
		})
	}
	return rows
}

type staffingView struct {
	*canvassing.StaffingPlan
}

func (v staffingView) TableHeaders() []string { return []string{"FIELD", "VALUE"} }

func (v staffingView) TableRows() [][]string {
	p := v.StaffingPlan
	return [][]string{
		{"days", strconv.Itoa(p.Days)},
		{"hours_per_shift", f1(p.HoursPerShift)},
		{"total_doors", strconv.Itoa(p.TotalDoors)},
		{"total_hours", strconv.Itoa(p.TotalHours)},
		{"total_shifts", strconv.Itoa(p.TotalShifts)},
		{"shifts_per_day", strconv.Itoa(p.ShiftsPerDay)},
		{"volunteers_per_day", strconv.Itoa(p.VolunteersPerDay)},
		{"volunteer_shortfall", strconv.Itoa(p.VolunteerShortfall)},
		{"expected_contacts", strconv.Itoa(p.ExpectedContacts)},
		{"coverage_percent", f1(p.CoveragePercent)},
	}
}

type turfList []canvassing.Turf

func (l turfList) TableHeaders() []string {
	return []string{"TURF", "NAME", "PRECINCTS", "DOORS", "AVG GOTV"}
}

func (l turfList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, t := range l {
		rows = append(rows, []string{
			t.TurfID, t.TurfName,
			strconv.Itoa(len(t.PrecinctIDs)),
			strconv.Itoa(t.EstimatedDoors),
			f1(t.AvgGOTVPriority),
		})
	}
	return rows
}

//Personal.AI order the ending

package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/precinct-analytics/internal/config"
	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/database/postgres"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/dataset"
	"github.com/turtacn/precinct-analytics/pkg/errors"
)

// NewDatasetCmd builds the dataset maintenance commands.  None of them
// bootstraps the engine.
func NewDatasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Validate, import and migrate precinct datasets",
	}
	cmd.AddCommand(
		newDatasetValidateCmd(),
		newDatasetMigrateCmd(),
		newDatasetVersionCmd(),
		newDatasetImportCmd(),
		newDatasetExportCmd(),
		newDatasetRacesCmd(),
	)
	return cmd
}

func readDataset(path string) (*precinct.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "cannot read dataset file").WithDetail(path)
	}
	return dataset.Decode(data)
}

type datasetStats struct {
	Precincts     int `json:"precincts"`
	Jurisdictions int `json:"jurisdictions"`
	WithHistory   int `json:"with_election_history"`
	WithVAP       int `json:"with_voting_age_population"`
}

func statsOf(ds *precinct.Dataset) datasetStats {
	s := datasetStats{Precincts: ds.Len(), Jurisdictions: len(ds.Jurisdictions())}
	for _, r := range ds.Records() {
		if len(r.ElectionHistory) > 0 {
			s.WithHistory++
		}
		if _, ok := r.VotingAge(); ok {
			s.WithVAP++
		}
	}
	return s
}

func (s datasetStats) TableHeaders() []string { return []string{"FIELD", "VALUE"} }

func (s datasetStats) TableRows() [][]string {
	return [][]string{
		{"precincts", strconv.Itoa(s.Precincts)},
		{"jurisdictions", strconv.Itoa(s.Jurisdictions)},
		{"with_election_history", strconv.Itoa(s.WithHistory)},
		{"with_voting_age_population", strconv.Itoa(s.WithVAP)},
	}
}

func newDatasetValidateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Parse a dataset file and report what it contains",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := readDataset(file)
			if err != nil {
				return err
			}
			return PrintResult(cmd, statsOf(ds))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "dataset file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newDatasetMigrateCmd() *cobra.Command {
	var down int
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply (or roll back) the precinct schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			url := postgres.ConnString(cliCtx.Config.Database)
			if down > 0 {
				if err := postgres.RollbackMigration(url, down); err != nil {
					return err
				}
				PrintSuccess(cmd, fmt.Sprintf("rolled back %d migration(s)", down))
				return nil
			}
			if err := postgres.RunMigrations(url); err != nil {
				return err
			}
			PrintSuccess(cmd, "schema is up to date")
			return nil
		},
	}
	cmd.Flags().IntVar(&down, "down", 0, "roll back this many migrations instead of migrating up")
	return cmd
}

func newDatasetVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the applied schema migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			v, dirty, err := postgres.MigrationVersion(postgres.ConnString(cliCtx.Config.Database))
			if err != nil {
				return err
			}
			state := "clean"
			if dirty {
				state = "dirty"
			}
			return PrintResult(cmd, fmt.Sprintf("version %d (%s)", v, state))
		},
	}
}

func newDatasetImportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a dataset file into PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ds, err := readDataset(file)
			if err != nil {
				return err
			}
			pool, err := postgres.NewConnectionPool(cmd.Context(), cliCtx.Config.Database, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer postgres.Close(pool)

			n, err := dataset.Import(cmd.Context(), pool, ds, cliCtx.Logger)
			if err != nil {
				return err
			}
			PrintSuccess(cmd, fmt.Sprintf("imported %d precincts", n))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "dataset file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newDatasetExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the configured dataset source to a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := cliCtx.Config.Dataset

			var db dataset.Querier
			if cfg.Source == config.DatasetSourcePostgres {
				pool, err := postgres.NewConnectionPool(cmd.Context(), cliCtx.Config.Database, cliCtx.Logger)
				if err != nil {
					return err
				}
				defer postgres.Close(pool)
				db = pool
			}
			src, err := dataset.NewSource(cfg, db, cliCtx.Logger)
			if err != nil {
				return err
			}
			ds, err := src.Load(cmd.Context())
			if err != nil {
				return err
			}
			data, err := dataset.Encode(ds)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return errors.Wrap(err, errors.ErrCodeInternal, "cannot write dataset file").WithDetail(out)
			}
			PrintSuccess(cmd, fmt.Sprintf("exported %d precincts to %s", ds.Len(), out))
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "-", "output path (- for stdout)")
	return cmd
}

type raceList struct {
	County string   `json:"county"`
	Races  []string `json:"races"`
}

func (l raceList) TableHeaders() []string { return []string{"RACE"} }

func (l raceList) TableRows() [][]string {
	rows := make([][]string, len(l.Races))
	for i, r := range l.Races {
		rows[i] = []string{r}
	}
	return rows
}

// newDatasetRacesCmd lists the races found in precinct-level results CSVs,
// merged across files.
func newDatasetRacesCmd() *cobra.Command {
	var county string
	cmd := &cobra.Command{
		Use:   "races <results.csv>...",
		Short: "List the distinct races in election results CSV files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seen := make(map[string]struct{})
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "cannot read results file").WithDetail(path)
				}
				races, err := dataset.ExtractRaces(f, county)
				f.Close()
				if err != nil {
					return err
				}
				for _, r := range races {
					seen[r] = struct{}{}
				}
			}
			out := raceList{County: county, Races: make([]string, 0, len(seen))}
			for r := range seen {
				out.Races = append(out.Races, r)
			}
			sort.Strings(out.Races)
			return PrintResult(cmd, out)
		},
	}
	cmd.Flags().StringVar(&county, "county", dataset.DefaultRaceCounty, "county whose rows are kept")
	return cmd
}

//Personal.AI order the ending

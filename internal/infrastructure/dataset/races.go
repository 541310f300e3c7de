package dataset

import (
	"bufio"
	"encoding/csv"
	"io"
	"sort"
	"strings"

	"github.com/turtacn/precinct-analytics/pkg/errors"
)

// DefaultRaceCounty is the county ExtractRaces keeps when none is given.
const DefaultRaceCounty = "Ingham"

// ExtractRaces reads a precinct-level election results CSV and returns the
// distinct races contested in county, sorted.  A race is "<office> - District
// <n>" when the row names a district and the bare office otherwise.  The file
// needs county, office and district columns; other columns are ignored.
func ExtractRaces(r io.Reader, county string) ([]string, error) {
	if county == "" {
		county = DefaultRaceCounty
	}
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeDataSourceParseError, "results csv is empty")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceParseError, "cannot read results csv header")
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range []string{"county", "office", "district"} {
		if _, ok := col[name]; !ok {
			return nil, errors.New(errors.ErrCodeDataSourceParseError, "results csv is missing a required column").WithDetail(name)
		}
	}
	get := func(row []string, name string) string {
		i := col[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	seen := make(map[string]struct{})
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDataSourceParseError, "cannot read results csv row")
		}
		if get(row, "county") != county {
			continue
		}
		office := get(row, "office")
		if office == "" {
			continue
		}
		race := office
		if d := get(row, "district"); d != "" {
			race = office + " - District " + d
		}
		seen[race] = struct{}{}
	}

	races := make([]string, 0, len(seen))
	for race := range seen {
		races = append(races, race)
	}
	sort.Strings(races)
	return races, nil
}

//Personal.AI order the ending

package reporting

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"io"
	"sort"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/turtacn/precinct-analytics/internal/domain/scoring"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/precinct-analytics/pkg/errors"
)

// ============================================================================
// Formats
// ============================================================================

// Format is a rendered report format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts a format name case-insensitively; "md" is an alias of
// markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", errors.InvalidParam(fmt.Sprintf("unsupported report format %q", s)).
		WithSamples([]string{string(FormatMarkdown), string(FormatHTML)})
}

func (f Format) contentType() string {
	if f == FormatHTML {
		return "text/html; charset=utf-8"
	}
	return "text/markdown; charset=utf-8"
}

func (f Format) extension() string {
	if f == FormatHTML {
		return "html"
	}
	return "md"
}

// ============================================================================
// Renderer
// ============================================================================

// RenderResult is one rendered report.
type RenderResult struct {
	Content        []byte        `json:"-"`
	ContentType    string        `json:"content_type"`
	FileName       string        `json:"file_name"`
	RenderDuration time.Duration `json:"render_duration"`
}

// RendererConfig holds the dependencies of Renderer.
type RendererConfig struct {
	Logger logging.Logger
	Clock  func() time.Time
}

// Renderer turns aggregated profiles into Markdown or HTML documents.  Parsed
// templates are cached per format; the renderer is safe for concurrent use.
type Renderer struct {
	logger logging.Logger
	clock  func() time.Time
	cache  sync.Map // Format -> executor
}

type executor interface {
	Execute(w io.Writer, data interface{}) error
}

type textExec struct{ t *template.Template }

func (e textExec) Execute(w io.Writer, data interface{}) error {
	return e.t.Execute(w, data)
}

type htmlExec struct{ t *htmltemplate.Template }

func (e htmlExec) Execute(w io.Writer, data interface{}) error {
	return e.t.Execute(w, data)
}

// NewRenderer constructs a Renderer.
func NewRenderer(cfg RendererConfig) *Renderer {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Renderer{logger: logging.OrNop(cfg.Logger), clock: clock}
}

// Render binds p to the built-in template of format.
func (r *Renderer) Render(ctx context.Context, p *AggregatedProfile, format Format) (*RenderResult, error) {
	start := time.Now()
	if p == nil {
		return nil, errors.InvalidParam("reporting: profile is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exec, err := r.executor(format)
	if err != nil {
		return nil, err
	}

	now := r.clock().UTC()
	var buf bytes.Buffer
	if err := exec.Execute(&buf, newReportData(p, now)); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "report template execution failed")
	}

	res := &RenderResult{
		Content:        buf.Bytes(),
		ContentType:    format.contentType(),
		FileName:       fmt.Sprintf("%s_report_%d.%s", fileStem(p), now.Unix(), format.extension()),
		RenderDuration: time.Since(start),
	}
	r.logger.Debug("report rendered",
		logging.String("format", string(format)),
		logging.Int("precincts", p.PrecinctCount),
		logging.Int("bytes", len(res.Content)),
	)
	return res, nil
}

func (r *Renderer) executor(format Format) (executor, error) {
	if cached, ok := r.cache.Load(format); ok {
		return cached.(executor), nil
	}

	var (
		exec executor
		err  error
	)
	switch format {
	case FormatMarkdown:
		var t *template.Template
		t, err = template.New("markdown").Funcs(templateFuncs()).Parse(markdownTemplate)
		exec = textExec{t}
	case FormatHTML:
		var t *htmltemplate.Template
		t, err = htmltemplate.New("html").Funcs(htmltemplate.FuncMap(templateFuncs())).Parse(htmlTemplate)
		exec = htmlExec{t}
	default:
		_, err = ParseFormat(string(format))
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "report template parse failed")
	}
	actual, _ := r.cache.LoadOrStore(format, exec)
	return actual.(executor), nil
}

func fileStem(p *AggregatedProfile) string {
	if p.SegmentID != "" {
		return strings.ReplaceAll(p.SegmentID, "/", "_")
	}
	return "precincts"
}

// ============================================================================
// Template data
// ============================================================================

type strategyCount struct {
	Strategy scoring.Strategy
	Count    int
}

type reportData struct {
	*AggregatedProfile
	Title       string
	GeneratedAt string
	Strategies  []strategyCount
}

func newReportData(p *AggregatedProfile, now time.Time) reportData {
	title := "Precinct profile"
	if p.SegmentName != "" {
		title = p.SegmentName
	}
	d := reportData{AggregatedProfile: p, Title: title, GeneratedAt: now.Format(time.RFC3339)}
	for s, n := range p.StrategyBreakdown {
		d.Strategies = append(d.Strategies, strategyCount{Strategy: s, Count: n})
	}
	sort.Slice(d.Strategies, func(i, j int) bool {
		if d.Strategies[i].Count != d.Strategies[j].Count {
			return d.Strategies[i].Count > d.Strategies[j].Count
		}
		return d.Strategies[i].Strategy < d.Strategies[j].Strategy
	})
	return d
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatNumber": func(v float64, decimals int) string {
			return fmt.Sprintf("%.*f", decimals, v)
		},
		"signed": func(v float64) string {
			return fmt.Sprintf("%+.1f", v)
		},
		"optional": func(p *float64) string {
			if p == nil {
				return "n/a"
			}
			return fmt.Sprintf("%.0f", *p)
		},
		"join": strings.Join,
		"truncate": func(s string, maxLen int) string {
			if len(s) > maxLen {
				return s[:maxLen] + "..."
			}
			return s
		},
	}
}

const markdownTemplate = `# {{.Title}}

Generated {{.GeneratedAt}} from {{.PrecinctCount}} precinct(s){{if .Jurisdictions}} in {{join .Jurisdictions ", "}}{{end}}.

## Summary

| Metric | Value |
|---|---|
| Dominant party | {{.DominantParty}} |
| Partisan lean | {{signed .Electoral.PartisanLean}} |
| Competitiveness | {{.Competitiveness}} |
| Volatility | {{.Volatility}} |
| Recommended strategy | {{.RecommendedStrategy}} |

## Demographics

| Metric | Value |
|---|---|
| Voting-age population | {{optional .Demographics.VotingAgePopulation}} |
| Median age | {{formatNumber .Demographics.MedianAge 1}} |
| Median household income | {{formatNumber .Demographics.MedianHouseholdIncome 0}} |
| College educated (%) | {{formatNumber .Demographics.CollegePct 1}} |
| Homeowners (%) | {{formatNumber .Demographics.HomeownerPct 1}} |

## Targeting

| Score | Value |
|---|---|
| GOTV priority | {{formatNumber .Targeting.GOTVPriority 1}} |
| Persuasion opportunity | {{formatNumber .Targeting.PersuasionOpportunity 1}} |
| Combined | {{formatNumber .Targeting.CombinedScore 1}} |
| Average turnout (%) | {{formatNumber .Electoral.AvgTurnout 1}} |
| Swing potential | {{formatNumber .Electoral.SwingPotential 1}} |
{{if .Strategies}}
## Strategy mix

| Strategy | Precincts |
|---|---|
{{range .Strategies}}| {{.Strategy}} | {{.Count}} |
{{end}}{{end}}{{if .ElectionHistory}}
## Election history

| Year | Dem % | Rep % | Margin | Turnout % |
|---|---|---|---|---|
{{range .ElectionHistory}}| {{.Year}} | {{formatNumber .DemPct 1}} | {{formatNumber .RepPct 1}} | {{signed .Margin}} | {{formatNumber .Turnout 1}} |
{{end}}{{end}}
## Precincts

{{range .PrecinctNames}}- {{truncate . 80}}
{{end}}`

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p>Generated {{.GeneratedAt}} from {{.PrecinctCount}} precinct(s){{if .Jurisdictions}} in {{join .Jurisdictions ", "}}{{end}}.</p>
<h2>Summary</h2>
<table>
<tr><th>Dominant party</th><td>{{.DominantParty}}</td></tr>
<tr><th>Partisan lean</th><td>{{signed .Electoral.PartisanLean}}</td></tr>
<tr><th>Competitiveness</th><td>{{.Competitiveness}}</td></tr>
<tr><th>Volatility</th><td>{{.Volatility}}</td></tr>
<tr><th>Recommended strategy</th><td>{{.RecommendedStrategy}}</td></tr>
</table>
<h2>Demographics</h2>
<table>
<tr><th>Voting-age population</th><td>{{optional .Demographics.VotingAgePopulation}}</td></tr>
<tr><th>Median age</th><td>{{formatNumber .Demographics.MedianAge 1}}</td></tr>
<tr><th>Median household income</th><td>{{formatNumber .Demographics.MedianHouseholdIncome 0}}</td></tr>
<tr><th>College educated (%)</th><td>{{formatNumber .Demographics.CollegePct 1}}</td></tr>
</table>
<h2>Targeting</h2>
<table>
<tr><th>GOTV priority</th><td>{{formatNumber .Targeting.GOTVPriority 1}}</td></tr>
<tr><th>Persuasion opportunity</th><td>{{formatNumber .Targeting.PersuasionOpportunity 1}}</td></tr>
<tr><th>Combined</th><td>{{formatNumber .Targeting.CombinedScore 1}}</td></tr>
</table>
{{if .ElectionHistory}}<h2>Election history</h2>
<table>
<tr><th>Year</th><th>Dem %</th><th>Rep %</th><th>Margin</th><th>Turnout %</th></tr>
{{range .ElectionHistory}}<tr><td>{{.Year}}</td><td>{{formatNumber .DemPct 1}}</td><td>{{formatNumber .RepPct 1}}</td><td>{{signed .Margin}}</td><td>{{formatNumber .Turnout 1}}</td></tr>
{{end}}</table>
{{end}}<h2>Precincts</h2>
<ul>
{{range .PrecinctNames}}<li>{{truncate . 80}}</li>
{{end}}</ul>
</body>
</html>
`

//Personal.AI order the ending

package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/precinct-analytics/internal/testutil"
	"github.com/turtacn/precinct-analytics/pkg/errors"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRenderer() *Renderer {
	return NewRenderer(RendererConfig{Logger: testutil.NewMockLogger(), Clock: func() time.Time { return fixedNow }})
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"markdown": FormatMarkdown, "MD": FormatMarkdown, " html ": FormatHTML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("docx")
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
	assert.Equal(t, []string{"markdown", "html"}, errors.SamplesOf(err))
}

func TestRenderer_Markdown(t *testing.T) {
	p, err := newTestAggregator(t).AggregatePrecincts([]string{testutil.P1, testutil.P2})
	require.NoError(t, err)

	res, err := newTestRenderer().Render(context.Background(), p, FormatMarkdown)
	require.NoError(t, err)

	doc := string(res.Content)
	assert.True(t, strings.HasPrefix(doc, "# Precinct profile\n"))
	assert.Contains(t, doc, "Generated 2026-03-01T12:00:00Z from 2 precinct(s) in City of Lansing.")
	assert.Contains(t, doc, "| Recommended strategy | "+string(p.RecommendedStrategy)+" |")
	assert.Contains(t, doc, "- Lansing 1\n- Lansing 2\n")
	assert.Equal(t, "text/markdown; charset=utf-8", res.ContentType)
	assert.Equal(t, "precincts_report_1772366400.md", res.FileName)
}

func TestRenderer_HTMLEscapesSegmentName(t *testing.T) {
	p, err := newTestAggregator(t).AggregatePrecincts([]string{testutil.P3})
	require.NoError(t, err)
	p.SegmentID = "seg/1"
	p.SegmentName = "<Campus>"

	res, err := newTestRenderer().Render(context.Background(), p, FormatHTML)
	require.NoError(t, err)

	doc := string(res.Content)
	assert.Contains(t, doc, "<h1>&lt;Campus&gt;</h1>")
	assert.NotContains(t, doc, "<Campus>")
	assert.Equal(t, "seg_1_report_1772366400.html", res.FileName)
}

func TestRenderer_StrategyMixOrdered(t *testing.T) {
	p, err := newTestAggregator(t).AggregatePrecincts([]string{testutil.P1, testutil.P2, testutil.P3, testutil.P4, testutil.P5, testutil.P6})
	require.NoError(t, err)

	d := newReportData(p, fixedNow)
	total := 0
	for i, s := range d.Strategies {
		total += s.Count
		if i > 0 {
			assert.GreaterOrEqual(t, d.Strategies[i-1].Count, s.Count)
		}
	}
	assert.Equal(t, 6, total)
}

func TestRenderer_Errors(t *testing.T) {
	r := newTestRenderer()

	_, err := r.Render(context.Background(), nil, FormatMarkdown)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))

	p, err := newTestAggregator(t).AggregatePrecincts([]string{testutil.P1})
	require.NoError(t, err)
	_, err = r.Render(context.Background(), p, Format("pdf"))
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Render(ctx, p, FormatMarkdown)
	assert.ErrorIs(t, err, context.Canceled)
}

//Personal.AI order the ending

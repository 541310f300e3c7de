package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/precinct-analytics/internal/application/canvassing"
	"github.com/turtacn/precinct-analytics/internal/application/comparison"
	"github.com/turtacn/precinct-analytics/internal/application/engine"
	"github.com/turtacn/precinct-analytics/internal/application/lookalike"
	"github.com/turtacn/precinct-analytics/internal/application/reporting"
	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
	"github.com/turtacn/precinct-analytics/internal/testutil"
	"github.com/turtacn/precinct-analytics/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter mounts every handler over an in-memory engine the same way
// the production router does, without middleware.
func newTestRouter(t *testing.T) (*gin.Engine, *engine.Engine) {
	t.Helper()
	eng, err := engine.New(engine.Config{Dataset: testutil.SampleDataset()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })

	r := gin.New()
	ent := NewEntityHandler(eng)
	r.GET("/entities/:type/:id", ent.Get)
	r.POST("/comparisons", ent.Compare)

	u := NewUniverseHandler(eng)
	r.POST("/universes", u.Create)
	r.GET("/universes", u.List)
	r.GET("/universes/:id", u.Get)
	r.DELETE("/universes/:id", u.Delete)
	r.POST("/universes/:id/sort", u.Sort)
	r.GET("/universes/:id/staffing", u.Staffing)
	r.POST("/universes/:id/turfs", u.Turfs)
	r.GET("/universes/:id/summary", u.Summary)
	r.GET("/canvass/route", u.Route)
	r.GET("/canvass/metrics", u.Metrics)
	r.GET("/canvass/defaults", u.Defaults)

	r.POST("/lookalikes", NewLookalikeHandler(eng).Find)
	rep := NewReportHandler(eng)
	r.POST("/reports/profile", rep.Profile)
	r.POST("/reports/render", rep.Render)

	s := NewSegmentHandler(eng)
	r.POST("/segments", s.Save)
	r.GET("/segments", s.List)
	r.GET("/segments/:id", s.Get)
	r.DELETE("/segments/:id", s.Delete)
	return r, eng
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	decode(t, rec, &resp)
	return resp
}

// ─────────────────────────────────────────────────────────────────────────────
// Error mapping
// ─────────────────────────────────────────────────────────────────────────────

func TestWriteAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "client error keeps message",
			err:        errors.New(errors.ErrCodeUniverseNotFound, "universe u-1 not found"),
			wantStatus: http.StatusNotFound,
			wantCode:   string(errors.ErrCodeUniverseNotFound),
			wantMsg:    "universe u-1 not found",
		},
		{
			name:       "server error is masked",
			err:        errors.New(errors.ErrCodeDatabaseError, "pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   string(errors.ErrCodeDatabaseError),
			wantMsg:    errors.DefaultMessageForCode(errors.ErrCodeDatabaseError),
		},
		{
			name:       "plain error",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusInternalServerError,
			wantCode:   string(errors.ErrCodeInternal),
			wantMsg:    errors.DefaultMessageForCode(errors.ErrCodeInternal),
		},
		{
			name:       "wrapped app error",
			err:        errors.Wrap(errors.New(errors.ErrCodeNoMatchingPrecincts, "nothing matched"), errors.ErrCodeNoMatchingPrecincts, "create universe"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   string(errors.ErrCodeNoMatchingPrecincts),
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			writeAppError(c, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, resp.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, resp.Message)
			}
			if tt.wantStatus >= 500 {
				assert.Empty(t, resp.Detail)
			}
			assert.True(t, c.IsAborted())
			assert.Len(t, c.Errors, 1)
		})
	}
}

func TestQueryList(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/x?p=a,b&p=+c+&p=,", nil)
	assert.Equal(t, []string{"a", "b", "c"}, queryList(c, "p"))
	assert.Nil(t, queryList(c, "missing"))
}

// ─────────────────────────────────────────────────────────────────────────────
// Entities
// ─────────────────────────────────────────────────────────────────────────────

func TestEntityHandler_Get(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/entities/precincts/"+testutil.P1, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ent comparison.Entity
	decode(t, rec, &ent)
	assert.Equal(t, testutil.P1, ent.ID)
	assert.Equal(t, "Lansing 1", ent.Name)

	rec = do(t, r, http.MethodGet, "/entities/jurisdictions/lansing", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &ent)
	assert.Equal(t, 2, ent.PrecinctCount)
}

func TestEntityHandler_GetErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/entities/precincts/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, string(errors.ErrCodePrecinctNotFound), resp.Code)
	assert.NotEmpty(t, resp.Samples)

	rec = do(t, r, http.MethodGet, "/entities/counties/x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(errors.ErrCodeUnsupportedBoundaryType), decodeError(t, rec).Code)
}

func TestEntityHandler_Compare(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/comparisons", CompareRequest{
		Left:  EntityRef{ID: testutil.P1},
		Right: EntityRef{ID: testutil.JurisdictionMeridian, Type: precinct.BoundaryJurisdictions},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res comparison.Result
	decode(t, rec, &res)
	assert.Equal(t, testutil.P1, res.Left.ID)
	assert.Equal(t, testutil.JurisdictionMeridian, res.Right.ID)
	assert.NotEmpty(t, res.Differences.Demographics)

	rec = do(t, r, http.MethodPost, "/comparisons", map[string]interface{}{"left": map[string]string{"id": testutil.P1}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(errors.ErrCodeBadRequest), decodeError(t, rec).Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Universes
// ─────────────────────────────────────────────────────────────────────────────

func TestUniverseHandler_Lifecycle(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/universes", CreateUniverseRequest{
		Name:        "Lansing core",
		PrecinctIDs: []string{testutil.P1, testutil.P2, testutil.P3},
		SortBy:      string(canvassing.SortByDoors),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var u canvassing.Universe
	decode(t, rec, &u)
	require.NotEmpty(t, u.ID)
	assert.Equal(t, 3, u.TotalPrecincts)
	assert.Equal(t, canvassing.SortByDoors, u.SortKey)

	rec = do(t, r, http.MethodGet, "/universes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list ListResponse[canvassing.Universe]
	decode(t, rec, &list)
	assert.Equal(t, 1, list.Total)

	rec = do(t, r, http.MethodPost, "/universes/"+u.ID+"/sort?by=gotv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &u)
	assert.Equal(t, canvassing.SortByGOTV, u.SortKey)

	rec = do(t, r, http.MethodGet, "/universes/"+u.ID+"/staffing?days=7&hours_per_shift=4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var plan canvassing.StaffingPlan
	decode(t, rec, &plan)
	assert.Equal(t, 7, plan.Days)
	assert.Equal(t, u.TotalEstimatedDoors, plan.TotalDoors)
	assert.Equal(t, 100.0, plan.CoveragePercent)

	rec = do(t, r, http.MethodGet, "/universes/"+u.ID+"/staffing?days=1&hours_per_shift=1&volunteers=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var capped canvassing.StaffingPlan
	decode(t, rec, &capped)
	assert.Less(t, capped.CoveragePercent, 100.0)
	assert.Positive(t, capped.VolunteerShortfall)

	rec = do(t, r, http.MethodGet, "/universes/"+u.ID+"/staffing?days=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/universes/"+u.ID+"/turfs", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var turfs ListResponse[canvassing.Turf]
	decode(t, rec, &turfs)
	assert.NotZero(t, turfs.Total)

	rec = do(t, r, http.MethodPost, "/universes/"+u.ID+"/turfs", canvassing.TurfOptions{MaxTurfs: 1})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &turfs)
	assert.Equal(t, 1, turfs.Total)

	rec = do(t, r, http.MethodGet, "/universes/"+u.ID+"/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sum canvassing.Summary
	decode(t, rec, &sum)
	assert.Equal(t, "Lansing core", sum.Name)
	assert.Equal(t, 3, sum.TotalPrecincts)

	rec = do(t, r, http.MethodDelete, "/universes/"+u.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, r, http.MethodGet, "/universes/"+u.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(errors.ErrCodeUniverseNotFound), decodeError(t, rec).Code)
}

func TestUniverseHandler_CreateValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		name       string
		req        CreateUniverseRequest
		wantStatus int
		wantCode   errors.ErrorCode
	}{
		{"no source", CreateUniverseRequest{Name: "x"}, http.StatusBadRequest, errors.ErrCodeBadRequest},
		{"two sources", CreateUniverseRequest{Name: "x", PrecinctIDs: []string{testutil.P1}, SegmentID: "s"}, http.StatusBadRequest, errors.ErrCodeBadRequest},
		{"missing name", CreateUniverseRequest{PrecinctIDs: []string{testutil.P1}}, http.StatusBadRequest, errors.ErrCodeBadRequest},
		{"no matches", CreateUniverseRequest{Name: "x", PrecinctIDs: []string{"nowhere"}}, http.StatusUnprocessableEntity, errors.ErrCodeNoMatchingPrecincts},
		{"empty precinct list", CreateUniverseRequest{Name: "x", PrecinctIDs: []string{}}, http.StatusUnprocessableEntity, errors.ErrCodeNoMatchingPrecincts},
		{"empty list plus segment", CreateUniverseRequest{Name: "x", PrecinctIDs: []string{}, SegmentID: "s"}, http.StatusBadRequest, errors.ErrCodeBadRequest},
		{"unknown segment", CreateUniverseRequest{SegmentID: "missing"}, http.StatusNotFound, errors.ErrCodeSegmentNotFound},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, http.MethodPost, "/universes", tt.req)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, string(tt.wantCode), decodeError(t, rec).Code)
		})
	}
}

func TestUniverseHandler_FromSegmentResults(t *testing.T) {
	r, eng := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/universes", CreateUniverseRequest{
		Name:           "ad hoc",
		SegmentResults: testutil.SegmentRows(eng.Dataset(), testutil.P4, testutil.P5),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var u canvassing.Universe
	decode(t, rec, &u)
	assert.Equal(t, 2, u.TotalPrecincts)

	rec = do(t, r, http.MethodGet, "/segments/"+u.SegmentID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var seg precinct.SegmentDefinition
	decode(t, rec, &seg)
	assert.Equal(t, []string{testutil.P4, testutil.P5}, seg.PrecinctIDs())
}

func TestUniverseHandler_Canvass(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/canvass/route?precincts="+testutil.P1+","+testutil.P3+"&precincts="+testutil.P2, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var route canvassing.RouteSuggestion
	decode(t, rec, &route)
	assert.ElementsMatch(t, []string{testutil.P1, testutil.P2, testutil.P3}, route.OptimalOrder)
	assert.NotEmpty(t, route.Tips)

	rec = do(t, r, http.MethodGet, "/canvass/metrics?precincts="+testutil.P1, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var m canvassing.Metrics
	decode(t, rec, &m)
	assert.Positive(t, m.TotalDoors)

	rec = do(t, r, http.MethodGet, "/canvass/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &m)
	assert.Zero(t, m.TotalDoors)

	rec = do(t, r, http.MethodGet, "/canvass/defaults", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cfg canvassing.Config
	decode(t, rec, &cfg)
	assert.Positive(t, cfg.TargetDoorsPerTurf)
}

// ─────────────────────────────────────────────────────────────────────────────
// Lookalikes, reports, segments
// ─────────────────────────────────────────────────────────────────────────────

func TestLookalikeHandler_Find(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/lookalikes", lookalike.Profile{
		SourcePrecinctIDs: []string{testutil.P1},
		ExcludeSources:    true,
		MaxResults:        3,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res lookalike.Results
	decode(t, rec, &res)
	assert.LessOrEqual(t, len(res.Matches), 3)
	for _, m := range res.Matches {
		assert.NotEqual(t, testutil.P1, m.PrecinctID)
	}

	rec = do(t, r, http.MethodPost, "/lookalikes", lookalike.Profile{
		SourcePrecinctIDs: []string{testutil.P1},
		Algorithm:         "telepathy",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(errors.ErrCodeSimilarityAlgorithmInvalid), decodeError(t, rec).Code)

	rec = do(t, r, http.MethodPost, "/lookalikes", lookalike.Profile{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(errors.ErrCodeLookalikeReferenceInvalid), decodeError(t, rec).Code)
}

func TestReportHandler_Profile(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/reports/profile", ProfileRequest{PrecinctIDs: []string{testutil.P1, testutil.P2}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var p reporting.AggregatedProfile
	decode(t, rec, &p)
	assert.Equal(t, 2, p.PrecinctCount)
	assert.Equal(t, []string{"City of Lansing"}, p.Jurisdictions)

	rec = do(t, r, http.MethodPost, "/reports/profile", ProfileRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/reports/profile", ProfileRequest{SegmentID: "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(errors.ErrCodeSegmentNotFound), decodeError(t, rec).Code)
}

func TestReportHandler_Render(t *testing.T) {
	r, _ := newTestRouter(t)
	body := ProfileRequest{PrecinctIDs: []string{testutil.P1, testutil.P2}}

	rec := do(t, r, http.MethodPost, "/reports/render", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".md")
	assert.Contains(t, rec.Body.String(), "# Precinct profile")
	assert.Contains(t, rec.Body.String(), "- Lansing 1")

	rec = do(t, r, http.MethodPost, "/reports/render?format=html", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Precinct profile</h1>")

	rec = do(t, r, http.MethodPost, "/reports/render?format=pdf", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, []string{"markdown", "html"}, resp.Samples)
}

func TestSegmentHandler_Lifecycle(t *testing.T) {
	r, eng := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/segments", precinct.SegmentDefinition{
		ID:      "seg-core",
		Name:    "Lansing core",
		Results: testutil.SegmentRows(eng.Dataset(), testutil.P1, testutil.P2),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, r, http.MethodGet, "/segments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list ListResponse[precinct.SegmentDefinition]
	decode(t, rec, &list)
	assert.Equal(t, 1, list.Total)

	rec = do(t, r, http.MethodGet, "/segments/seg-core", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var seg precinct.SegmentDefinition
	decode(t, rec, &seg)
	assert.Equal(t, []string{testutil.P1, testutil.P2}, seg.PrecinctIDs())

	rec = do(t, r, http.MethodPost, "/universes", CreateUniverseRequest{SegmentID: "seg-core"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var u canvassing.Universe
	decode(t, rec, &u)
	assert.Equal(t, "Lansing core", u.Name)
	assert.Equal(t, 2, u.TotalPrecincts)
	assert.Equal(t, "seg-core", u.SegmentID)

	rec = do(t, r, http.MethodPost, "/reports/profile", ProfileRequest{SegmentID: "seg-core"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodDelete, "/segments/seg-core", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, r, http.MethodGet, "/segments/seg-core", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Health
// ─────────────────────────────────────────────────────────────────────────────

func TestHealthHandler(t *testing.T) {
	healthy := CheckFunc("store", func(context.Context) error { return nil })
	broken := CheckFunc("cache", func(context.Context) error { return errors.New(errors.ErrCodeCacheError, "down") })

	r := gin.New()
	ok := NewHealthHandler("1.2.3", healthy)
	bad := NewHealthHandler("1.2.3", healthy, broken)
	r.GET("/healthz", ok.Liveness)
	r.GET("/readyz", ok.Readiness)
	r.GET("/readyz-bad", bad.Readiness)

	rec := do(t, r, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var live LivenessResponse
	decode(t, rec, &live)
	assert.Equal(t, "alive", live.Status)
	assert.Equal(t, "1.2.3", live.Version)

	rec = do(t, r, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ready ReadinessResponse
	decode(t, rec, &ready)
	assert.Equal(t, "ready", ready.Status)
	assert.Equal(t, "healthy", ready.Components["store"].Status)

	rec = do(t, r, http.MethodGet, "/readyz-bad", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	decode(t, rec, &ready)
	assert.Equal(t, "not_ready", ready.Status)
	assert.Equal(t, "unhealthy", ready.Components["cache"].Status)
	assert.NotEmpty(t, ready.Components["cache"].Error)
}

//Personal.AI order the ending

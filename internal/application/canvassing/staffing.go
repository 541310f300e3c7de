package canvassing

import (
	"math"

	"github.com/turtacn/precinct-analytics/internal/domain/scoring"
	"github.com/turtacn/precinct-analytics/pkg/errors"
)

// StaffingRequest parameterizes PlanStaffing.  VolunteersAvailable caps the
// shifts that can be worked each day; zero means unlimited.
type StaffingRequest struct {
	Days                int     `json:"days"`
	HoursPerShift       float64 `json:"hours_per_shift"`
	VolunteersAvailable int     `json:"volunteers_available,omitempty"`
}

// StaffingPlan is the volunteer schedule needed to work a universe.
// CoveragePercent is the share of doors the staffed shifts can knock; it is
// below 100 only when VolunteersAvailable is smaller than VolunteersPerDay.
type StaffingPlan struct {
	Days                int     `json:"days"`
	HoursPerShift       float64 `json:"hours_per_shift"`
	TotalDoors          int     `json:"total_doors"`
	TotalHours          int     `json:"total_hours"`
	TotalShifts         int     `json:"total_shifts"`
	ShiftsPerDay        int     `json:"shifts_per_day"`
	VolunteersPerDay    int     `json:"volunteers_per_day"`
	VolunteersAvailable int     `json:"volunteers_available,omitempty"`
	VolunteerShortfall  int     `json:"volunteer_shortfall"`
	ExpectedContacts    int     `json:"expected_contacts"`
	CoveragePercent     float64 `json:"coverage_percent"`
}

// EstimateStaffing plans shifts for working u over days with shifts of
// hoursPerShift hours, assuming enough volunteers.  One volunteer works one
// shift per day.
func (s *Service) EstimateStaffing(u *Universe, days int, hoursPerShift float64) (*StaffingPlan, error) {
	return s.PlanStaffing(u, StaffingRequest{Days: days, HoursPerShift: hoursPerShift})
}

// PlanStaffing is EstimateStaffing with an optional cap on volunteers per
// day.  With a cap, expected contacts and coverage scale down to the doors the
// capped shifts can reach.
func (s *Service) PlanStaffing(u *Universe, req StaffingRequest) (*StaffingPlan, error) {
	if u == nil {
		return nil, errors.InvalidParam("canvassing: universe is required")
	}
	if req.Days <= 0 {
		return nil, errors.InvalidParam("canvassing: days must be positive")
	}
	h := req.HoursPerShift
	if h <= 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return nil, errors.InvalidParam("canvassing: hours per shift must be positive")
	}
	if req.VolunteersAvailable < 0 {
		return nil, errors.InvalidParam("canvassing: volunteers available must not be negative")
	}

	c := u.Config.withDefaults(s.defaults)
	totalShifts := int(math.Ceil(float64(u.EstimatedHours) / h))
	shiftsPerDay := int(math.Ceil(float64(totalShifts) / float64(req.Days)))

	plan := &StaffingPlan{
		Days:                req.Days,
		HoursPerShift:       h,
		TotalDoors:          u.TotalEstimatedDoors,
		TotalHours:          u.EstimatedHours,
		TotalShifts:         totalShifts,
		ShiftsPerDay:        shiftsPerDay,
		VolunteersPerDay:    shiftsPerDay,
		VolunteersAvailable: req.VolunteersAvailable,
		CoveragePercent:     100,
	}
	reachable := float64(u.TotalEstimatedDoors)
	if req.VolunteersAvailable > 0 && req.VolunteersAvailable < shiftsPerDay && u.TotalEstimatedDoors > 0 {
		plan.VolunteerShortfall = shiftsPerDay - req.VolunteersAvailable
		capacity := float64(req.VolunteersAvailable*req.Days) * h * float64(c.TargetDoorsPerHour)
		reachable = math.Min(reachable, capacity)
		plan.CoveragePercent = reachable / float64(u.TotalEstimatedDoors) * 100
	}
	plan.ExpectedContacts = int(math.Round(reachable * c.TargetContactRate))
	return plan, nil
}

// Summary is a read-only projection of a universe.
type Summary struct {
	Name                string                   `json:"name"`
	SegmentID           string                   `json:"segment_id,omitempty"`
	TotalPrecincts      int                      `json:"total_precincts"`
	TotalDoors          int                      `json:"total_doors"`
	TotalTurfs          int                      `json:"total_turfs"`
	EstimatedHours      int                      `json:"estimated_hours"`
	VolunteersEightHour int                      `json:"volunteers_8h_shifts"`
	VolunteersFourHour  int                      `json:"volunteers_4h_shifts"`
	ExpectedContacts    int                      `json:"expected_contacts"`
	TopPrecincts        []Entry                  `json:"top_precincts"`
	StrategyBreakdown   map[scoring.Strategy]int `json:"strategy_breakdown"`
}

// GenerateSummary projects u without modifying it.  TopPrecincts follows the
// universe's current order.
func (s *Service) GenerateSummary(u *Universe) *Summary {
	if u == nil {
		return &Summary{StrategyBreakdown: map[scoring.Strategy]int{}}
	}
	c := u.Config.withDefaults(s.defaults)
	top := u.Precincts
	if len(top) > SummaryTopN {
		top = top[:SummaryTopN]
	}
	breakdown := make(map[scoring.Strategy]int)
	for i := range u.Precincts {
		breakdown[u.Precincts[i].TargetingStrategy]++
	}
	return &Summary{
		Name:                u.Name,
		SegmentID:           u.SegmentID,
		TotalPrecincts:      u.TotalPrecincts,
		TotalDoors:          u.TotalEstimatedDoors,
		TotalTurfs:          u.EstimatedTurfs,
		EstimatedHours:      u.EstimatedHours,
		VolunteersEightHour: int(math.Ceil(float64(u.EstimatedHours) / 8)),
		VolunteersFourHour:  int(math.Ceil(float64(u.EstimatedHours) / 4)),
		ExpectedContacts:    int(math.Round(float64(u.TotalEstimatedDoors) * c.TargetContactRate)),
		TopPrecincts:        append([]Entry(nil), top...),
		StrategyBreakdown:   breakdown,
	}
}

//Personal.AI order the ending

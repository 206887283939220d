package timesheet

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/contractor"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/project"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/timeentry"
)

// fetchPageSize bounds the chunked entry reads behind BuildTimesheet.
const fetchPageSize = 500

// ProjectRollup is one project bucket of a timesheet. Entries without a
// project land in the bucket with an empty project id.
type ProjectRollup struct {
	ProjectID      string  `json:"project_id"`
	Entries        int     `json:"entries"`
	TotalHours     float64 `json:"total_hours"`
	BillableHours  float64 `json:"billable_hours"`
	HourlyRate     float64 `json:"hourly_rate"`
	BillableAmount float64 `json:"billable_amount"`
}

type DateRollup struct {
	Date            string  `json:"date"`
	Entries         int     `json:"entries"`
	TotalHours      float64 `json:"total_hours"`
	RegularHours    float64 `json:"regular_hours"`
	OvertimeHours   float64 `json:"overtime_hours"`
	DoubleTimeHours float64 `json:"double_time_hours"`
}

type Summary struct {
	Entries          int            `json:"entries"`
	TotalHours       float64        `json:"total_hours"`
	RegularHours     float64        `json:"regular_hours"`
	OvertimeHours    float64        `json:"overtime_hours"`
	DoubleTimeHours  float64        `json:"double_time_hours"`
	BillableHours    float64        `json:"billable_hours"`
	NonBillableHours float64        `json:"non_billable_hours"`
	StatusCounts     map[string]int `json:"status_counts"`
}

type Timesheet struct {
	ContractorID string          `json:"contractor_id"`
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	ByProject    []ProjectRollup `json:"by_project"`
	ByDate       []DateRollup    `json:"by_date"`
	Summary      Summary         `json:"summary"`
}

// Rates carries the hourly rates used to price billable hours. A project
// rate wins; a contractor's default rate is the fallback.
type Rates struct {
	ByProject map[string]float64
	Default   map[string]float64 // contractor id -> default hourly rate
}

func (r Rates) resolve(e timeentry.TimeEntry) float64 {
	if e.ProjectID != nil {
		if rate, ok := r.ByProject[*e.ProjectID]; ok {
			return rate
		}
	}
	return r.Default[e.ContractorID]
}

// Summarize rolls a fetched entry set up by project and by calendar date.
// It never mutates the entries; the hour fields are taken as stored.
func Summarize(entries []timeentry.TimeEntry, rates Rates) (byProject []ProjectRollup, byDate []DateRollup, summary Summary) {
	projects := make(map[string]*ProjectRollup)
	dates := make(map[string]*DateRollup)
	summary.StatusCounts = make(map[string]int)

	for _, e := range entries {
		projectID := ""
		if e.ProjectID != nil {
			projectID = *e.ProjectID
		}
		p, ok := projects[projectID]
		if !ok {
			p = &ProjectRollup{ProjectID: projectID, HourlyRate: rates.resolve(e)}
			projects[projectID] = p
		}
		p.Entries++
		p.TotalHours = round2(p.TotalHours + e.TotalHours)
		p.BillableHours = round2(p.BillableHours + e.BillableHours)

		day := e.WorkDate.Format("2006-01-02")
		d, ok := dates[day]
		if !ok {
			d = &DateRollup{Date: day}
			dates[day] = d
		}
		d.Entries++
		d.TotalHours = round2(d.TotalHours + e.TotalHours)
		d.RegularHours = round2(d.RegularHours + e.RegularHours)
		d.OvertimeHours = round2(d.OvertimeHours + e.OvertimeHours)
		d.DoubleTimeHours = round2(d.DoubleTimeHours + e.DoubleTimeHours)

		summary.Entries++
		summary.TotalHours = round2(summary.TotalHours + e.TotalHours)
		summary.RegularHours = round2(summary.RegularHours + e.RegularHours)
		summary.OvertimeHours = round2(summary.OvertimeHours + e.OvertimeHours)
		summary.DoubleTimeHours = round2(summary.DoubleTimeHours + e.DoubleTimeHours)
		summary.BillableHours = round2(summary.BillableHours + e.BillableHours)
		summary.NonBillableHours = round2(summary.NonBillableHours + e.NonBillableHours)
		summary.StatusCounts[string(e.Status)]++
	}

	for _, p := range projects {
		p.BillableAmount = round2(p.BillableHours * p.HourlyRate)
		byProject = append(byProject, *p)
	}
	sort.Slice(byProject, func(i, j int) bool { return byProject[i].ProjectID < byProject[j].ProjectID })

	for _, d := range dates {
		byDate = append(byDate, *d)
	}
	sort.Slice(byDate, func(i, j int) bool { return byDate[i].Date < byDate[j].Date })

	return byProject, byDate, summary
}

type TimesheetServiceImpl struct {
	entryRepo      timeentry.TimeEntryRepository
	projectRepo    project.ProjectRepository
	contractorRepo contractor.ContractorRepository
}

func NewTimesheetService(
	entryRepo timeentry.TimeEntryRepository,
	projectRepo project.ProjectRepository,
	contractorRepo contractor.ContractorRepository,
) *TimesheetServiceImpl {
	return &TimesheetServiceImpl{
		entryRepo:      entryRepo,
		projectRepo:    projectRepo,
		contractorRepo: contractorRepo,
	}
}

// BuildTimesheet fetches the contractor's entries in [start, end] and
// rolls them up with rates resolved from the store.
func (s *TimesheetServiceImpl) BuildTimesheet(ctx context.Context, tenantID, contractorID string, start, end time.Time) (Timesheet, error) {
	if end.Before(start) {
		return Timesheet{}, errors.New("end date precedes start date")
	}
	if _, err := s.contractorRepo.GetByID(ctx, contractorID, tenantID); err != nil {
		if errors.Is(err, contractor.ErrContractorNotFound) {
			return Timesheet{}, contractor.ErrContractorNotFound
		}
		return Timesheet{}, fmt.Errorf("failed to get contractor: %w", err)
	}

	entries, err := s.fetchEntries(ctx, tenantID, contractorID, start, end)
	if err != nil {
		return Timesheet{}, err
	}

	rates, err := s.resolveRates(ctx, tenantID, contractorID, entries)
	if err != nil {
		return Timesheet{}, err
	}

	byProject, byDate, summary := Summarize(entries, rates)
	return Timesheet{
		ContractorID: contractorID,
		StartDate:    start.Format("2006-01-02"),
		EndDate:      end.Format("2006-01-02"),
		ByProject:    byProject,
		ByDate:       byDate,
		Summary:      summary,
	}, nil
}

func (s *TimesheetServiceImpl) fetchEntries(ctx context.Context, tenantID, contractorID string, start, end time.Time) ([]timeentry.TimeEntry, error) {
	startStr := start.Format("2006-01-02")
	endStr := end.Format("2006-01-02")

	var entries []timeentry.TimeEntry
	for page := 1; ; page++ {
		filter := timeentry.EntryFilter{
			ContractorID: &contractorID,
			StartDate:    &startStr,
			EndDate:      &endStr,
			Page:         page,
			Limit:        fetchPageSize,
			SortBy:       "work_date",
			SortOrder:    "asc",
		}
		batch, total, err := s.entryRepo.List(ctx, filter, tenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to list time entries: %w", err)
		}
		entries = append(entries, batch...)
		if len(batch) == 0 || int64(len(entries)) >= total {
			break
		}
	}
	return entries, nil
}

func (s *TimesheetServiceImpl) resolveRates(ctx context.Context, tenantID, contractorID string, entries []timeentry.TimeEntry) (Rates, error) {
	seen := make(map[string]bool)
	var projectIDs []string
	for _, e := range entries {
		if e.ProjectID != nil && !seen[*e.ProjectID] {
			seen[*e.ProjectID] = true
			projectIDs = append(projectIDs, *e.ProjectID)
		}
	}

	rates := Rates{ByProject: map[string]float64{}, Default: map[string]float64{}}
	if len(projectIDs) > 0 {
		byProject, err := s.projectRepo.GetRates(ctx, tenantID, projectIDs)
		if err != nil {
			return Rates{}, fmt.Errorf("failed to get project rates: %w", err)
		}
		rates.ByProject = byProject
	}
	defaults, err := s.contractorRepo.GetDefaultRates(ctx, tenantID, []string{contractorID})
	if err != nil {
		return Rates{}, fmt.Errorf("failed to get contractor default rates: %w", err)
	}
	rates.Default = defaults
	return rates, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/exxata/connect-api/internal/auth"
	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/mapper"
	"github.com/exxata/connect-api/internal/repository"
)

// ActivityService handles business logic for project activities
type ActivityService struct {
	activityRepo   *repository.ActivityRepository
	projectService *ProjectService
	logger         *zap.Logger
}

// NewActivityService creates a new ActivityService
func NewActivityService(
	activityRepo *repository.ActivityRepository,
	projectService *ProjectService,
	logger *zap.Logger,
) *ActivityService {
	return &ActivityService{
		activityRepo:   activityRepo,
		projectService: projectService,
		logger:         logger,
	}
}

// Create adds an activity to a project.
// The date range is validated here and only here: legacy rows with an
// end date before the start date keep loading untouched.
func (s *ActivityService) Create(ctx context.Context, projectID uuid.UUID, req *domain.CreateActivityRequest) (*domain.ProjectActivityDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionEditProjects) {
		return nil, ErrPermissionDenied
	}
	if _, err := s.projectService.visibleProject(ctx, projectID); err != nil {
		return nil, err
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, ErrInvalidDateRange
	}

	status := req.Status
	if status == "" {
		status = domain.ActivityStatusTodo
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, status)
	}

	activity := &domain.ProjectActivity{
		ProjectID:  projectID,
		CustomID:   req.CustomID,
		Title:      req.Title,
		AssignedTo: req.AssignedTo,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Status:     status,
		CreatedBy:  &userCtx.UserID,
	}

	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	s.logger.Info("activity created",
		zap.String("projectID", projectID.String()),
		zap.String("activityID", activity.ID.String()))

	return mapper.ToProjectActivityDTO(activity), nil
}

// Update replaces the mutable fields of an activity
func (s *ActivityService) Update(ctx context.Context, projectID, activityID uuid.UUID, req *domain.UpdateActivityRequest) (*domain.ProjectActivityDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionEditProjects) {
		return nil, ErrPermissionDenied
	}

	activity, err := s.projectActivity(ctx, projectID, activityID)
	if err != nil {
		return nil, err
	}

	if req.Status != "" && !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, req.Status)
	}

	activity.CustomID = req.CustomID
	activity.Title = req.Title
	activity.AssignedTo = req.AssignedTo
	activity.StartDate = req.StartDate
	activity.EndDate = req.EndDate
	if req.Status != "" {
		activity.Status = req.Status
	}

	if err := s.activityRepo.Update(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}

	return mapper.ToProjectActivityDTO(activity), nil
}

// Delete removes an activity from a project
func (s *ActivityService) Delete(ctx context.Context, projectID, activityID uuid.UUID) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionEditProjects) {
		return ErrPermissionDenied
	}

	if _, err := s.projectActivity(ctx, projectID, activityID); err != nil {
		return err
	}

	if err := s.activityRepo.Delete(ctx, activityID); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil
}

// Duplicate clones an activity into the slot right after the original:
// both dates shift forward by the original duration plus one day and the
// copy starts over as "A Fazer".
func (s *ActivityService) Duplicate(ctx context.Context, projectID, activityID uuid.UUID) (*domain.ProjectActivityDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionEditProjects) {
		return nil, ErrPermissionDenied
	}

	original, err := s.projectActivity(ctx, projectID, activityID)
	if err != nil {
		return nil, err
	}

	clone := &domain.ProjectActivity{
		ProjectID:  original.ProjectID,
		CustomID:   original.CustomID,
		Title:      original.Title + " (cópia)",
		AssignedTo: original.AssignedTo,
		Status:     domain.ActivityStatusTodo,
		CreatedBy:  &userCtx.UserID,
	}

	if original.StartDate != nil && original.EndDate != nil {
		shift := original.EndDate.Sub(*original.StartDate) + 24*time.Hour
		start := original.StartDate.Add(shift)
		end := original.EndDate.Add(shift)
		clone.StartDate = &start
		clone.EndDate = &end
	} else {
		clone.StartDate = original.StartDate
		clone.EndDate = original.EndDate
	}

	if err := s.activityRepo.Create(ctx, clone); err != nil {
		return nil, fmt.Errorf("failed to duplicate activity: %w", err)
	}

	s.logger.Info("activity duplicated",
		zap.String("projectID", projectID.String()),
		zap.String("sourceID", activityID.String()),
		zap.String("cloneID", clone.ID.String()))

	return mapper.ToProjectActivityDTO(clone), nil
}

// List returns a project's activities sorted by the requested column.
// customId compares naturally ("AT-2" before "AT-10") which the database
// collation cannot do, so that ordering happens here.
func (s *ActivityService) List(ctx context.Context, projectID uuid.UUID, sortBy string, descending bool) ([]*domain.ProjectActivityDTO, error) {
	if _, err := s.projectService.visibleProject(ctx, projectID); err != nil {
		return nil, err
	}

	var (
		activities []domain.ProjectActivity
		err        error
	)
	if sortBy == "customId" {
		activities, err = s.activityRepo.ListByProject(ctx, projectID, "", false)
		if err == nil {
			sort.SliceStable(activities, func(i, j int) bool {
				less := naturalLess(activities[i].CustomID, activities[j].CustomID)
				if descending {
					return !less
				}
				return less
			})
		}
	} else {
		activities, err = s.activityRepo.ListByProject(ctx, projectID, sortBy, descending)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	items := make([]*domain.ProjectActivityDTO, 0, len(activities))
	for i := range activities {
		items = append(items, mapper.ToProjectActivityDTO(&activities[i]))
	}
	return items, nil
}

// Timeline computes the Gantt window for a project: earliest start
// rounded back to Monday through the latest end, plus one proportional
// bar per dated activity.
func (s *ActivityService) Timeline(ctx context.Context, projectID uuid.UUID) (*domain.ActivityTimelineDTO, error) {
	if _, err := s.projectService.visibleProject(ctx, projectID); err != nil {
		return nil, err
	}

	activities, err := s.activityRepo.ListByProject(ctx, projectID, "startDate", false)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	var windowStart, windowEnd *time.Time
	for i := range activities {
		a := &activities[i]
		if a.StartDate == nil || a.EndDate == nil {
			continue
		}
		if windowStart == nil || a.StartDate.Before(*windowStart) {
			windowStart = a.StartDate
		}
		if windowEnd == nil || a.EndDate.After(*windowEnd) {
			windowEnd = a.EndDate
		}
	}

	timeline := &domain.ActivityTimelineDTO{Bars: []domain.ActivityTimelineBar{}}
	if windowStart == nil || windowEnd == nil {
		return timeline, nil
	}

	start := roundBackToMonday(*windowStart)
	end := *windowEnd
	totalDays := int(end.Sub(start).Hours()/24) + 1
	if totalDays < 1 {
		totalDays = 1
	}

	timeline.WindowStart = start.Format("2006-01-02")
	timeline.WindowEnd = end.Format("2006-01-02")
	timeline.TotalDays = totalDays

	window := float64(totalDays)
	for i := range activities {
		a := &activities[i]
		if a.StartDate == nil || a.EndDate == nil {
			continue
		}
		offset := a.StartDate.Sub(start).Hours() / 24
		span := a.EndDate.Sub(*a.StartDate).Hours()/24 + 1
		timeline.Bars = append(timeline.Bars, domain.ActivityTimelineBar{
			ActivityID: a.ID,
			Title:      a.Title,
			Status:     a.Status,
			OffsetPct:  offset / window * 100,
			WidthPct:   span / window * 100,
		})
	}

	return timeline, nil
}

func (s *ActivityService) projectActivity(ctx context.Context, projectID, activityID uuid.UUID) (*domain.ProjectActivity, error) {
	if _, err := s.projectService.visibleProject(ctx, projectID); err != nil {
		return nil, err
	}

	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	if activity.ProjectID != projectID {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

func roundBackToMonday(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	for t.Weekday() != time.Monday {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

// naturalLess compares the numeric runs inside two IDs as numbers so
// that "AT-2" sorts before "AT-10"
func naturalLess(a, b string) bool {
	ai, bi := 0, 0
	for ai < len(a) && bi < len(b) {
		ar, br := rune(a[ai]), rune(b[bi])
		if unicode.IsDigit(ar) && unicode.IsDigit(br) {
			aStart, bStart := ai, bi
			for ai < len(a) && unicode.IsDigit(rune(a[ai])) {
				ai++
			}
			for bi < len(b) && unicode.IsDigit(rune(b[bi])) {
				bi++
			}
			an, _ := strconv.Atoi(a[aStart:ai])
			bn, _ := strconv.Atoi(b[bStart:bi])
			if an != bn {
				return an < bn
			}
			continue
		}
		if ar != br {
			return ar < br
		}
		ai++
		bi++
	}
	return len(a)-ai < len(b)-bi
}

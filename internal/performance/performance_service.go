package performance

import (
	"context"
	"errors"
	"strings"
	"time"

	performanceerrors "dataguard-hris/internal/performance/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// cycleTransitions is the forward-only status chain.
var cycleTransitions = map[string]string{
	CycleStatusDraft:  CycleStatusActive,
	CycleStatusActive: CycleStatusReview,
	CycleStatusReview: CycleStatusClosed,
}

type Service interface {
	CreateCycle(ctx context.Context, req CreateCycleRequest) (CycleResponse, error)
	ListCycles(ctx context.Context, canSeeAll bool) ([]CycleResponse, error)
	AdvanceCycle(ctx context.Context, cycleID string, req UpdateCycleStatusRequest) (CycleResponse, error)

	CreateGoal(ctx context.Context, actorID string, req CreateGoalRequest) (GoalResponse, error)
	ListGoals(ctx context.Context, actorID, cycleID string) ([]GoalResponse, error)
	UpdateGoal(ctx context.Context, actorID, goalID string, req UpdateGoalRequest) (GoalResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("performance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("performance.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) CreateCycle(ctx context.Context, req CreateCycleRequest) (CycleResponse, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return CycleResponse{}, performanceerrors.ErrInvalidDateFormat
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return CycleResponse{}, performanceerrors.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return CycleResponse{}, performanceerrors.ErrInvalidDateRange
	}

	cycle := &Cycle{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		StartDate: start,
		EndDate:   end,
		Status:    CycleStatusDraft,
	}

	if err := s.repo.CreateCycle(ctx, cycle); err != nil {
		s.logger.Error("create cycle failed", zap.Error(err))
		return CycleResponse{}, err
	}

	s.logger.Info("performance cycle created", zap.String("cycle_id", cycle.ID.String()))
	return mapCycle(*cycle), nil
}

func (s *service) ListCycles(ctx context.Context, canSeeAll bool) ([]CycleResponse, error) {
	var statuses []string
	if !canSeeAll {
		statuses = []string{CycleStatusActive, CycleStatusReview}
	}

	cycles, err := s.repo.FindCycles(ctx, statuses)
	if err != nil {
		return nil, err
	}

	out := make([]CycleResponse, 0, len(cycles))
	for _, cycle := range cycles {
		out = append(out, mapCycle(cycle))
	}
	return out, nil
}

func (s *service) AdvanceCycle(ctx context.Context, cycleID string, req UpdateCycleStatusRequest) (CycleResponse, error) {
	id, err := uuid.Parse(cycleID)
	if err != nil {
		return CycleResponse{}, performanceerrors.ErrInvalidCycleID
	}

	cycle, err := s.repo.FindCycleByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CycleResponse{}, performanceerrors.ErrCycleNotFound
		}
		return CycleResponse{}, err
	}

	if cycleTransitions[cycle.Status] != req.Status {
		s.logger.Warn("refused cycle transition",
			zap.String("cycle_id", cycleID),
			zap.String("from", cycle.Status),
			zap.String("to", req.Status),
		)
		return CycleResponse{}, performanceerrors.ErrInvalidCycleTransition
	}

	cycle.Status = req.Status
	if err := s.repo.UpdateCycle(ctx, cycle); err != nil {
		return CycleResponse{}, err
	}

	s.logger.Info("performance cycle advanced",
		zap.String("cycle_id", cycleID),
		zap.String("status", cycle.Status),
	)
	return mapCycle(*cycle), nil
}

func (s *service) CreateGoal(ctx context.Context, actorID string, req CreateGoalRequest) (GoalResponse, error) {
	userID, err := uuid.Parse(actorID)
	if err != nil {
		return GoalResponse{}, performanceerrors.ErrInvalidActorID
	}
	cycleID, err := uuid.Parse(req.CycleID)
	if err != nil {
		return GoalResponse{}, performanceerrors.ErrInvalidCycleID
	}

	cycle, err := s.repo.FindCycleByID(ctx, cycleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GoalResponse{}, performanceerrors.ErrCycleNotFound
		}
		return GoalResponse{}, err
	}
	if cycle.Status != CycleStatusActive {
		return GoalResponse{}, performanceerrors.ErrCycleNotActive
	}

	goal := &Goal{
		ID:          uuid.New(),
		CycleID:     cycleID,
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      GoalStatusPending,
	}

	if err := s.repo.CreateGoal(ctx, goal); err != nil {
		return GoalResponse{}, err
	}
	return mapGoal(*goal), nil
}

func (s *service) ListGoals(ctx context.Context, actorID, cycleID string) ([]GoalResponse, error) {
	userID, err := uuid.Parse(actorID)
	if err != nil {
		return nil, performanceerrors.ErrInvalidActorID
	}

	var cycle uuid.UUID
	if cycleID != "" {
		cycle, err = uuid.Parse(cycleID)
		if err != nil {
			return nil, performanceerrors.ErrInvalidCycleID
		}
	}

	goals, err := s.repo.FindGoalsByUser(ctx, userID, cycle)
	if err != nil {
		return nil, err
	}

	out := make([]GoalResponse, 0, len(goals))
	for _, goal := range goals {
		out = append(out, mapGoal(goal))
	}
	return out, nil
}

func (s *service) UpdateGoal(ctx context.Context, actorID, goalID string, req UpdateGoalRequest) (GoalResponse, error) {
	id, err := uuid.Parse(goalID)
	if err != nil {
		return GoalResponse{}, performanceerrors.ErrInvalidGoalID
	}

	goal, err := s.repo.FindGoalByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GoalResponse{}, performanceerrors.ErrGoalNotFound
		}
		return GoalResponse{}, err
	}

	if goal.UserID.String() != actorID {
		return GoalResponse{}, performanceerrors.ErrNotGoalOwner
	}
	if goal.Cycle != nil && goal.Cycle.Status == CycleStatusClosed {
		return GoalResponse{}, performanceerrors.ErrCycleClosed
	}

	if req.Title != nil {
		goal.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	if req.Progress != nil {
		if *req.Progress < 0 || *req.Progress > 100 {
			return GoalResponse{}, performanceerrors.ErrInvalidProgress
		}
		goal.Progress = *req.Progress
	}
	if req.Status != nil {
		goal.Status = *req.Status
		if goal.Status == GoalStatusCompleted {
			goal.Progress = 100
		}
	}

	if err := s.repo.UpdateGoal(ctx, goal); err != nil {
		return GoalResponse{}, err
	}
	return mapGoal(*goal), nil
}

func mapCycle(cycle Cycle) CycleResponse {
	return CycleResponse{
		ID:        cycle.ID.String(),
		Name:      cycle.Name,
		StartDate: cycle.StartDate,
		EndDate:   cycle.EndDate,
		Status:    cycle.Status,
	}
}

func mapGoal(goal Goal) GoalResponse {
	return GoalResponse{
		ID:          goal.ID.String(),
		CycleID:     goal.CycleID.String(),
		UserID:      goal.UserID.String(),
		Title:       goal.Title,
		Description: goal.Description,
		Status:      goal.Status,
		Progress:    goal.Progress,
	}
}

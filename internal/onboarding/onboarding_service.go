package onboarding

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"dataguard-hris/internal/audit"
	onboardingerrors "dataguard-hris/internal/onboarding/errors"
	"dataguard-hris/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	CreateItem(ctx context.Context, actorID string, req CreateItemRequest) (ItemResponse, error)
	ListItems(ctx context.Context) ([]ItemResponse, error)
	UpdateItem(ctx context.Context, itemID string, req UpdateItemRequest) (ItemResponse, error)
	DeleteItem(ctx context.Context, itemID string) error

	Assign(ctx context.Context, actorID string, req AssignRequest) ([]TaskResponse, error)
	ListTasks(ctx context.Context, actorID, targetUserID string, canReadAll bool) ([]TaskResponse, error)
	Toggle(ctx context.Context, actorID, taskID string) (TaskResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	sink   audit.Sink
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, sink audit.Sink, logger ...*zap.Logger) Service {
	l := zap.L().Named("onboarding.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("onboarding.service")
	}
	if sink == nil {
		sink = audit.NopSink{}
	}
	return &service{db: db, repo: repo, sink: sink, logger: l}
}

func (s *service) CreateItem(ctx context.Context, actorID string, req CreateItemRequest) (ItemResponse, error) {
	item := &ChecklistItem{
		ID:           uuid.New(),
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Link:         req.Link,
		RequiredRole: req.RequiredRole,
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		s.logger.Error("create checklist item failed", zap.Error(err))
		return ItemResponse{}, err
	}

	s.logger.Info("checklist item created",
		zap.String("item_id", item.ID.String()),
		zap.String("actor_id", actorID),
	)
	return mapItem(*item), nil
}

func (s *service) ListItems(ctx context.Context) ([]ItemResponse, error) {
	items, err := s.repo.FindItems(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, mapItem(item))
	}
	return out, nil
}

func (s *service) UpdateItem(ctx context.Context, itemID string, req UpdateItemRequest) (ItemResponse, error) {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return ItemResponse{}, onboardingerrors.ErrInvalidItemID
	}

	item, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ItemResponse{}, onboardingerrors.ErrItemNotFound
		}
		return ItemResponse{}, err
	}

	if req.Title != nil {
		item.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Link != nil {
		item.Link = *req.Link
	}
	if req.RequiredRole != nil {
		item.RequiredRole = *req.RequiredRole
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return ItemResponse{}, err
	}
	return mapItem(*item), nil
}

func (s *service) DeleteItem(ctx context.Context, itemID string) error {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return onboardingerrors.ErrInvalidItemID
	}

	if _, err := s.repo.FindItemByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return onboardingerrors.ErrItemNotFound
		}
		return err
	}

	return s.repo.DeleteItem(ctx, id)
}

func (s *service) Assign(ctx context.Context, actorID string, req AssignRequest) ([]TaskResponse, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, onboardingerrors.ErrInvalidUserID
	}

	tasks := make([]*Task, 0, len(req.ItemIDs))
	assignedBy, err := uuid.Parse(actorID)
	if err != nil {
		return nil, onboardingerrors.ErrInvalidUserID
	}

	for _, raw := range req.ItemIDs {
		itemID, err := uuid.Parse(raw)
		if err != nil {
			return nil, onboardingerrors.ErrInvalidItemID
		}
		if _, err := s.repo.FindItemByID(ctx, itemID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, onboardingerrors.ErrItemNotFound
			}
			return nil, err
		}
		tasks = append(tasks, &Task{
			ID:         uuid.New(),
			ItemID:     itemID,
			UserID:     userID,
			Status:     TaskStatusPending,
			AssignedBy: assignedBy,
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.CreateTasks(ctx, tasks); err != nil {
		return nil, mapAssignmentError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("onboarding tasks assigned",
		zap.String("user_id", req.UserID),
		zap.Int("count", len(tasks)),
	)
	s.sink.Write(ctx, audit.Record{
		Action:       "assign_onboarding",
		ResourceType: "onboarding_task",
		ResourceID:   req.UserID,
		ActorID:      actorID,
		Details: map[string]any{
			"user_id":  req.UserID,
			"item_ids": req.ItemIDs,
		},
	})

	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, mapTask(*task))
	}
	return out, nil
}

func (s *service) ListTasks(ctx context.Context, actorID, targetUserID string, canReadAll bool) ([]TaskResponse, error) {
	target := actorID
	if targetUserID != "" && targetUserID != actorID {
		if !canReadAll {
			return nil, apperror.ErrForbidden
		}
		target = targetUserID
	}

	userID, err := uuid.Parse(target)
	if err != nil {
		return nil, onboardingerrors.ErrInvalidUserID
	}

	tasks, err := s.repo.FindTasksByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, mapTask(task))
	}
	return out, nil
}

func (s *service) Toggle(ctx context.Context, actorID, taskID string) (TaskResponse, error) {
	id, err := uuid.Parse(taskID)
	if err != nil {
		return TaskResponse{}, onboardingerrors.ErrInvalidTaskID
	}

	task, err := s.repo.FindTaskByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TaskResponse{}, onboardingerrors.ErrTaskNotFound
		}
		return TaskResponse{}, err
	}

	if task.UserID.String() != actorID {
		return TaskResponse{}, onboardingerrors.ErrNotTaskOwner
	}

	if task.Status == TaskStatusCompleted {
		task.Status = TaskStatusPending
		task.CompletedAt = nil
	} else {
		now := time.Now().UTC()
		task.Status = TaskStatusCompleted
		task.CompletedAt = &now
	}

	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return TaskResponse{}, err
	}
	return mapTask(*task), nil
}

func mapAssignmentError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return onboardingerrors.ErrTaskAlreadyAssigned
	}
	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return onboardingerrors.ErrTaskAlreadyAssigned
	}
	return err
}

func mapItem(item ChecklistItem) ItemResponse {
	return ItemResponse{
		ID:           item.ID.String(),
		Title:        item.Title,
		Description:  item.Description,
		Link:         item.Link,
		RequiredRole: item.RequiredRole,
	}
}

func mapTask(task Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID.String(),
		UserID:      task.UserID.String(),
		Status:      task.Status,
		CompletedAt: task.CompletedAt,
		AssignedBy:  task.AssignedBy.String(),
	}
	if task.Item != nil {
		resp.Item = mapItem(*task.Item)
	}
	return resp
}

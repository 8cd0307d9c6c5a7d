package performance

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateCycle(ctx context.Context, cycle *Cycle) error
	FindCycles(ctx context.Context, statuses []string) ([]Cycle, error)
	FindCycleByID(ctx context.Context, id uuid.UUID) (*Cycle, error)
	UpdateCycle(ctx context.Context, cycle *Cycle) error

	CreateGoal(ctx context.Context, goal *Goal) error
	FindGoalByID(ctx context.Context, id uuid.UUID) (*Goal, error)
	FindGoalsByUser(ctx context.Context, userID, cycleID uuid.UUID) ([]Goal, error)
	UpdateGoal(ctx context.Context, goal *Goal) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) CreateCycle(ctx context.Context, cycle *Cycle) error {
	return r.db.WithContext(ctx).Create(cycle).Error
}

func (r *repository) FindCycles(ctx context.Context, statuses []string) ([]Cycle, error) {
	var cycles []Cycle
	db := r.db.WithContext(ctx).Order("start_date DESC")
	if len(statuses) > 0 {
		db = db.Where("status IN ?", statuses)
	}
	err := db.Find(&cycles).Error
	return cycles, err
}

func (r *repository) FindCycleByID(ctx context.Context, id uuid.UUID) (*Cycle, error) {
	var cycle Cycle
	err := r.db.WithContext(ctx).First(&cycle, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &cycle, nil
}

func (r *repository) UpdateCycle(ctx context.Context, cycle *Cycle) error {
	return r.db.WithContext(ctx).Save(cycle).Error
}

func (r *repository) CreateGoal(ctx context.Context, goal *Goal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *repository) FindGoalByID(ctx context.Context, id uuid.UUID) (*Goal, error) {
	var goal Goal
	err := r.db.WithContext(ctx).Preload("Cycle").First(&goal, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *repository) FindGoalsByUser(ctx context.Context, userID, cycleID uuid.UUID) ([]Goal, error) {
	var goals []Goal
	db := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if cycleID != uuid.Nil {
		db = db.Where("cycle_id = ?", cycleID)
	}
	err := db.Order("created_at ASC").Find(&goals).Error
	return goals, err
}

func (r *repository) UpdateGoal(ctx context.Context, goal *Goal) error {
	return r.db.WithContext(ctx).Save(goal).Error
}

package onboarding

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateItem(ctx context.Context, item *ChecklistItem) error
	FindItems(ctx context.Context) ([]ChecklistItem, error)
	FindItemByID(ctx context.Context, id uuid.UUID) (*ChecklistItem, error)
	UpdateItem(ctx context.Context, item *ChecklistItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error

	CreateTasks(ctx context.Context, tasks []*Task) error
	FindTasksByUser(ctx context.Context, userID uuid.UUID) ([]Task, error)
	FindTaskByID(ctx context.Context, id uuid.UUID) (*Task, error)
	UpdateTask(ctx context.Context, task *Task) error
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

// conn binds gorm statements to the attached transaction when there is
// one, so a batch of task inserts commits or rolls back as a unit.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	if r.tx == nil {
		return r.db.WithContext(ctx)
	}
	txDB, err := gorm.Open(postgres.New(postgres.Config{Conn: r.tx}), &gorm.Config{})
	if err != nil {
		db := r.db.WithContext(ctx)
		_ = db.AddError(err)
		return db
	}
	return txDB.WithContext(ctx)
}

func (r *repository) CreateItem(ctx context.Context, item *ChecklistItem) error {
	return r.conn(ctx).Create(item).Error
}

func (r *repository) FindItems(ctx context.Context) ([]ChecklistItem, error) {
	var items []ChecklistItem
	err := r.conn(ctx).Order("created_at ASC").Find(&items).Error
	return items, err
}

func (r *repository) FindItemByID(ctx context.Context, id uuid.UUID) (*ChecklistItem, error) {
	var item ChecklistItem
	err := r.conn(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) UpdateItem(ctx context.Context, item *ChecklistItem) error {
	return r.conn(ctx).Save(item).Error
}

func (r *repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Delete(&ChecklistItem{}, "id = ?", id).Error
}

func (r *repository) CreateTasks(ctx context.Context, tasks []*Task) error {
	return r.conn(ctx).Create(tasks).Error
}

func (r *repository) FindTasksByUser(ctx context.Context, userID uuid.UUID) ([]Task, error) {
	var tasks []Task
	err := r.conn(ctx).
		Preload("Item").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *repository) FindTaskByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	var task Task
	err := r.conn(ctx).Preload("Item").First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *repository) UpdateTask(ctx context.Context, task *Task) error {
	return r.conn(ctx).Save(task).Error
}

package onboarding

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// ChecklistItem is a reusable library entry. RequiredRole narrows which staff
// the item is meant for; empty means it applies to everyone.
type ChecklistItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title        string    `gorm:"type:varchar(255);not null"`
	Description  string    `gorm:"type:text"`
	Link         string    `gorm:"type:varchar(512)"`
	RequiredRole string    `gorm:"type:varchar(50)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// Task is one checklist item assigned to one user.
type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_onboarding_tasks_item_user"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_onboarding_tasks_item_user;index"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending'"`
	CompletedAt *time.Time
	AssignedBy  uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Item *ChecklistItem `gorm:"foreignKey:ItemID"`
}

func (Task) TableName() string { return "onboarding_tasks" }

func (ChecklistItem) TableName() string { return "onboarding_items" }

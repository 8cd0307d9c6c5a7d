package performance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CycleStatusDraft  = "draft"
	CycleStatusActive = "active"
	CycleStatusReview = "review"
	CycleStatusClosed = "closed"
)

const (
	GoalStatusPending    = "pending"
	GoalStatusInProgress = "in_progress"
	GoalStatusCompleted  = "completed"
	GoalStatusCancelled  = "cancelled"
)

// Cycle is a review period. Status only moves forward:
// draft -> active -> review -> closed.
type Cycle struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(255);not null"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	Status    string    `gorm:"type:varchar(20);not null;default:'draft'"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type Goal struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CycleID     uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending'"`
	Progress    int       `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Cycle *Cycle `gorm:"foreignKey:CycleID"`
}

func (Cycle) TableName() string { return "performance_cycles" }

func (Goal) TableName() string { return "performance_goals" }

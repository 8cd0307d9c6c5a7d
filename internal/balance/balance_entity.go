package balance

import (
	"time"

	"github.com/google/uuid"
)

// Annual defaults for a fresh ledger row. Rows are created lazily the first
// time a user's balance is read or decremented.
const (
	DefaultAnnualTotal = 20
	DefaultSickTotal   = 10
	DefaultCasualTotal = 5
)

const (
	BucketAnnual = "annual"
	BucketSick   = "sick"
	BucketCasual = "casual"
)

type LeaveBalance struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey"`

	AnnualTotal int `gorm:"not null;default:20"`
	AnnualUsed  int `gorm:"not null;default:0"`
	SickTotal   int `gorm:"not null;default:10"`
	SickUsed    int `gorm:"not null;default:0"`
	CasualTotal int `gorm:"not null;default:5"`
	CasualUsed  int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

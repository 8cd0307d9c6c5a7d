package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeAnnual    = "Annual"
	TypeSick      = "Sick"
	TypeCasual    = "Casual"
	TypeMaternity = "Maternity"
	TypePaternity = "Paternity"
	TypeUnpaid    = "Unpaid"
)

// Request lifecycle. pending_manager exists only for requesters with an
// assigned manager; everyone else starts at pending (HR review). approved
// and declined are terminal.
const (
	StatusPendingManager = "pending_manager"
	StatusPending        = "pending"
	StatusApproved       = "approved"
	StatusDeclined       = "declined"
)

type LeaveRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequesterID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_requester"`

	LeaveType string    `gorm:"type:varchar(20);not null"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	Reason    string    `gorm:"type:text;not null"`

	Status              string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_status"`
	ManagerApprovalTime *time.Time
	DecisionTime        *time.Time
	DecidedBy           *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DaySpan is the inclusive number of days the request covers, never below 1.
func (l LeaveRequest) DaySpan() int {
	days := int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return days
}

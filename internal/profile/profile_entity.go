package profile

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CategoryCore    = "core"
	CategorySupport = "support"
)

const (
	CorrectionStatusPending  = "pending"
	CorrectionStatusApproved = "approved"
	CorrectionStatusDeclined = "declined"
)

// Profile shares its primary key with the auth user it describes.
type Profile struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName           string    `gorm:"type:varchar(120);not null"`
	Email              string    `gorm:"type:varchar(120);not null;uniqueIndex"`
	Phone              string    `gorm:"type:varchar(30)"`
	ResidentialAddress string    `gorm:"type:text"`
	EmergencyContact   string    `gorm:"type:varchar(120)"`

	StaffCategory string     `gorm:"type:varchar(10);not null;default:'core'"`
	Role          string     `gorm:"type:varchar(20);not null;default:'core_staff';index:idx_profiles_role"`
	ManagerID     *uuid.UUID `gorm:"type:uuid;index:idx_profiles_manager"`
	Active        bool       `gorm:"not null;default:true"`

	CoreDetail    *CoreStaffDetail    `gorm:"foreignKey:ProfileID"`
	SupportDetail *SupportStaffDetail `gorm:"foreignKey:ProfileID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_profiles_deleted_at"`
}

type CoreStaffDetail struct {
	ProfileID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	JobTitle       string    `gorm:"type:varchar(120)"`
	Department     string    `gorm:"type:varchar(120)"`
	Unit           string    `gorm:"type:varchar(120)"`
	StaffNumber    string    `gorm:"type:varchar(20);uniqueIndex:uq_core_details_staff_number"`
	EmploymentDate time.Time `gorm:"type:date"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type SupportStaffDetail struct {
	ProfileID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProjectAssignment string    `gorm:"type:varchar(160)"`
	ProjectLocation   string    `gorm:"type:varchar(160)"`
	SupervisorName    string    `gorm:"type:varchar(120)"`
	DeploymentStart   time.Time `gorm:"type:date"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Correction is a staff-submitted change request for contact fields. Changes
// holds a field name to new value object and is applied on approval.
type Correction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProfileID uuid.UUID `gorm:"type:uuid;not null;index:idx_corrections_profile"`
	Changes   []byte    `gorm:"type:jsonb;not null"`
	Reason    string    `gorm:"type:text"`

	Status        string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_corrections_status"`
	ReviewedBy    *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt    *time.Time
	DeclineReason *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

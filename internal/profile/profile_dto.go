package profile

type CoreDetailPayload struct {
	JobTitle       string `json:"job_title"`
	Department     string `json:"department"`
	Unit           string `json:"unit"`
	StaffNumber    string `json:"staff_number"`
	EmploymentDate string `json:"employment_date" binding:"omitempty,datetime=2006-01-02"`
}

type SupportDetailPayload struct {
	ProjectAssignment string `json:"project_assignment"`
	ProjectLocation   string `json:"project_location"`
	SupervisorName    string `json:"supervisor_name"`
	DeploymentStart   string `json:"deployment_start" binding:"omitempty,datetime=2006-01-02"`
}

type CreateStaffRequest struct {
	UserID             string                `json:"user_id" binding:"required,uuid"`
	FullName           string                `json:"full_name" binding:"required"`
	Email              string                `json:"email" binding:"required,email"`
	Phone              string                `json:"phone"`
	ResidentialAddress string                `json:"residential_address"`
	EmergencyContact   string                `json:"emergency_contact"`
	StaffCategory      string                `json:"staff_category" binding:"required,oneof=core support"`
	Role               string                `json:"role" binding:"required,oneof=hr_admin line_manager core_staff support_staff"`
	ManagerID          *string               `json:"manager_id" binding:"omitempty,uuid"`
	CoreDetail         *CoreDetailPayload    `json:"core_detail"`
	SupportDetail      *SupportDetailPayload `json:"support_detail"`
}

type UpdateStaffRequest struct {
	FullName           string                `json:"full_name" binding:"required"`
	Email              string                `json:"email" binding:"required,email"`
	Phone              string                `json:"phone"`
	ResidentialAddress string                `json:"residential_address"`
	EmergencyContact   string                `json:"emergency_contact"`
	StaffCategory      string                `json:"staff_category" binding:"required,oneof=core support"`
	Role               string                `json:"role" binding:"required,oneof=hr_admin line_manager core_staff support_staff"`
	ManagerID          *string               `json:"manager_id" binding:"omitempty,uuid"`
	Active             *bool                 `json:"active"`
	CoreDetail         *CoreDetailPayload    `json:"core_detail"`
	SupportDetail      *SupportDetailPayload `json:"support_detail"`
}

type SubmitCorrectionRequest struct {
	Changes map[string]string `json:"changes" binding:"required"`
	Reason  string            `json:"reason"`
}

type RejectCorrectionRequest struct {
	DeclineReason string `json:"decline_reason" binding:"required"`
}

type CoreDetailResponse struct {
	JobTitle       string `json:"job_title"`
	Department     string `json:"department"`
	Unit           string `json:"unit"`
	StaffNumber    string `json:"staff_number"`
	EmploymentDate string `json:"employment_date"`
}

type SupportDetailResponse struct {
	ProjectAssignment string `json:"project_assignment"`
	ProjectLocation   string `json:"project_location"`
	SupervisorName    string `json:"supervisor_name"`
	DeploymentStart   string `json:"deployment_start"`
}

type StaffResponse struct {
	ID                 string                 `json:"id"`
	FullName           string                 `json:"full_name"`
	Email              string                 `json:"email"`
	Phone              string                 `json:"phone,omitempty"`
	ResidentialAddress string                 `json:"residential_address,omitempty"`
	EmergencyContact   string                 `json:"emergency_contact,omitempty"`
	StaffCategory      string                 `json:"staff_category"`
	Role               string                 `json:"role"`
	ManagerID          *string                `json:"manager_id,omitempty"`
	Active             bool                   `json:"active"`
	CoreDetail         *CoreDetailResponse    `json:"core_detail,omitempty"`
	SupportDetail      *SupportDetailResponse `json:"support_detail,omitempty"`
}

// StaffOptionResponse is the slim shape served from the options cache.
type StaffOptionResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type CorrectionResponse struct {
	ID            string            `json:"id"`
	ProfileID     string            `json:"profile_id"`
	Changes       map[string]string `json:"changes"`
	Reason        string            `json:"reason,omitempty"`
	Status        string            `json:"status"`
	ReviewedBy    *string           `json:"reviewed_by,omitempty"`
	ReviewedAt    *string           `json:"reviewed_at,omitempty"`
	DeclineReason *string           `json:"decline_reason,omitempty"`
	CreatedAt     string            `json:"created_at"`
}

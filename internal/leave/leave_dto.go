package leave

type CreateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=Annual Sick Casual Maternity Paternity Unpaid"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"required,min=5"`
}

type LeaveResponse struct {
	ID                  string  `json:"id"`
	RequesterID         string  `json:"requester_id"`
	LeaveType           string  `json:"leave_type"`
	StartDate           string  `json:"start_date"`
	EndDate             string  `json:"end_date"`
	TotalDays           int     `json:"total_days"`
	Reason              string  `json:"reason"`
	Status              string  `json:"status"`
	ManagerApprovalTime *string `json:"manager_approval_time,omitempty"`
	DecisionTime        *string `json:"decision_time,omitempty"`
	DecidedBy           *string `json:"decided_by,omitempty"`
	CreatedAt           string  `json:"created_at"`
}

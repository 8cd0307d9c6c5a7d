package performance

import "time"

type CreateCycleRequest struct {
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type UpdateCycleStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft active review closed"`
}

type CreateGoalRequest struct {
	CycleID     string `json:"cycle_id" binding:"required,uuid"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type UpdateGoalRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,oneof=pending in_progress completed cancelled"`
	Progress    *int    `json:"progress"`
}

type CycleResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status"`
}

type GoalResponse struct {
	ID          string `json:"id"`
	CycleID     string `json:"cycle_id"`
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Progress    int    `json:"progress"`
}

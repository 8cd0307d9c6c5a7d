package onboarding

import "time"

type CreateItemRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	Link         string `json:"link" binding:"omitempty,url"`
	RequiredRole string `json:"required_role" binding:"omitempty,oneof=hr_admin line_manager core_staff support_staff"`
}

type UpdateItemRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Link         *string `json:"link" binding:"omitempty,url"`
	RequiredRole *string `json:"required_role" binding:"omitempty,oneof=hr_admin line_manager core_staff support_staff"`
}

type AssignRequest struct {
	UserID  string   `json:"user_id" binding:"required,uuid"`
	ItemIDs []string `json:"item_ids" binding:"required,min=1,dive,uuid"`
}

type ItemResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Link         string `json:"link,omitempty"`
	RequiredRole string `json:"required_role,omitempty"`
}

type TaskResponse struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Status      string       `json:"status"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	AssignedBy  string       `json:"assigned_by"`
	Item        ItemResponse `json:"item"`
}

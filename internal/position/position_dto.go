package position

import (
	"time"

	"github.com/google/uuid"
)

type CreatePositionRequest struct {
	Code                string  `json:"code" binding:"required"`
	Title               string  `json:"title" binding:"required"`
	DepartmentID        string  `json:"department_id" binding:"required"`
	ReportsToPositionID *string `json:"reports_to_position_id"`
}

type UpdatePositionRequest struct {
	Code                string  `json:"code" binding:"required"`
	Title               string  `json:"title" binding:"required"`
	DepartmentID        string  `json:"department_id" binding:"required"`
	ReportsToPositionID *string `json:"reports_to_position_id"`
}

type PositionResponse struct {
	ID                  string  `json:"id"`
	Code                string  `json:"code"`
	Title               string  `json:"title"`
	DepartmentID        string  `json:"department_id"`
	DepartmentName      string  `json:"department_name"`
	ReportsToPositionID *string `json:"reports_to_position_id"`
	IsActive            bool    `json:"is_active"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

func mapToResponse(post Position) PositionResponse {
	resp := PositionResponse{
		ID:       post.ID.String(),
		Code:     post.Code,
		Title:    post.Title,
		IsActive: post.IsActive,
	}
	if post.DepartmentID != uuid.Nil {
		resp.DepartmentID = post.DepartmentID.String()
	}
	if post.Department != nil {
		resp.DepartmentName = post.Department.Name
	}
	if post.ReportsToPositionID != nil {
		v := post.ReportsToPositionID.String()
		resp.ReportsToPositionID = &v
	}
	if !post.CreatedAt.IsZero() {
		resp.CreatedAt = post.CreatedAt.Format(time.RFC3339)
	}
	if !post.UpdatedAt.IsZero() {
		resp.UpdatedAt = post.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(posts []Position) []PositionResponse {
	res := make([]PositionResponse, len(posts))
	for i, d := range posts {
		res[i] = mapToResponse(d)
	}
	return res
}

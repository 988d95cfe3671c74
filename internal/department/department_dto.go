package department

import "time"

type CreateDepartmentRequest struct {
	Code        string  `json:"code" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Budget      float64 `json:"budget"`
}

type UpdateDepartmentRequest struct {
	Code           string  `json:"code" binding:"required"`
	Name           string  `json:"name" binding:"required"`
	Description    string  `json:"description"`
	Budget         float64 `json:"budget"`
	HeadPositionID *string `json:"head_position_id"`
}

type DepartmentResponse struct {
	ID             string  `json:"id"`
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Budget         float64 `json:"budget"`
	HeadPositionID *string `json:"head_position_id"`
	IsActive       bool    `json:"is_active"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func mapToResponse(dept Department) DepartmentResponse {
	resp := DepartmentResponse{
		ID:          dept.ID.String(),
		Code:        dept.Code,
		Name:        dept.Name,
		Description: dept.Description,
		Budget:      dept.Budget,
		IsActive:    dept.IsActive,
	}
	if dept.HeadPositionID != nil {
		v := dept.HeadPositionID.String()
		resp.HeadPositionID = &v
	}
	if !dept.CreatedAt.IsZero() {
		resp.CreatedAt = dept.CreatedAt.Format(time.RFC3339)
	}
	if !dept.UpdatedAt.IsZero() {
		resp.UpdatedAt = dept.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(depts []Department) []DepartmentResponse {
	res := make([]DepartmentResponse, len(depts))
	for i, d := range depts {
		res[i] = mapToResponse(d)
	}
	return res
}

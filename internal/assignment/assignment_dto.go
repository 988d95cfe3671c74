package assignment

import "time"

type AssignRequest struct {
	EmployeeID      string  `json:"employee_id" binding:"required"`
	PositionID      string  `json:"position_id" binding:"required"`
	StartDate       string  `json:"start_date" binding:"required"`
	ChangeRequestID *string `json:"change_request_id"`
	Reason          string  `json:"reason"`
	Notes           string  `json:"notes"`
}

type EndAssignmentRequest struct {
	EndDate string `json:"end_date" binding:"required"`
	Reason  string `json:"reason"`
}

type AssignmentResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	PositionID      string  `json:"position_id"`
	DepartmentID    string  `json:"department_id"`
	StartDate       string  `json:"start_date"`
	EndDate         *string `json:"end_date"`
	ChangeRequestID *string `json:"change_request_id"`
	Reason          string  `json:"reason"`
	Notes           string  `json:"notes"`
	CreatedAt       string  `json:"created_at"`
}

func mapToResponse(a PositionAssignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:           a.ID.String(),
		EmployeeID:   a.EmployeeID.String(),
		PositionID:   a.PositionID.String(),
		DepartmentID: a.DepartmentID.String(),
		StartDate:    a.StartDate.Format("2006-01-02"),
		Reason:       a.Reason,
		Notes:        a.Notes,
	}
	if a.EndDate != nil {
		v := a.EndDate.Format("2006-01-02")
		resp.EndDate = &v
	}
	if a.ChangeRequestID != nil {
		v := a.ChangeRequestID.String()
		resp.ChangeRequestID = &v
	}
	if !a.CreatedAt.IsZero() {
		resp.CreatedAt = a.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(assignments []PositionAssignment) []AssignmentResponse {
	resp := make([]AssignmentResponse, len(assignments))
	for i, a := range assignments {
		resp[i] = mapToResponse(a)
	}
	return resp
}

package changerequest

import "time"

type CreateChangeRequestRequest struct {
	RequestType        string  `json:"request_type" binding:"required"`
	TargetDepartmentID *string `json:"target_department_id"`
	TargetPositionID   *string `json:"target_position_id"`
	Details            string  `json:"details"`
	Reason             string  `json:"reason" binding:"required"`
}

type UpdateChangeRequestRequest struct {
	TargetDepartmentID *string `json:"target_department_id"`
	TargetPositionID   *string `json:"target_position_id"`
	Details            *string `json:"details"`
	Reason             *string `json:"reason"`
	Status             *string `json:"status"`
}

type DecisionRequest struct {
	Decision string `json:"decision" binding:"required"`
	Comments string `json:"comments"`
}

type ChangeRequestResponse struct {
	ID                 string  `json:"id"`
	RequestNumber      string  `json:"request_number"`
	RequestedBy        string  `json:"requested_by"`
	RequestType        string  `json:"request_type"`
	TargetDepartmentID *string `json:"target_department_id"`
	TargetPositionID   *string `json:"target_position_id"`
	Details            string  `json:"details"`
	Reason             string  `json:"reason"`
	Status             string  `json:"status"`
	SubmittedBy        string  `json:"submitted_by"`
	SubmittedAt        string  `json:"submitted_at"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

type ApprovalResponse struct {
	ID              string  `json:"id"`
	ChangeRequestID string  `json:"change_request_id"`
	Approver        string  `json:"approver"`
	Decision        string  `json:"decision"`
	DecidedAt       *string `json:"decided_at"`
	Comments        string  `json:"comments"`
}

func mapToResponse(cr StructureChangeRequest) ChangeRequestResponse {
	resp := ChangeRequestResponse{
		ID:            cr.ID.String(),
		RequestNumber: cr.RequestNumber,
		RequestedBy:   cr.RequestedByEmployeeID.String(),
		RequestType:   cr.RequestType,
		Details:       cr.Details,
		Reason:        cr.Reason,
		Status:        cr.Status,
		SubmittedBy:   cr.SubmittedByEmployeeID.String(),
		SubmittedAt:   cr.SubmittedAt.Format(time.RFC3339),
	}
	if cr.TargetDepartmentID != nil {
		v := cr.TargetDepartmentID.String()
		resp.TargetDepartmentID = &v
	}
	if cr.TargetPositionID != nil {
		v := cr.TargetPositionID.String()
		resp.TargetPositionID = &v
	}
	if !cr.CreatedAt.IsZero() {
		resp.CreatedAt = cr.CreatedAt.Format(time.RFC3339)
	}
	if !cr.UpdatedAt.IsZero() {
		resp.UpdatedAt = cr.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(requests []StructureChangeRequest) []ChangeRequestResponse {
	resp := make([]ChangeRequestResponse, len(requests))
	for i, cr := range requests {
		resp[i] = mapToResponse(cr)
	}
	return resp
}

func mapApproval(a StructureApproval) ApprovalResponse {
	resp := ApprovalResponse{
		ID:              a.ID.String(),
		ChangeRequestID: a.ChangeRequestID.String(),
		Approver:        a.ApproverEmployeeID.String(),
		Decision:        a.Decision,
		Comments:        a.Comments,
	}
	if a.DecidedAt != nil {
		v := a.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapApprovalList(approvals []StructureApproval) []ApprovalResponse {
	resp := make([]ApprovalResponse, len(approvals))
	for i, a := range approvals {
		resp[i] = mapApproval(a)
	}
	return resp
}

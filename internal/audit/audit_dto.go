package audit

import (
	"encoding/json"
	"time"
)

type ChangeLogResponse struct {
	ID             string          `json:"id"`
	Action         string          `json:"action"`
	EntityType     string          `json:"entity_type"`
	EntityID       string          `json:"entity_id"`
	PerformedBy    *string         `json:"performed_by"`
	Summary        string          `json:"summary"`
	BeforeSnapshot json.RawMessage `json:"before_snapshot,omitempty"`
	AfterSnapshot  json.RawMessage `json:"after_snapshot,omitempty"`
	CreatedAt      string          `json:"created_at"`
}

func mapToResponse(l StructureChangeLog) ChangeLogResponse {
	resp := ChangeLogResponse{
		ID:             l.ID.String(),
		Action:         l.Action,
		EntityType:     l.EntityType,
		EntityID:       l.EntityID,
		Summary:        l.Summary,
		BeforeSnapshot: l.BeforeSnapshot,
		AfterSnapshot:  l.AfterSnapshot,
		CreatedAt:      l.CreatedAt.Format(time.RFC3339),
	}
	if l.PerformedBy != nil {
		v := l.PerformedBy.String()
		resp.PerformedBy = &v
	}
	return resp
}

func mapToListResponse(logs []StructureChangeLog) []ChangeLogResponse {
	resp := make([]ChangeLogResponse, len(logs))
	for i, l := range logs {
		resp[i] = mapToResponse(l)
	}
	return resp
}

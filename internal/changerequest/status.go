package changerequest

import "strings"

const (
	StatusDraft       = "DRAFT"
	StatusSubmitted   = "SUBMITTED"
	StatusUnderReview = "UNDER_REVIEW"
	StatusApproved    = "APPROVED"
	StatusRejected    = "REJECTED"
	StatusCanceled    = "CANCELED"

	// Status lama dari sistem sebelumnya, masih ada di data historis.
	legacyStatusPending = "PENDING"
)

const (
	DecisionPending  = "PENDING"
	DecisionApproved = "APPROVED"
	DecisionRejected = "REJECTED"
)

func IsTerminal(status string) bool {
	switch status {
	case StatusApproved, StatusRejected, StatusCanceled:
		return true
	}
	return false
}

// IsActionable reports whether a request in the given status can still
// receive an approval decision. Comparison is case-insensitive because
// rows migrated from the legacy system carry mixed-case statuses.
func IsActionable(status string) bool {
	switch strings.ToUpper(status) {
	case StatusSubmitted, StatusUnderReview, legacyStatusPending:
		return true
	}
	return false
}

func IsEditable(status string) bool {
	switch status {
	case StatusDraft, StatusSubmitted:
		return true
	}
	return false
}

func IsCancelable(status string) bool {
	switch status {
	case StatusDraft, StatusSubmitted, StatusUnderReview:
		return true
	}
	return false
}

func IsKnownStatus(status string) bool {
	switch status {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected, StatusCanceled:
		return true
	}
	return false
}

package changerequest_test

import (
	"testing"

	"go-orgstructure/internal/changerequest"

	"github.com/stretchr/testify/assert"
)

func TestStatusPredicates(t *testing.T) {
	t.Run("terminal statuses", func(t *testing.T) {
		assert.True(t, changerequest.IsTerminal(changerequest.StatusApproved))
		assert.True(t, changerequest.IsTerminal(changerequest.StatusRejected))
		assert.True(t, changerequest.IsTerminal(changerequest.StatusCanceled))
		assert.False(t, changerequest.IsTerminal(changerequest.StatusSubmitted))
		assert.False(t, changerequest.IsTerminal(changerequest.StatusDraft))
	})

	t.Run("actionable statuses include legacy pending", func(t *testing.T) {
		assert.True(t, changerequest.IsActionable(changerequest.StatusSubmitted))
		assert.True(t, changerequest.IsActionable(changerequest.StatusUnderReview))
		assert.True(t, changerequest.IsActionable("PENDING"))
		assert.True(t, changerequest.IsActionable("pending"))
		assert.True(t, changerequest.IsActionable("Pending"))
		assert.False(t, changerequest.IsActionable(changerequest.StatusDraft))
		assert.False(t, changerequest.IsActionable(changerequest.StatusApproved))
	})

	t.Run("editable and cancelable windows", func(t *testing.T) {
		assert.True(t, changerequest.IsEditable(changerequest.StatusDraft))
		assert.True(t, changerequest.IsEditable(changerequest.StatusSubmitted))
		assert.False(t, changerequest.IsEditable(changerequest.StatusUnderReview))

		assert.True(t, changerequest.IsCancelable(changerequest.StatusUnderReview))
		assert.False(t, changerequest.IsCancelable(changerequest.StatusApproved))
	})
}

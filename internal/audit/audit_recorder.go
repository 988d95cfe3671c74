package audit

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Entry struct {
	Action      string
	EntityType  string
	EntityID    string
	PerformedBy string // empty means system-triggered
	Summary     string
	Before      any
	After       any
}

// Recorder appends one StructureChangeLog row per logical mutation. A failed
// append is an operational alarm, never an error for the triggering
// operation: availability wins over audit completeness here, operators watch
// the "audit append failed" log line instead.
type Recorder struct {
	repo   Repository
	logger *zap.Logger
}

func NewRecorder(repo Repository, logger ...*zap.Logger) *Recorder {
	l := zap.L().Named("audit.recorder")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.recorder")
	}
	return &Recorder{repo: repo, logger: l}
}

func (r *Recorder) Record(ctx context.Context, e Entry) {
	entry := &StructureChangeLog{
		ID:         uuid.New(),
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Summary:    e.Summary,
	}

	if e.PerformedBy != "" {
		if actor, err := uuid.Parse(e.PerformedBy); err == nil {
			entry.PerformedBy = &actor
		}
	}

	entry.BeforeSnapshot = r.snapshot("before", e)
	entry.AfterSnapshot = r.snapshot("after", e)

	if err := r.repo.Create(ctx, entry); err != nil {
		r.logger.Error("audit append failed",
			zap.String("action", e.Action),
			zap.String("entity_type", e.EntityType),
			zap.String("entity_id", e.EntityID),
			zap.Error(err),
		)
	}
}

func (r *Recorder) snapshot(side string, e Entry) []byte {
	var v any
	if side == "before" {
		v = e.Before
	} else {
		v = e.After
	}
	if v == nil {
		return nil
	}
	// Pointer nil yang dibungkus interface tetap dianggap kosong,
	// bukan JSON literal "null".
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil
	}

	body, err := json.Marshal(v)
	if err != nil {
		r.logger.Error("audit snapshot marshal failed",
			zap.String("side", side),
			zap.String("action", e.Action),
			zap.String("entity_id", e.EntityID),
			zap.Error(err),
		)
		return nil
	}
	return body
}

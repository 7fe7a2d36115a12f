package aggregates

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/danfirsten/Standup/internal/pkg/dbctx"
)

// CASGuard performs compare-and-set row updates for versioned records.
type CASGuard struct {
	db *gorm.DB
}

func NewCASGuard(db *gorm.DB) CASGuard {
	return CASGuard{db: db}
}

// UpdateIfCurrent applies updates and bumps version only while the row still
// has the given version and one of statuses. It reports whether a row changed.
func (g CASGuard) UpdateIfCurrent(dbc dbctx.Context, table string, id uuid.UUID, version int, statuses []string, updates map[string]any) (bool, error) {
	if table == "" || id == uuid.Nil || len(statuses) == 0 {
		return false, ValidationError("compare-and-set needs table, id and at least one status")
	}
	q := dbc.Tx
	if q == nil {
		q = g.db
	}
	if q == nil {
		return false, ValidationError("missing db transaction context")
	}
	set := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		set[k] = v
	}
	set["version"] = gorm.Expr("version + 1")
	res := q.WithContext(dbc.Ctx).Table(table).
		Where("id = ? AND version = ? AND status IN ?", id, version, statuses).
		Updates(set)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// RequireCASSuccess turns a lost compare-and-set into a retryable conflict.
func RequireCASSuccess(ok bool, message string) error {
	if ok {
		return nil
	}
	return ConflictError(message)
}

// RequireStatusAllowed fails with invalid_state unless current matches one of
// allowed, ignoring case.
func RequireStatusAllowed(current string, allowed ...string) error {
	current = strings.TrimSpace(current)
	for _, s := range allowed {
		if strings.EqualFold(current, s) {
			return nil
		}
	}
	return InvalidStateError("operation not allowed while status is " + current)
}

package memory

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/danfirsten/Standup/internal/domain"
	"github.com/danfirsten/Standup/internal/pkg/dbctx"
	"github.com/danfirsten/Standup/internal/pkg/logger"
)

type ReconciliationRepo interface {
	Create(dbc dbctx.Context, rows []*types.ReconciliationEntry) ([]*types.ReconciliationEntry, error)
	ListByRun(dbc dbctx.Context, runID string) ([]*types.ReconciliationEntry, error)
}

type reconciliationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReconciliationRepo(db *gorm.DB, log *logger.Logger) ReconciliationRepo {
	return &reconciliationRepo{db: db, log: log.With("repo", "ReconciliationRepo")}
}

func (r *reconciliationRepo) Create(dbc dbctx.Context, rows []*types.ReconciliationEntry) ([]*types.ReconciliationEntry, error) {
	if len(rows) == 0 {
		return []*types.ReconciliationEntry{}, nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *reconciliationRepo) ListByRun(dbc dbctx.Context, runID string) ([]*types.ReconciliationEntry, error) {
	if runID == "" {
		return nil, fmt.Errorf("missing run_id")
	}
	var out []*types.ReconciliationEntry
	if err := dbc.DB(r.db).
		Model(&types.ReconciliationEntry{}).
		Where("run_id = ?", runID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

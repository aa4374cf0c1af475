package rules

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/yungbote/focusgate-backend/internal/domain/rules"
	"github.com/yungbote/focusgate-backend/internal/platform/dbctx"
	"github.com/yungbote/focusgate-backend/internal/platform/logger"
)

type LimitRepo interface {
	Insert(dbc dbctx.Context, row *domain.LimitAssignment) (*domain.LimitAssignment, error)
	ListByUser(dbc dbctx.Context, userID string) ([]*domain.LimitAssignment, error)
}

type limitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLimitRepo(db *gorm.DB, baseLog *logger.Logger) LimitRepo {
	return &limitRepo{db: db, log: baseLog.With("repo", "LimitRepo")}
}

func (r *limitRepo) Insert(dbc dbctx.Context, row *domain.LimitAssignment) (*domain.LimitAssignment, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := dbc.Conn(r.db).Create(row).Error; err != nil {
		r.log.Debug("limit insert failed", "domain", row.Domain, "error", err)
		return nil, ClassifyStoreError(err)
	}
	return row, nil
}

func (r *limitRepo) ListByUser(dbc dbctx.Context, userID string) ([]*domain.LimitAssignment, error) {
	var out []*domain.LimitAssignment
	if userID == "" {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("user_id = ?", userID).
		Order("domain ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

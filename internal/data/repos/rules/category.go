package rules

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/yungbote/focusgate-backend/internal/domain/rules"
	"github.com/yungbote/focusgate-backend/internal/platform/dbctx"
	"github.com/yungbote/focusgate-backend/internal/platform/logger"
)

type CategoryRepo interface {
	// Insert writes a new row. Errors are *rules.StoreError.
	Insert(dbc dbctx.Context, row *domain.CategoryAssignment) (*domain.CategoryAssignment, error)
	ListByUser(dbc dbctx.Context, userID string) ([]*domain.CategoryAssignment, error)
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return &categoryRepo{db: db, log: baseLog.With("repo", "CategoryRepo")}
}

func (r *categoryRepo) Insert(dbc dbctx.Context, row *domain.CategoryAssignment) (*domain.CategoryAssignment, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := dbc.Conn(r.db).Create(row).Error; err != nil {
		r.log.Debug("category insert failed", "domain_pattern", row.DomainPattern, "error", err)
		return nil, ClassifyStoreError(err)
	}
	return row, nil
}

func (r *categoryRepo) ListByUser(dbc dbctx.Context, userID string) ([]*domain.CategoryAssignment, error) {
	var out []*domain.CategoryAssignment
	if userID == "" {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("user_id = ?", userID).
		Order("priority ASC, domain_pattern ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

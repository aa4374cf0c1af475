package rules

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/yungbote/focusgate-backend/internal/domain/rules"
)

// ClassifyStoreError wraps a raw driver error in a *rules.StoreError tagged with
// its conflict kind. Callers above this package never inspect driver text again.
func ClassifyStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.StoreError{Kind: domain.ConflictUnknown, Err: fmt.Errorf("store write timed out: %w", err)}
	}
	return &domain.StoreError{Kind: conflictKindOf(err), Err: err}
}

func conflictKindOf(err error) domain.ConflictKind {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ConflictDuplicate
	}
	if errors.Is(err, context.Canceled) {
		return domain.ConflictUnknown
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		code := strings.TrimSpace(pgErr.Code)
		switch {
		case code == "23505": // unique_violation
			return domain.ConflictDuplicate
		case code == "23502", code == "23514": // not_null_violation, check_violation
			return domain.ConflictValidation
		case strings.HasPrefix(code, "22"): // data_exception class
			return domain.ConflictValidation
		default:
			return domain.ConflictUnknown
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "unique constraint failed"):
		return domain.ConflictDuplicate
	case strings.Contains(msg, "not null constraint failed"),
		strings.Contains(msg, "check constraint failed"),
		strings.Contains(msg, "violates not-null constraint"),
		strings.Contains(msg, "violates check constraint"),
		strings.Contains(msg, "invalid input syntax"):
		return domain.ConflictValidation
	default:
		return domain.ConflictUnknown
	}
}

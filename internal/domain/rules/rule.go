package rules

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Required request fields, in the order Validate checks them.
const (
	FieldUserID         = "user_id"
	FieldDomainPattern  = "domain_pattern"
	FieldCategory       = "category"
	FieldPriority       = "priority"
	FieldAllowedMinutes = "allowed_minutes"
)

var RequiredFields = []string{FieldUserID, FieldDomainPattern, FieldCategory, FieldPriority, FieldAllowedMinutes}

// DomainRuleRequest is the body of a rule submission. Pointer fields distinguish
// "absent" from a zero value. Priority and AllowedMinutes accept any JSON number.
type DomainRuleRequest struct {
	UserID         *string  `json:"user_id"`
	DomainPattern  *string  `json:"domain_pattern"`
	Category       *string  `json:"category"`
	Priority       *float64 `json:"priority"`
	AllowedMinutes *float64 `json:"allowed_minutes"`
}

type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string { return "Missing field: " + e.Field }

type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("Invalid field %s: %s", e.Field, e.Reason)
}

// Validate reports the first missing or malformed field.
func Validate(req *DomainRuleRequest) error {
	if req == nil {
		return &MissingFieldError{Field: FieldUserID}
	}
	if blank(req.UserID) {
		return &MissingFieldError{Field: FieldUserID}
	}
	if blank(req.DomainPattern) {
		return &MissingFieldError{Field: FieldDomainPattern}
	}
	if blank(req.Category) {
		return &MissingFieldError{Field: FieldCategory}
	}
	if req.Priority == nil {
		return &MissingFieldError{Field: FieldPriority}
	}
	if req.AllowedMinutes == nil {
		return &MissingFieldError{Field: FieldAllowedMinutes}
	}
	if math.IsNaN(*req.AllowedMinutes) || *req.AllowedMinutes < 0 {
		return &InvalidFieldError{Field: FieldAllowedMinutes, Reason: "must be non-negative"}
	}
	return nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// CategoryAssignment is a row of user_domain_categories.
type CategoryAssignment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string    `gorm:"not null;column:user_id;uniqueIndex:idx_user_domain_categories_user_pattern,priority:1" json:"user_id"`
	DomainPattern string    `gorm:"not null;column:domain_pattern;uniqueIndex:idx_user_domain_categories_user_pattern,priority:2" json:"domain_pattern"`
	Category      string    `gorm:"not null;column:category" json:"category"`
	Priority      float64   `gorm:"not null;column:priority" json:"priority"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (CategoryAssignment) TableName() string { return "user_domain_categories" }

// LimitAssignment is a row of user_domain_limits. Domain carries the request's
// domain_pattern under the column name this table uses.
type LimitAssignment struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string    `gorm:"not null;column:user_id;uniqueIndex:idx_user_domain_limits_user_domain,priority:1" json:"user_id"`
	Domain         string    `gorm:"not null;column:domain;uniqueIndex:idx_user_domain_limits_user_domain,priority:2" json:"domain"`
	AllowedMinutes float64   `gorm:"not null;column:allowed_minutes" json:"allowed_minutes"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (LimitAssignment) TableName() string { return "user_domain_limits" }

// Split derives both rows from a validated request.
func (r *DomainRuleRequest) Split() (*CategoryAssignment, *LimitAssignment) {
	cat := &CategoryAssignment{
		UserID:        *r.UserID,
		DomainPattern: *r.DomainPattern,
		Category:      *r.Category,
		Priority:      *r.Priority,
	}
	lim := &LimitAssignment{
		UserID:         *r.UserID,
		Domain:         *r.DomainPattern,
		AllowedMinutes: *r.AllowedMinutes,
	}
	return cat, lim
}

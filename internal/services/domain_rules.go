package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/focusgate-backend/internal/data/repos"
	"github.com/yungbote/focusgate-backend/internal/domain/rules"
	"github.com/yungbote/focusgate-backend/internal/observability"
	"github.com/yungbote/focusgate-backend/internal/platform/ctxutil"
	"github.com/yungbote/focusgate-backend/internal/platform/dbctx"
	"github.com/yungbote/focusgate-backend/internal/platform/logger"
)

const defaultWriteTimeout = 5 * time.Second

// DomainRuleService persists domain rules with the BestEffortSequentialWrite
// policy: the category row is written first and the limit row second, with no
// transaction spanning both tables. A fatal category write skips the limit write;
// a fatal limit write leaves the category row in place. Duplicate-key conflicts
// on either side are reported as warnings and never fail the submission.
type DomainRuleService interface {
	Submit(ctx context.Context, req *rules.DomainRuleRequest) (*rules.CombinedResult, error)
	ListRules(ctx context.Context, userID string) (*UserRules, error)
}

type UserRules struct {
	UserID     string                      `json:"user_id"`
	Categories []*rules.CategoryAssignment `json:"categories"`
	Limits     []*rules.LimitAssignment    `json:"limits"`
}

type domainRuleService struct {
	log          *logger.Logger
	categories   repos.CategoryRepo
	limits       repos.LimitRepo
	writeTimeout time.Duration
	tracer       trace.Tracer
}

// NewDomainRuleService accepts nil repos; Submit then fails with an
// UpstreamConfigError instead of touching the store.
func NewDomainRuleService(log *logger.Logger, categories repos.CategoryRepo, limits repos.LimitRepo, writeTimeout time.Duration) DomainRuleService {
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &domainRuleService{
		log:          log.With("service", "DomainRuleService"),
		categories:   categories,
		limits:       limits,
		writeTimeout: writeTimeout,
		tracer:       otel.Tracer("github.com/yungbote/focusgate-backend/internal/services"),
	}
}

func (s *domainRuleService) storeReady() error {
	if s.categories == nil || s.limits == nil {
		return &UpstreamConfigError{Dependency: "store", Detail: "relational store not initialized"}
	}
	return nil
}

func (s *domainRuleService) Submit(ctx context.Context, req *rules.DomainRuleRequest) (*rules.CombinedResult, error) {
	if err := s.storeReady(); err != nil {
		return nil, err
	}
	if err := rules.Validate(req); err != nil {
		return nil, err
	}
	cat, lim := req.Split()

	catOut := s.write(ctx, rules.TargetCategory, cat.DomainPattern, func(dbc dbctx.Context) (any, error) {
		return s.categories.Insert(dbc, cat)
	})
	if !catOut.Proceeds() {
		s.log.Warn("category write failed; limit write skipped", append(ctxutil.TraceFields(ctx),
			"user_id", cat.UserID, "domain_pattern", cat.DomainPattern, "conflict", catOut.Conflict.String(), "error", catOut.Message)...)
		return nil, rules.FailureFrom(rules.TargetCategory, catOut)
	}

	limOut := s.write(ctx, rules.TargetLimit, lim.Domain, func(dbc dbctx.Context) (any, error) {
		return s.limits.Insert(dbc, lim)
	})
	if !limOut.Proceeds() {
		// No compensating delete: the category row from the first write stays.
		s.log.Warn("limit write failed after category write; category row left in place", append(ctxutil.TraceFields(ctx),
			"user_id", lim.UserID, "domain", lim.Domain, "category_outcome", catOut.Kind.String(),
			"conflict", limOut.Conflict.String(), "error", limOut.Message)...)
		return nil, rules.FailureFrom(rules.TargetLimit, limOut)
	}

	s.log.Info("domain rule saved",
		"user_id", cat.UserID, "domain_pattern", cat.DomainPattern,
		"category_outcome", catOut.Kind.String(), "limit_outcome", limOut.Kind.String())
	return &rules.CombinedResult{Success: true, CategoryResult: catOut, LimitResult: limOut}, nil
}

func (s *domainRuleService) write(ctx context.Context, target rules.Target, key string, insert func(dbctx.Context) (any, error)) rules.WriteOutcome {
	ctx, span := s.tracer.Start(ctx, "domain_rules.write_"+string(target),
		trace.WithAttributes(attribute.String("rule.target", string(target))))
	defer span.End()

	wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	payload, err := insert(dbctx.Context{Ctx: wctx})
	out := rules.ClassifyOutcome(target, key, payload, err)

	observability.Current().IncRuleWrite(string(target), out.Kind.String())
	span.SetAttributes(attribute.String("rule.outcome", out.Kind.String()))
	if out.Kind == rules.OutcomeHardFailure {
		span.SetStatus(codes.Error, out.Message)
	}
	return out
}

func (s *domainRuleService) ListRules(ctx context.Context, userID string) (*UserRules, error) {
	if err := s.storeReady(); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, &ValidationError{Field: rules.FieldUserID, Message: "Missing field: user_id"}
	}
	dbc := dbctx.Context{Ctx: ctx}
	cats, err := s.categories.ListByUser(dbc, userID)
	if err != nil {
		return nil, err
	}
	lims, err := s.limits.ListByUser(dbc, userID)
	if err != nil {
		return nil, err
	}
	return &UserRules{UserID: userID, Categories: cats, Limits: lims}, nil
}

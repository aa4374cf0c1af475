package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yungbote/focusgate-backend/internal/domain/classification"
	"github.com/yungbote/focusgate-backend/internal/observability"
	"github.com/yungbote/focusgate-backend/internal/platform/logger"
)

// TextClassifier scores text against candidate labels. Order of the returned
// slice is not significant.
type TextClassifier interface {
	Classify(ctx context.Context, text string, candidates []string) ([]classification.LabelScore, error)
}

type ClassificationService interface {
	Classify(ctx context.Context, text string) (*classification.Result, error)
	ClassifyWithGroup(ctx context.Context, text string) (*classification.GroupedResult, error)
	ListLabels() []string
	ListGroups() map[string][]string
}

type classificationService struct {
	log        *logger.Logger
	classifier TextClassifier
	taxonomy   *classification.Taxonomy
	flight     singleflight.Group
}

// NewClassificationService accepts a nil classifier; calls then fail with an
// UpstreamConfigError. A nil taxonomy selects the embedded default.
func NewClassificationService(log *logger.Logger, classifier TextClassifier, taxonomy *classification.Taxonomy) ClassificationService {
	if taxonomy == nil {
		taxonomy = classification.Default()
	}
	return &classificationService{
		log:        log.With("service", "ClassificationService"),
		classifier: classifier,
		taxonomy:   taxonomy,
	}
}

func (s *classificationService) Classify(ctx context.Context, text string) (*classification.Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Field: "text", Message: "text is required"}
	}
	if s.classifier == nil {
		return nil, &UpstreamConfigError{Dependency: "classifier", Detail: "CLASSIFIER_URL not configured"}
	}

	// The shared call outlives any single caller; the classifier client bounds it
	// with its own timeout. Each caller stops waiting when its own ctx ends.
	flightCtx := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(text, func() (any, error) {
		start := time.Now()
		scores, err := s.classifier.Classify(flightCtx, text, s.taxonomy.Labels())
		if err != nil {
			observability.Current().ObserveClassifier("error", time.Since(start))
			return nil, err
		}
		observability.Current().ObserveClassifier("ok", time.Since(start))
		ranked := make([]classification.LabelScore, len(scores))
		copy(ranked, scores)
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
		return ranked, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		s.log.Warn("classification failed", "error", res.Err, "shared", res.Shared)
		return nil, &ClassificationError{Err: res.Err}
	}
	// Callers sharing a flight must not see each other's mutations.
	ranked := res.Val.([]classification.LabelScore)
	out := make([]classification.LabelScore, len(ranked))
	copy(out, ranked)
	return &classification.Result{Ranked: out}, nil
}

func (s *classificationService) ClassifyWithGroup(ctx context.Context, text string) (*classification.GroupedResult, error) {
	res, err := s.Classify(ctx, text)
	if err != nil {
		return nil, err
	}
	out := &classification.GroupedResult{All: make([]classification.GroupedLabel, 0, len(res.Ranked))}
	for _, ls := range res.Ranked {
		out.All = append(out.All, classification.GroupedLabel{
			Label: ls.Label,
			Score: ls.Score,
			Group: s.taxonomy.GroupOf(ls.Label),
		})
	}
	if len(out.All) > 0 {
		top := out.All[0]
		out.Category, out.Confidence, out.Group = top.Label, top.Score, top.Group
	} else {
		out.Group = s.taxonomy.GroupOf("")
	}
	return out, nil
}

func (s *classificationService) ListLabels() []string { return s.taxonomy.Labels() }

func (s *classificationService) ListGroups() map[string][]string { return s.taxonomy.Groups() }

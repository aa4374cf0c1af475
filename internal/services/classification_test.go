package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/yungbote/focusgate-backend/internal/domain/classification"
)

type fakeClassifier struct {
	calls  atomic.Int32
	scores []classification.LabelScore
	err    error
	delay  time.Duration
}

func (f *fakeClassifier) Classify(ctx context.Context, text string, candidates []string) ([]classification.LabelScore, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make([]classification.LabelScore, len(f.scores))
	copy(out, f.scores)
	return out, nil
}

func TestClassifyEmptyTextNeverCallsClassifier(t *testing.T) {
	fc := &fakeClassifier{}
	svc := NewClassificationService(testLogger(t), fc, nil)

	for _, text := range []string{"", "   "} {
		_, err := svc.Classify(context.Background(), text)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("text %q: expected ValidationError, got %v", text, err)
		}
	}
	if n := fc.calls.Load(); n != 0 {
		t.Fatalf("classifier called %d times", n)
	}
}

func TestClassifySortsByDescendingScore(t *testing.T) {
	fc := &fakeClassifier{scores: []classification.LabelScore{
		{Label: "News", Score: 0.2},
		{Label: "Social Media", Score: 0.7},
		{Label: "Shopping", Score: 0.1},
	}}
	svc := NewClassificationService(testLogger(t), fc, nil)

	res, err := svc.Classify(context.Background(), "friends feed")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	want := []string{"Social Media", "News", "Shopping"}
	if diff := cmp.Diff(want, res.Labels()); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyWrapsClassifierFailure(t *testing.T) {
	fc := &fakeClassifier{err: errors.New("model is loading")}
	svc := NewClassificationService(testLogger(t), fc, nil)

	_, err := svc.Classify(context.Background(), "text")
	var ce *ClassificationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ClassificationError, got %v", err)
	}
	if ce.Error() != "model is loading" {
		t.Fatalf("message: %q", ce.Error())
	}
	if n := fc.calls.Load(); n != 1 {
		t.Fatalf("classifier must not be retried, calls=%d", n)
	}
}

func TestClassifyWithoutClassifierIsUpstreamConfigError(t *testing.T) {
	svc := NewClassificationService(testLogger(t), nil, nil)
	_, err := svc.Classify(context.Background(), "text")
	var uc *UpstreamConfigError
	if !errors.As(err, &uc) {
		t.Fatalf("expected UpstreamConfigError, got %v", err)
	}
}

func TestClassifyCollapsesConcurrentIdenticalText(t *testing.T) {
	fc := &fakeClassifier{
		scores: []classification.LabelScore{{Label: "News", Score: 0.9}},
		delay:  50 * time.Millisecond,
	}
	svc := NewClassificationService(testLogger(t), fc, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Classify(context.Background(), "same text")
			if err != nil {
				t.Errorf("Classify: %v", err)
				return
			}
			res.Ranked[0].Label = "mutated"
		}()
	}
	wg.Wait()
	if n := fc.calls.Load(); n >= 5 {
		t.Fatalf("expected concurrent calls to be collapsed, got %d", n)
	}
}

func TestClassifyCallerCancelDoesNotFailSharedWaiters(t *testing.T) {
	fc := &fakeClassifier{
		scores: []classification.LabelScore{{Label: "News", Score: 0.9}},
		delay:  200 * time.Millisecond,
	}
	svc := NewClassificationService(testLogger(t), fc, nil)

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()

	errA := make(chan error, 1)
	go func() {
		_, err := svc.Classify(ctxA, "breaking headlines")
		errA <- err
	}()
	time.Sleep(5 * time.Millisecond)

	type result struct {
		res *classification.Result
		err error
	}
	resB := make(chan result, 1)
	go func() {
		res, err := svc.Classify(context.Background(), "breaking headlines")
		resB <- result{res, err}
	}()

	time.Sleep(20 * time.Millisecond)
	cancelA()

	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller: want context.Canceled, got %v", err)
	}
	b := <-resB
	if b.err != nil {
		t.Fatalf("live caller failed: %v", b.err)
	}
	if diff := cmp.Diff([]string{"News"}, b.res.Labels()); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
	if n := fc.calls.Load(); n != 1 {
		t.Fatalf("expected one shared classifier call, got %d", n)
	}
}

func TestClassifyWithGroup(t *testing.T) {
	fc := &fakeClassifier{scores: []classification.LabelScore{
		{Label: "made-up label", Score: 0.05},
		{Label: "Social Media", Score: 0.8},
	}}
	svc := NewClassificationService(testLogger(t), fc, nil)

	res, err := svc.ClassifyWithGroup(context.Background(), "friends feed")
	if err != nil {
		t.Fatalf("ClassifyWithGroup: %v", err)
	}
	want := &classification.GroupedResult{
		Category:   "Social Media",
		Confidence: 0.8,
		Group:      "Social",
		All: []classification.GroupedLabel{
			{Label: "Social Media", Score: 0.8, Group: "Social"},
			{Label: "made-up label", Score: 0.05, Group: "Other"},
		},
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Fatalf("grouped result mismatch (-want +got):\n%s", diff)
	}
}

func TestListLabelsAndGroupsAreCopies(t *testing.T) {
	svc := NewClassificationService(testLogger(t), nil, nil)
	labels := svc.ListLabels()
	if len(labels) == 0 {
		t.Fatalf("no labels")
	}
	labels[0] = "changed"
	if svc.ListLabels()[0] == "changed" {
		t.Fatalf("ListLabels leaked internal slice")
	}
	groups := svc.ListGroups()
	if _, ok := groups["Social"]; !ok {
		t.Fatalf("missing Social group: %v", groups)
	}
	delete(groups, "Social")
	if _, ok := svc.ListGroups()["Social"]; !ok {
		t.Fatalf("ListGroups leaked internal map")
	}
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/focusgate-backend/internal/data/repos"
	"github.com/yungbote/focusgate-backend/internal/data/repos/testutil"
	"github.com/yungbote/focusgate-backend/internal/domain/auth"
	"github.com/yungbote/focusgate-backend/internal/domain/classification"
	"github.com/yungbote/focusgate-backend/internal/http/response"
	"github.com/yungbote/focusgate-backend/internal/platform/ctxutil"
	"github.com/yungbote/focusgate-backend/internal/platform/logger"
	"github.com/yungbote/focusgate-backend/internal/services"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

type stubClassifier struct {
	calls int
	err   error
}

func (s *stubClassifier) Classify(ctx context.Context, text string, candidates []string) ([]classification.LabelScore, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []classification.LabelScore{{Label: "News", Score: 0.3}, {Label: "Gaming", Score: 0.6}}, nil
}

type testEnv struct {
	router     *gin.Engine
	classifier *stubClassifier
}

// newEnv wires handlers on a bare gin engine. identity, when set, is attached
// to every request as if it had passed RequireAuth.
func newEnv(t *testing.T, identity *auth.Identity) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := newTestLogger(t)
	db := testutil.DB(t)

	rules := services.NewDomainRuleService(log, repos.NewCategoryRepo(db, log), repos.NewLimitRepo(db, log), time.Second)
	cls := &stubClassifier{}
	classSvc := services.NewClassificationService(log, cls, nil)
	prefSvc := services.NewPreferenceService(log, repos.NewMemorySitePreferenceStore())

	rh := NewDomainRuleHandler(log, rules)
	ch := NewCategoryHandler(log, classSvc, prefSvc)

	r := gin.New()
	if identity != nil {
		r.Use(func(c *gin.Context) {
			c.Request = c.Request.WithContext(ctxutil.WithIdentity(c.Request.Context(), identity))
			c.Next()
		})
	}
	r.POST("/api/v1/user_domain_category/save", rh.Save)
	r.GET("/api/v1/user_domain_category/:user_id", rh.List)
	r.POST("/api/v1/categories/user/:user_id/sites", ch.SetSitePreference)
	r.GET("/api/v1/categories/user/:user_id/sites", ch.GetSitePreferences)
	r.GET("/api/v1/categories/classify", ch.Classify)
	r.GET("/api/v1/categories/classify/grouped", ch.ClassifyGrouped)
	r.GET("/api/v1/categories/labels", ch.Labels)
	r.GET("/api/v1/categories/groups", ch.Groups)
	health := NewHealthHandler(map[string]ReadinessCheck{
		"store": func(context.Context) error { return nil },
	})
	r.GET("/healthcheck", health.HealthCheck)
	r.GET("/readyz", health.Ready)
	return &testEnv{router: r, classifier: cls}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(raw)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

var exampleBody = map[string]any{
	"user_id":         "u1",
	"domain_pattern":  "example.com",
	"category":        "Social",
	"priority":        1,
	"allowed_minutes": 30,
}

func TestSaveDomainRule(t *testing.T) {
	env := newEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/user_domain_category/save", exampleBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d body=%s", rec.Code, rec.Body.String())
	}
	var first struct {
		Success        bool           `json:"success"`
		CategoryResult map[string]any `json:"category_result"`
		LimitResult    map[string]any `json:"limit_result"`
	}
	decode(t, rec, &first)
	if !first.Success || first.CategoryResult["domain_pattern"] != "example.com" || first.LimitResult["domain"] != "example.com" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/v1/user_domain_category/save", exampleBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("resubmit status: %d", rec.Code)
	}
	var second struct {
		Success        bool              `json:"success"`
		CategoryResult map[string]string `json:"category_result"`
		LimitResult    map[string]string `json:"limit_result"`
	}
	decode(t, rec, &second)
	if second.CategoryResult["warning"] != "Category already exists for pattern 'example.com'" {
		t.Fatalf("category warning: %v", second.CategoryResult)
	}
	if second.LimitResult["warning"] != "Limit already exists for domain 'example.com'" {
		t.Fatalf("limit warning: %v", second.LimitResult)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/user_domain_category/u1", nil)
	var list services.UserRules
	decode(t, rec, &list)
	if len(list.Categories) != 1 || len(list.Limits) != 1 {
		t.Fatalf("list: %+v", list)
	}
}

func TestSaveDomainRuleMissingField(t *testing.T) {
	env := newEnv(t, nil)
	body := map[string]any{"user_id": "u1", "domain_pattern": "example.com", "category": "Social", "priority": 1}

	rec := env.do(t, http.MethodPost, "/api/v1/user_domain_category/save", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", rec.Code)
	}
	var env2 response.ErrorEnvelope
	decode(t, rec, &env2)
	if env2.Error.Message != "Missing field: allowed_minutes" || env2.Error.Code != "validation_error" {
		t.Fatalf("envelope: %+v", env2)
	}
}

func TestSaveDomainRuleAcceptsFractionalNumbers(t *testing.T) {
	env := newEnv(t, nil)
	body := map[string]any{
		"user_id": "u1", "domain_pattern": "example.com", "category": "Social",
		"priority": 1.5, "allowed_minutes": 12.5,
	}
	rec := env.do(t, http.MethodPost, "/api/v1/user_domain_category/save", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d body=%s", rec.Code, rec.Body.String())
	}
	var out struct {
		CategoryResult map[string]any `json:"category_result"`
		LimitResult    map[string]any `json:"limit_result"`
	}
	decode(t, rec, &out)
	if out.CategoryResult["priority"] != 1.5 || out.LimitResult["allowed_minutes"] != 12.5 {
		t.Fatalf("numbers not preserved: %s", rec.Body.String())
	}
}

func TestSaveDomainRuleWrongTypeNamesField(t *testing.T) {
	cases := []struct {
		field string
		value any
	}{
		{"priority", "high"},
		{"allowed_minutes", "thirty"},
	}
	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			env := newEnv(t, nil)
			body := map[string]any{}
			for k, v := range exampleBody {
				body[k] = v
			}
			body[tc.field] = tc.value

			rec := env.do(t, http.MethodPost, "/api/v1/user_domain_category/save", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status: %d", rec.Code)
			}
			var errEnv response.ErrorEnvelope
			decode(t, rec, &errEnv)
			want := "Invalid field " + tc.field + ": expected number, got string"
			if errEnv.Error.Code != "validation_error" || errEnv.Error.Message != want {
				t.Fatalf("envelope: %+v", errEnv)
			}
		})
	}
}

func TestSaveDomainRuleForbiddenForOtherUser(t *testing.T) {
	env := newEnv(t, &auth.Identity{UserID: "someone-else"})
	rec := env.do(t, http.MethodPost, "/api/v1/user_domain_category/save", exampleBody)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestSitePreferences(t *testing.T) {
	env := newEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/categories/user/u1/sites",
		map[string]string{"user_id": "u2", "site": "reddit.com", "category": "Social"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("mismatch status: %d", rec.Code)
	}
	var errEnv response.ErrorEnvelope
	decode(t, rec, &errEnv)
	if errEnv.Error.Message != "user_id mismatch" {
		t.Fatalf("message: %q", errEnv.Error.Message)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/categories/user/u1/sites",
		map[string]string{"user_id": "u1", "site": "reddit.com", "category": "Social"})
	if rec.Code != http.StatusOK {
		t.Fatalf("set status: %d body=%s", rec.Code, rec.Body.String())
	}
	var setOut map[string]string
	decode(t, rec, &setOut)
	if setOut["status"] != "ok" || setOut["site"] != "reddit.com" {
		t.Fatalf("set body: %v", setOut)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/categories/user/u1/sites", nil)
	var getOut struct {
		UserID      string            `json:"user_id"`
		Preferences map[string]string `json:"preferences"`
	}
	decode(t, rec, &getOut)
	if getOut.UserID != "u1" || getOut.Preferences["reddit.com"] != "Social" {
		t.Fatalf("get body: %+v", getOut)
	}
}

func TestClassifyEndpoints(t *testing.T) {
	env := newEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/categories/classify?text=", nil)
	if rec.Code != http.StatusBadRequest || env.classifier.calls != 0 {
		t.Fatalf("empty text: status=%d calls=%d", rec.Code, env.classifier.calls)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/categories/classify?text=boss+fight", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("classify status: %d", rec.Code)
	}
	var out struct {
		Labels []string  `json:"labels"`
		Scores []float64 `json:"scores"`
	}
	decode(t, rec, &out)
	if len(out.Labels) != 2 || out.Labels[0] != "Gaming" || out.Scores[0] != 0.6 {
		t.Fatalf("classify body: %+v", out)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/categories/classify/grouped?text=boss+fight", nil)
	var grouped classification.GroupedResult
	decode(t, rec, &grouped)
	if grouped.Category != "Gaming" || grouped.Group != "Entertainment" {
		t.Fatalf("grouped body: %+v", grouped)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/categories/labels", nil)
	var labels struct {
		Categories []string `json:"categories"`
		Total      int      `json:"total"`
	}
	decode(t, rec, &labels)
	if labels.Total == 0 || labels.Total != len(labels.Categories) {
		t.Fatalf("labels body: %+v", labels)
	}
}

func TestClassifyFailureIs500(t *testing.T) {
	env := newEnv(t, nil)
	env.classifier.err = errors.New("upstream 503")

	rec := env.do(t, http.MethodGet, "/api/v1/categories/classify?text=x", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: %d", rec.Code)
	}
	var errEnv response.ErrorEnvelope
	decode(t, rec, &errEnv)
	if errEnv.Error.Code != "classification_error" || errEnv.Error.Message != "upstream 503" {
		t.Fatalf("envelope: %+v", errEnv)
	}
}

func TestHealthCheck(t *testing.T) {
	env := newEnv(t, nil)
	rec := env.do(t, http.MethodGet, "/healthcheck", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("health: %d %q", rec.Code, rec.Body.String())
	}
}

func TestReadyReportsFailingCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHealthHandler(map[string]ReadinessCheck{
		"store": func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("dial tcp: refused") },
	})
	r := gin.New()
	r.GET("/readyz", h.Ready)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: %d", rec.Code)
	}
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	decode(t, rec, &body)
	if body.Status != "not_ready" || body.Checks["store"] != "ok" || body.Checks["redis"] != "dial tcp: refused" {
		t.Fatalf("body: %+v", body)
	}

	env := newEnv(t, nil)
	if rec := env.do(t, http.MethodGet, "/readyz", nil); rec.Code != http.StatusOK {
		t.Fatalf("ready: %d", rec.Code)
	}
}

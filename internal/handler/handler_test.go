package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"expense-tracker/internal/aiclient"
	"expense-tracker/internal/analytics"
	"expense-tracker/internal/auth"
	"expense-tracker/internal/config"
	"expense-tracker/internal/domain"
	"expense-tracker/internal/service"
	"expense-tracker/internal/storage/memory"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubCompleter records the prompt and returns a canned answer or error.
type stubCompleter struct {
	answer string
	err    error
	prompt string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.answer, s.err
}

type testEnv struct {
	router *gin.Engine
	store  *memory.Store
	ai     *stubCompleter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.New()
	expenses := service.NewExpenseService(store)
	users := service.NewAuthService(store)
	cache := analytics.NewCache(store)
	ai := &stubCompleter{answer: "stub insight"}

	tokens := auth.NewTokenService(config.Config{JWTSecret: "test-secret", JWTExpiresIn: time.Hour})

	router := gin.New()
	eh := NewExpenseHandler(expenses)
	ah := NewAuthHandler(users, tokens)
	aih := NewAIHandler(expenses, cache, ai)

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/register", ah.Register)
		authGroup.POST("/login", ah.Login)
		authGroup.GET("/allUsers", ah.AllUsers)
		authGroup.DELETE("/delete/:id", ah.Delete)

		exp := api.Group("/expenses")
		exp.GET("", eh.GetAll)
		exp.GET("/total", eh.TotalAll)
		exp.GET("/total/:category", eh.TotalByCategory)
		exp.GET("/:id", eh.GetByID)
		exp.POST("", eh.Create)
		exp.POST("/bulk", eh.CreateBulk)
		exp.PUT("/:id", eh.Update)
		exp.DELETE("/:id", eh.Delete)

		aiGroup := api.Group("/ai")
		aiGroup.POST("/quickInsight", aih.QuickInsight)
		aiGroup.POST("/aiInsight", aih.AIInsight)
		aiGroup.POST("/refreshCache", aih.RefreshCache)
		aiGroup.GET("/analytics", aih.Analytics)
	}

	return &testEnv{router: router, store: store, ai: ai}
}

func (env *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if strings.HasPrefix(body, "{") || strings.HasPrefix(body, "[") {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestExpenseEndpoints(t *testing.T) {
	env := newTestEnv(t)

	t.Run("list starts empty", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/expenses", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if strings.TrimSpace(w.Body.String()) != "[]" {
			t.Errorf("empty list body = %q, want []", w.Body.String())
		}
	})

	var created domain.Expense
	t.Run("create", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/expenses",
			`{"description":"lunch","amount":12.5,"category":"food","date":"2025-06-01"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if created.ID == 0 {
			t.Error("response missing assigned id")
		}
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/expenses",
			`{"description":"refund","amount":-3,"category":"misc","date":"2025-06-01"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
		if !strings.Contains(w.Body.String(), "amount cannot be negative") {
			t.Errorf("body = %s", w.Body.String())
		}
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/expenses", `{"amount":`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("get by id", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/expenses/1", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		w = env.do(t, http.MethodGet, "/api/expenses/9999", "")
		if w.Code != http.StatusNotFound {
			t.Errorf("unknown id status = %d, want 404", w.Code)
		}
		w = env.do(t, http.MethodGet, "/api/expenses/abc", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("bad id status = %d, want 400", w.Code)
		}
	})

	t.Run("bulk stops at first failure", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/expenses/bulk",
			`[{"description":"a","amount":1,"category":"x","date":"2025-06-01"},
			  {"description":"b","amount":-1,"category":"x","date":"2025-06-01"},
			  {"description":"c","amount":3,"category":"x","date":"2025-06-01"}]`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}

		// The expense saved before the failure stays saved.
		list := env.do(t, http.MethodGet, "/api/expenses", "")
		var all []domain.Expense
		if err := json.Unmarshal(list.Body.Bytes(), &all); err != nil {
			t.Fatalf("decode: %v", err)
		}
		var foundA, foundC bool
		for _, e := range all {
			if e.Description == "a" {
				foundA = true
			}
			if e.Description == "c" {
				foundC = true
			}
		}
		if !foundA {
			t.Error("expense created before the failure was rolled back")
		}
		if foundC {
			t.Error("expense after the failure was created")
		}
	})

	t.Run("update", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/expenses/1",
			`{"description":"dinner","amount":20,"category":"food","date":"2025-06-02"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		var updated domain.Expense
		if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if updated.Description != "dinner" || updated.Amount != 20 {
			t.Errorf("update result: %+v", updated)
		}

		w = env.do(t, http.MethodPut, "/api/expenses/9999",
			`{"description":"x","amount":1,"category":"y","date":"2025-06-02"}`)
		if w.Code != http.StatusNotFound {
			t.Errorf("unknown id status = %d, want 404", w.Code)
		}
	})

	t.Run("totals", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/expenses/total", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		w = env.do(t, http.MethodGet, "/api/expenses/total/food", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if strings.TrimSpace(w.Body.String()) != "20" {
			t.Errorf("category total body = %q, want 20", w.Body.String())
		}
	})

	t.Run("delete", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/api/expenses/1", "")
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
		w = env.do(t, http.MethodDelete, "/api/expenses/1", "")
		if w.Code != http.StatusNotFound {
			t.Errorf("second delete status = %d, want 404", w.Code)
		}
	})
}

func TestAuthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	t.Run("register non-gmail rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/register",
			`{"name":"a","email":"a@yahoo.com","password":"pw"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("register gmail accepted", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/register",
			`{"name":"a","email":"a@gmail.com","password":"pw"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		var u domain.User
		if err := json.Unmarshal(w.Body.Bytes(), &u); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if u.ID == 0 {
			t.Error("response missing assigned id")
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/register",
			`{"name":"b","email":"a@gmail.com","password":"pw2"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
		if !strings.Contains(w.Body.String(), "email already exists") {
			t.Errorf("body = %s", w.Body.String())
		}
	})

	t.Run("login issues token", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/login",
			`{"email":"a@gmail.com","password":"pw"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		var resp map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp["token"] == "" {
			t.Error("login response missing token")
		}
	})

	t.Run("login wrong password", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/login",
			`{"email":"a@gmail.com","password":"nope"}`)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("list and delete", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/auth/allUsers", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var users []domain.User
		if err := json.Unmarshal(w.Body.Bytes(), &users); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(users) != 1 {
			t.Fatalf("user count = %d, want 1", len(users))
		}

		w = env.do(t, http.MethodDelete, "/api/auth/delete/9999", "")
		if w.Code != http.StatusNotFound {
			t.Errorf("unknown id status = %d, want 404", w.Code)
		}
	})
}

func TestAIEndpoints(t *testing.T) {
	seed := func(t *testing.T, env *testEnv) {
		w := env.do(t, http.MethodPost, "/api/expenses",
			`{"description":"coffee","amount":4,"category":"food","date":"2025-06-01"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("seed expense: %d", w.Code)
		}
	}

	t.Run("quickInsight answers from the summary", func(t *testing.T) {
		env := newTestEnv(t)
		seed(t, env)

		w := env.do(t, http.MethodPost, "/api/ai/quickInsight", "how am I doing?")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		if w.Body.String() != "stub insight" {
			t.Errorf("body = %q", w.Body.String())
		}
		if !strings.Contains(env.ai.prompt, "EXPENSE OVERVIEW:") {
			t.Errorf("quick prompt missing overview:\n%s", env.ai.prompt)
		}
	})

	t.Run("aiInsight builds a detailed prompt", func(t *testing.T) {
		env := newTestEnv(t)
		seed(t, env)

		w := env.do(t, http.MethodPost, "/api/ai/aiInsight", "spending trends?")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		if !strings.Contains(env.ai.prompt, "spending trends?") {
			t.Errorf("prompt missing the question:\n%s", env.ai.prompt)
		}
	})

	t.Run("empty question rejected", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, http.MethodPost, "/api/ai/aiInsight", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("upstream status forwarded", func(t *testing.T) {
		env := newTestEnv(t)
		seed(t, env)
		env.ai.err = &aiclient.StatusError{Code: http.StatusTooManyRequests, Body: "rate limited"}

		w := env.do(t, http.MethodPost, "/api/ai/aiInsight", "anything")
		if w.Code != http.StatusTooManyRequests {
			t.Errorf("status = %d, want 429", w.Code)
		}
		if !strings.Contains(w.Body.String(), "API Error: rate limited") {
			t.Errorf("body = %q", w.Body.String())
		}
	})

	t.Run("unreachable provider maps to 503", func(t *testing.T) {
		env := newTestEnv(t)
		seed(t, env)
		env.ai.err = &aiclient.UnavailableError{Cause: context.DeadlineExceeded}

		w := env.do(t, http.MethodPost, "/api/ai/quickInsight", "anything")
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", w.Code)
		}
		if !strings.Contains(w.Body.String(), "Service unavailable:") {
			t.Errorf("body = %q", w.Body.String())
		}
	})

	t.Run("empty completion maps to 500", func(t *testing.T) {
		env := newTestEnv(t)
		seed(t, env)
		env.ai.err = aiclient.ErrEmptyResponse

		w := env.do(t, http.MethodPost, "/api/ai/aiInsight", "anything")
		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", w.Code)
		}
		if !strings.Contains(w.Body.String(), "Error generating AI insights:") {
			t.Errorf("body = %q", w.Body.String())
		}
	})

	t.Run("refreshCache and analytics", func(t *testing.T) {
		env := newTestEnv(t)
		seed(t, env)

		w := env.do(t, http.MethodPost, "/api/ai/refreshCache", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if w.Body.String() != "Analytics cache refreshed successfully" {
			t.Errorf("body = %q", w.Body.String())
		}

		w = env.do(t, http.MethodGet, "/api/ai/analytics", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var summary domain.AnalyticsSummary
		if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if summary.TotalCount != 1 || summary.TotalAmount != 4 {
			t.Errorf("summary = %+v", summary)
		}
	})
}

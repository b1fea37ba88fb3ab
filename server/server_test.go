package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/kbukum/rpckit/component"
	"github.com/kbukum/rpckit/errors"
	"github.com/kbukum/rpckit/logger"
	"github.com/kbukum/rpckit/procedure"
	"github.com/kbukum/rpckit/router"
	"github.com/kbukum/rpckit/server"
	"github.com/kbukum/rpckit/server/middleware"
	"github.com/kbukum/rpckit/validation"
)

type session struct {
	User string
}

type addInput struct {
	A int `json:"a"`
	B int `json:"b"`
}

func appRouter() *router.Router[session] {
	greet := procedure.MustNew(procedure.Definition[session, string, string]{
		Input: validation.JSON[string](),
		Resolve: func(_ context.Context, opts procedure.ResolverOptions[session, string]) (string, error) {
			return "hello " + opts.Input + " from " + opts.Context.User, nil
		},
	})
	add := procedure.MustNew(procedure.Definition[session, addInput, int]{
		Input: validation.Struct[addInput](),
		Resolve: func(_ context.Context, opts procedure.ResolverOptions[session, addInput]) (int, error) {
			return opts.Input.A + opts.Input.B, nil
		},
	})
	boom := procedure.MustNew(procedure.Definition[session, struct{}, string]{
		Resolve: func(context.Context, procedure.ResolverOptions[session, struct{}]) (string, error) {
			panic("boom")
		},
	})
	return router.New[session]().
		Query("greet", greet).
		Query("panic", boom).
		Mutation("math.add", add)
}

func newServer(t *testing.T) *server.Server {
	t.Helper()
	cfg := server.Config{}
	cfg.ApplyDefaults()
	srv := server.New(cfg, logger.NewNop())
	srv.ApplyMiddleware()
	server.Mount(srv.Engine(), cfg.BasePath, appRouter(), func(c *gin.Context) (session, error) {
		user := c.GetHeader("X-User")
		if user == "blocked" {
			return session{}, errors.Forbidden("blocked user")
		}
		return session{User: user}, nil
	})
	srv.RegisterDefaultEndpoints("test", nil)
	return srv
}

func do(t *testing.T, srv *server.Server, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rr.Body.String(), err)
	}
	return rr, body
}

func queryURL(path, input string) string {
	u := "/rpc/" + path
	if input != "" {
		u += "?input=" + url.QueryEscape(input)
	}
	return u
}

func TestMount_Query(t *testing.T) {
	srv := newServer(t)
	req := httptest.NewRequest(http.MethodGet, queryURL("greet", `"ann"`), http.NoBody)
	req.Header.Set("X-User", "bob")

	rr, body := do(t, srv, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", rr.Code, body)
	}
	result, _ := body["result"].(map[string]any)
	if result["data"] != "hello ann from bob" {
		t.Errorf("unexpected envelope %v", body)
	}
	if rr.Header().Get(middleware.HeaderRequestID) == "" {
		t.Error("expected request id header")
	}
}

func TestMount_Mutation(t *testing.T) {
	srv := newServer(t)
	tests := []struct {
		name string
		body string
	}{
		{"wrapped input", `{"input":{"a":2,"b":3}}`},
		{"raw input", `{"a":2,"b":3}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/rpc/math.add", strings.NewReader(tc.body))
			rr, body := do(t, srv, req)
			if rr.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %v", rr.Code, body)
			}
			if result, _ := body["result"].(map[string]any); result["data"] != float64(5) {
				t.Errorf("unexpected envelope %v", body)
			}
		})
	}
}

func TestMount_Errors(t *testing.T) {
	srv := newServer(t)
	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		header   string
		wantCode int
		wantErr  errors.ErrorCode
	}{
		{"unknown path", http.MethodGet, queryURL("missing", ""), "", "", http.StatusNotFound, errors.ErrCodeNotFound},
		{"bad input", http.MethodGet, queryURL("greet", `42`), "", "", http.StatusBadRequest, errors.ErrCodeBadRequest},
		{"invalid query json", http.MethodGet, queryURL("greet", `{`), "", "", http.StatusBadRequest, errors.ErrCodeBadRequest},
		{"mutation over GET", http.MethodGet, queryURL("math.add", ""), "", "", http.StatusMethodNotAllowed, errors.ErrCodeMethodNotSupported},
		{"query over POST", http.MethodPost, "/rpc/greet", `"ann"`, "", http.StatusMethodNotAllowed, errors.ErrCodeMethodNotSupported},
		{"invalid body", http.MethodPost, "/rpc/math.add", `{"a":`, "", http.StatusBadRequest, errors.ErrCodeBadRequest},
		{"context failure", http.MethodGet, queryURL("greet", `"ann"`), "", "blocked", http.StatusForbidden, errors.ErrCodeForbidden},
		{"handler panic", http.MethodGet, queryURL("panic", ""), "", "", http.StatusInternalServerError, errors.ErrCodeInternal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body))
			if tc.header != "" {
				req.Header.Set("X-User", tc.header)
			}
			rr, body := do(t, srv, req)
			if rr.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %v", tc.wantCode, rr.Code, body)
			}
			errBody, _ := body["error"].(map[string]any)
			if errBody["code"] != string(tc.wantErr) {
				t.Errorf("expected %s, got %v", tc.wantErr, body)
			}
		})
	}
}

func TestDefaultEndpoints(t *testing.T) {
	srv := newServer(t)
	for _, path := range []string{"/health", "/alive", "/ready", "/info"} {
		rr, body := do(t, srv, httptest.NewRequest(http.MethodGet, path, http.NoBody))
		if rr.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d: %v", path, rr.Code, body)
		}
	}
}

func TestStartStop(t *testing.T) {
	cfg := server.Config{Host: "127.0.0.1", Port: 0}
	cfg.ApplyDefaults()
	cfg.Port = 0
	srv := server.New(cfg, logger.NewNop())
	server.Mount(srv.Engine(), cfg.BasePath, appRouter(), nil)

	comp := server.NewComponent(srv)
	if h := comp.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := comp.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after start, got %s", h.Status)
	}

	resp, err := http.Get("http://" + srv.Addr() + queryURL("greet", `"ann"`))
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	if err := comp.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestConfig(t *testing.T) {
	cfg := server.Config{}
	cfg.ApplyDefaults()
	if cfg.Port != 8080 || cfg.BasePath != server.DefaultBasePath || cfg.MaxBodySize != "10MB" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*server.Config)
	}{
		{"port", func(c *server.Config) { c.Port = 70000 }},
		{"base path", func(c *server.Config) { c.BasePath = "rpc" }},
		{"read timeout", func(c *server.Config) { c.ReadTimeout = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := cfg
			tc.mutate(&c)
			if c.Validate() == nil {
				t.Error("expected validation error")
			}
		})
	}
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer() *Server {
	return NewServer(context.Background(), "127.0.0.1:0")
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestListProblems(t *testing.T) {
	w := do(t, newTestServer(), http.MethodGet, "/problems", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var out struct {
		Problems []string `json:"problems"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Problems) != 2 || out.Problems[0] != "maze" || out.Problems[1] != "rn" {
		t.Errorf("unexpected problems %v", out.Problems)
	}
}

func TestGetProblem(t *testing.T) {
	s := newTestServer()
	w := do(t, s, http.MethodGet, "/problems/rn", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var out problemSummary
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Cols != 4 || out.Rows != 3 || len(out.Walls) != 1 || len(out.Goals) != 2 || out.Noise.Forward != 0.8 {
		t.Errorf("unexpected summary %+v", out)
	}

	if w := do(t, s, http.MethodGet, "/problems/nowhere", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestSolve(t *testing.T) {
	s := newTestServer()
	for _, algorithm := range []string{"value", "policy"} {
		w := do(t, s, http.MethodPost, "/solve", `{"problem": "rn", "algorithm": "`+algorithm+`"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", algorithm, w.Code, w.Body.String())
		}
		var out SolveResponse
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !out.Converged || out.Iterations == 0 || len(out.Deltas) != out.Iterations {
			t.Errorf("%s: unexpected result %+v", algorithm, out)
		}
		if out.Utilities[1][1] != nil {
			t.Errorf("%s: wall should have a null utility", algorithm)
		}
		if out.Utilities[0][3] == nil || *out.Utilities[0][3] != 1 {
			t.Errorf("%s: goal utility missing", algorithm)
		}
		if out.Policy[0][2] != "right" || out.Policy[0][3] != "none" {
			t.Errorf("%s: unexpected policy %v", algorithm, out.Policy)
		}
		if !strings.Contains(out.ActionsText, ">>") || !strings.HasPrefix(out.ValuesText, ":--------:") {
			t.Errorf("%s: text renderings missing", algorithm)
		}
	}
}

func TestSolveErrors(t *testing.T) {
	s := newTestServer()
	cases := []struct {
		body string
		code int
	}{
		{`{`, http.StatusBadRequest},
		{`{"algorithm": "value"}`, http.StatusBadRequest},
		{`{"problem": "rn", "algorithm": "qlearning"}`, http.StatusBadRequest},
		{`{"problem": "rn", "gamma": 1.5}`, http.StatusBadRequest},
		{`{"problem": "rn", "stop_crit": 0}`, http.StatusBadRequest},
		{`{"problem": "nowhere"}`, http.StatusNotFound},
		{`{"problem": "maze", "max_iterations": 2}`, http.StatusUnprocessableEntity},
	}
	for _, c := range cases {
		w := do(t, s, http.MethodPost, "/solve", c.body)
		if w.Code != c.code {
			t.Errorf("%s: expected %d, got %d", c.body, c.code, w.Code)
		}
	}

	w := do(t, s, http.MethodPost, "/solve", `{"problem": "maze", "max_iterations": 2}`)
	var out SolveResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Converged || out.Iterations != 2 || out.Error == "" {
		t.Errorf("non converged result should still be reported, got %+v", out)
	}
}

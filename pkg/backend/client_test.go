package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/paeditor/pkg/automaton"
	"github.com/matzehuels/paeditor/pkg/cache"
	apperrors "github.com/matzehuels/paeditor/pkg/errors"
	"github.com/matzehuels/paeditor/pkg/httputil"
	"github.com/matzehuels/paeditor/pkg/observability"
)

const automatonJSON = `{
  "states": [
    {"id": "s0", "name": "<>", "outgoing": ["t0", "t1"]},
    {"id": "s1", "name": "a", "outgoing": []},
    {"id": "s2", "name": "b", "outgoing": []}
  ],
  "transitions": [
    {"id": "t0", "name": "a", "from_state": "s0", "to_state": "s1"},
    {"id": "t1", "name": "b", "from_state": "s0", "to_state": "s2"}
  ]
}`

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithHTTPClient(srv.Client())}, opts...)
	c, err := New(srv.URL, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"http://localhost:8000", false},
		{"https://backend.example.com/api/", false},
		{"", true},
		{"ftp://example.com", true},
		{"localhost:8000", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			c, err := New(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
				t.Errorf("code = %q", apperrors.GetCode(err))
			}
			if err == nil && strings.HasSuffix(c.BaseURL(), "/") {
				t.Errorf("BaseURL %q keeps trailing slash", c.BaseURL())
			}
		})
	}
}

func TestListEventLogs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/event-logs" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		fmt.Fprint(w, `[{"id": 1, "name": "orders.csv", "type": "CSV"}, {"id": "b7", "name": "x.xes", "type": "XES"}]`)
	})

	logs, err := c.ListEventLogs(context.Background())
	if err != nil {
		t.Fatalf("ListEventLogs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("got %d logs", len(logs))
	}
	if logs[0].ID != "1" || logs[0].Type != automaton.EventLogCSV {
		t.Errorf("logs[0] = %+v", logs[0])
	}
	if logs[1].ID != "b7" || logs[1].Type != automaton.EventLogXES {
		t.Errorf("logs[1] = %+v", logs[1])
	}
}

func TestGetEventLogAndColumns(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/event-logs/4":
			fmt.Fprint(w, `{"id": 4, "name": "loans.csv", "type": "CSV"}`)
		case "/event-logs/4/columns":
			fmt.Fprint(w, `["amount", "channel"]`)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	el, err := c.GetEventLog(ctx, "4")
	if err != nil || el.Name != "loans.csv" {
		t.Errorf("GetEventLog = %+v, %v", el, err)
	}
	cols, err := c.Columns(ctx, "4")
	if err != nil || len(cols) != 2 || cols[0] != "amount" {
		t.Errorf("Columns = %v, %v", cols, err)
	}
	if _, err := c.GetEventLog(ctx, "5"); !apperrors.Is(err, apperrors.ErrCodeNotFound) {
		t.Errorf("missing log err = %v, want NOT_FOUND", err)
	}
}

func TestInvalidEventLogID(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})
	ctx := context.Background()

	if _, err := c.Load(ctx, "../admin"); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("Load err = %v", err)
	}
	if err := c.Save(ctx, "", automaton.SubmitRequest{}); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("Save err = %v", err)
	}
	if _, err := c.Columns(ctx, "a/b"); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("Columns err = %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("%d requests sent for invalid ids", calls.Load())
	}
}

func TestLoad(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/event-logs/7/prefix-automaton" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing header, got %q", r.Header.Get("Authorization"))
		}
		fmt.Fprint(w, automatonJSON)
	}, WithHeaders(map[string]string{"Authorization": "Bearer tok"}))

	a, err := c.Load(context.Background(), "7")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(a.States) != 3 || len(a.Transitions) != 2 {
		t.Errorf("got %d states, %d transitions", len(a.States), len(a.Transitions))
	}
	if a.Transitions[1].ToState != "s2" {
		t.Errorf("transition = %+v", a.Transitions[1])
	}
}

func TestLoadUsesCache(t *testing.T) {
	var calls atomic.Int32
	fc, _ := cache.NewFileCache(t.TempDir())
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, automatonJSON)
	}, WithCache(fc, time.Hour))
	ctx := context.Background()

	first, err := c.Load(ctx, "7")
	if err != nil {
		t.Fatal(err)
	}
	first.States[0].Name = "mutated"

	second, err := c.Load(ctx, "7")
	if err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 1 {
		t.Errorf("requests = %d, want 1", calls.Load())
	}
	if second.States[0].Name != "<>" {
		t.Error("cached automaton shares state with a previous result")
	}

	if err := c.Invalidate(ctx, "7"); err != nil {
		t.Fatal(err)
	}
	c.Load(ctx, "7")
	if calls.Load() != 2 {
		t.Errorf("requests after Invalidate = %d, want 2", calls.Load())
	}
}

func TestLoadIgnoresCorruptCacheEntry(t *testing.T) {
	ctx := context.Background()
	fc, _ := cache.NewFileCache(t.TempDir())
	fc.Set(ctx, cache.AutomatonKey("7"), []byte("{broken"), 0)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, automatonJSON)
	}, WithCache(fc, 0))

	a, err := c.Load(ctx, "7")
	if err != nil || len(a.States) != 3 {
		t.Fatalf("Load = %v, %v", a, err)
	}
}

func TestLoadStatusMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		retries   int
		wantCode  apperrors.Code
		retryable bool
		wantCalls int32
	}{
		{"NotFound", http.StatusNotFound, "", 2, apperrors.ErrCodeNotFound, false, 1},
		{"ServerErrorNoRetry", http.StatusInternalServerError, "", 0, apperrors.ErrCodeNetwork, true, 1},
		{"ServerErrorRetried", http.StatusBadGateway, "", 2, apperrors.ErrCodeNetwork, true, 3},
		{"BadRequest", http.StatusBadRequest, "unknown method", 2, apperrors.ErrCodeInvalidInput, false, 1},
		{"MalformedBody", http.StatusOK, "{not json", 2, apperrors.ErrCodeInvalidFormat, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}, WithRetries(tt.retries, time.Millisecond))

			_, err := c.Load(context.Background(), "7")
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperrors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.wantCode, err)
			}
			if httputil.IsRetryable(err) != tt.retryable {
				t.Errorf("retryable = %v, want %v", httputil.IsRetryable(err), tt.retryable)
			}
			if calls.Load() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls.Load(), tt.wantCalls)
			}
			if tt.body != "" && tt.status == http.StatusBadRequest && !strings.Contains(err.Error(), tt.body) {
				t.Errorf("error %q does not quote the response body", err)
			}
		})
	}
}

func TestLoadRecoversAfterRetry(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, automatonJSON)
	}, WithRetries(3, time.Millisecond))

	if _, err := c.Load(context.Background(), "7"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestLoadTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, _ := New(url)
	_, err := c.Load(context.Background(), "7")
	if !apperrors.Is(err, apperrors.ErrCodeNetwork) {
		t.Errorf("code = %q, want NETWORK_ERROR", apperrors.GetCode(err))
	}
	if !httputil.IsRetryable(err) {
		t.Error("transport errors should be retryable")
	}
}

func TestLoadDeduplicatesConcurrentCalls(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		fmt.Fprint(w, automatonJSON)
	})

	const n = 5
	var wg sync.WaitGroup
	results := make([]*automaton.Automaton, n)
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = c.Load(context.Background(), "7")
		}()
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("requests = %d, want 1", calls.Load())
	}
	for i := range n {
		if errs[i] != nil {
			t.Fatalf("Load %d: %v", i, errs[i])
		}
	}
	results[0].States[0].Name = "changed"
	if results[1].States[0].Name != "<>" {
		t.Error("concurrent callers share one automaton")
	}
}

func TestLoadSurvivesCancelledLeader(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		fmt.Fprint(w, automatonJSON)
	})

	ctx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := c.Load(ctx, "7")
		leaderErr <- err
	}()
	<-started

	type result struct {
		a   *automaton.Automaton
		err error
	}
	follower := make(chan result, 1)
	go func() {
		a, err := c.Load(context.Background(), "7")
		follower <- result{a, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	if err := <-leaderErr; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled caller err = %v, want context.Canceled", err)
	}

	close(release)
	res := <-follower
	if res.err != nil {
		t.Fatalf("Load with live context: %v", res.err)
	}
	if len(res.a.States) != 3 {
		t.Errorf("states = %d, want 3", len(res.a.States))
	}
	if calls.Load() != 1 {
		t.Errorf("requests = %d, want 1", calls.Load())
	}
}

func TestSave(t *testing.T) {
	ctx := context.Background()
	fc, _ := cache.NewFileCache(t.TempDir())
	fc.Set(ctx, cache.AutomatonKey("7"), []byte(automatonJSON), 0)

	var body map[string]json.RawMessage
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/event-logs/7/prefix-automaton" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &body); err != nil {
			t.Errorf("body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}, WithCache(fc, 0))

	req := automaton.SubmitRequest{
		Submission: automaton.Submission{
			States:      []automaton.StateRef{{ID: "s0", Name: "<>"}},
			Transitions: []automaton.Transition{},
		},
		Threshold: 0.5,
	}
	if err := c.Save(ctx, "7", req); err != nil {
		t.Fatalf("Save: %v", err)
	}

	for _, key := range []string{"states", "transitions", "selectedColumns", "threshold", "method"} {
		if _, ok := body[key]; !ok {
			t.Errorf("body missing %q", key)
		}
	}
	if string(body["method"]) != `"logistic_regression"` {
		t.Errorf("method = %s", body["method"])
	}
	if string(body["selectedColumns"]) != "[]" {
		t.Errorf("selectedColumns = %s, want []", body["selectedColumns"])
	}
	if _, hit, _ := fc.Get(ctx, cache.AutomatonKey("7")); hit {
		t.Error("Save did not invalidate the cached automaton")
	}
}

func TestSaveIsNeverRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, WithRetries(3, time.Millisecond))

	err := c.Save(context.Background(), "7", automaton.SubmitRequest{})
	if !apperrors.Is(err, apperrors.ErrCodeNetwork) {
		t.Errorf("err = %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestContextCancel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Load(ctx, "7")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _, _ string, code int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, code)
}

type recordingCacheHooks struct {
	observability.NoopCacheHooks
	mu           sync.Mutex
	hits, misses int
}

func (h *recordingCacheHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *recordingCacheHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses++
}

func TestHooks(t *testing.T) {
	httpHooks := &recordingHTTPHooks{}
	cacheHooks := &recordingCacheHooks{}
	observability.SetHTTPHooks(httpHooks)
	observability.SetCacheHooks(cacheHooks)
	t.Cleanup(observability.Reset)

	fc, _ := cache.NewFileCache(t.TempDir())
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, automatonJSON)
	}, WithCache(fc, 0))

	c.Load(context.Background(), "7")
	c.Load(context.Background(), "7")

	if len(httpHooks.statuses) != 1 || httpHooks.statuses[0] != http.StatusOK {
		t.Errorf("responses = %v", httpHooks.statuses)
	}
	if cacheHooks.hits != 1 || cacheHooks.misses != 1 {
		t.Errorf("hits = %d, misses = %d", cacheHooks.hits, cacheHooks.misses)
	}
}

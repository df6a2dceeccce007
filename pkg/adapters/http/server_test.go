package http

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/triplet"
	"github.com/aretw0/triplet/pkg/adapters/memory"
	"github.com/aretw0/triplet/pkg/adapters/tokenizer"
	"github.com/aretw0/triplet/pkg/domain"
	"github.com/aretw0/triplet/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, opts ...Option) (http.Handler, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	items := []domain.Item{
		{ID: "q1", Text: "Paris is big <eos> Yes"},
		{ID: "q2", Text: "Rome is old"},
	}
	desk, err := triplet.New(context.Background(), items, store, tokenizer.New(), triplet.WithNumTriples(2))
	require.NoError(t, err)

	h, err := NewHandler(desk, store, opts...)
	require.NoError(t, err)
	return h, store
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, runner.Response) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp runner.Response
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
	}
	return w, resp
}

func TestGetSwagger(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.NotNil(t, doc.Paths.Find("/records/{id}"))
}

func TestServer_AnnotationFlow(t *testing.T) {
	h, store := newTestHandler(t)

	w, resp := do(t, h, http.MethodPost, "/assign", `{"turn":0,"token":0}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, resp.OK)

	w, resp = do(t, h, http.MethodPost, "/focus", `{"row":0,"slot":0}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, resp.OK)

	w, resp = do(t, h, http.MethodPost, "/assign", `{"turn":0,"token":0}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "paris", resp.View.Rows[0].Slots[0].Text)

	w, resp = do(t, h, http.MethodPost, "/move", `{"dir":"right"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, resp.Moved)
	assert.True(t, *resp.Moved)

	w, resp = do(t, h, http.MethodPost, "/next", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "q2", resp.View.ItemID)

	rec, err := store.Load(context.Background(), "q1")
	require.NoError(t, err)
	assert.Equal(t, domain.Slot{{Turn: 0, Token: 0}}, rec.Triples[0][domain.SlotSubject])

	w, _ = do(t, h, http.MethodGet, "/records/q1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var stored domain.AnnotationRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.Equal(t, rec.Triples, stored.Triples)

	w, resp = do(t, h, http.MethodPost, "/back", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.View.AlreadyAnnotated)
}

func TestServer_RejectsInvalidRequests(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name, method, path, body string
		want                     int
	}{
		{"slot above schema maximum", http.MethodPost, "/focus", `{"row":0,"slot":5}`, http.StatusBadRequest},
		{"row outside grid", http.MethodPost, "/focus", `{"row":7,"slot":0}`, http.StatusBadRequest},
		{"missing field", http.MethodPost, "/assign", `{"turn":0}`, http.StatusBadRequest},
		{"bad direction", http.MethodPost, "/move", `{"dir":"up"}`, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/focus", `{"row":`, http.StatusBadRequest},
		{"unknown record", http.MethodGet, "/records/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestServer_ViewStatusAndRecord(t *testing.T) {
	h, _ := newTestHandler(t)

	w, _ := do(t, h, http.MethodGet, "/view", "")
	require.Equal(t, http.StatusOK, w.Code)
	var v triplet.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, "Annotating q1 (1/2)", v.Summary)

	w, _ = do(t, h, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"done":false`)

	w, _ = do(t, h, http.MethodGet, "/record", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"annotations":[[[],[],[],[],[]],[[],[],[],[],[]]]`)
}

func TestServer_InfoAndSpec(t *testing.T) {
	h, _ := newTestHandler(t)

	w, _ := do(t, h, http.MethodGet, "/info", "")
	assert.Contains(t, w.Body.String(), `"app":"triplet-http"`)

	w, _ = do(t, h, http.MethodGet, "/openapi.yaml", "")
	assert.Contains(t, w.Body.String(), "Triplet Desk API")
}

func TestServer_Metrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("triplet_records_saved_total 0\n"))
	})
	h, _ := newTestHandler(t, WithMetrics(metrics))

	w, _ := do(t, h, http.MethodGet, "/metrics", "")
	assert.Contains(t, w.Body.String(), "triplet_records_saved_total")
}

func TestServer_EventsStreamViews(t *testing.T) {
	h, _ := newTestHandler(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	lines := bufio.NewReader(resp.Body)
	line, err := lines.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)

	post, err := http.Post(srv.URL+"/skip", "application/json", nil)
	require.NoError(t, err)
	post.Body.Close()

	for {
		line, err = lines.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: {") {
			break
		}
	}
	assert.Contains(t, line, `"item_id":"q2"`)
}

func TestServer_FailedCommandStillBroadcastsView(t *testing.T) {
	items := []domain.Item{{ID: "q1", Text: "Paris is big"}}
	desk, err := triplet.New(context.Background(), items, memory.NewStore(), tokenizer.New())
	require.NoError(t, err)

	s := &Server{Desk: desk, Streams: NewStreamManager(), Logger: slog.New(slog.DiscardHandler)}
	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	req := httptest.NewRequest(http.MethodPost, "/assign", strings.NewReader(`{"turn":0,"token":0}`))
	w := httptest.NewRecorder()
	s.command(runner.OpAssign).ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	select {
	case msg := <-ch:
		assert.Contains(t, msg, `"item_id":"q1"`)
	case <-time.After(time.Second):
		t.Fatal("no view broadcast after failed command")
	}
}

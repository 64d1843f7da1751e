package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/dynroutes"
	"github.com/aretw0/dynroutes/internal/logging"
	"github.com/aretw0/dynroutes/pkg/observability"
	"github.com/aretw0/dynroutes/pkg/routes"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("../../workflow/testdata/three_sources.json")
	require.NoError(t, err)
	return string(data)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	eng := dynroutes.New(
		dynroutes.WithRandomSource(routes.NewSeededSource(1)),
		dynroutes.WithLifecycleHooks(metrics.Hooks()),
	)
	srv := httptest.NewServer(NewHandler(eng, WithLogger(logging.NewNop()), WithMetrics(reg)))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer_WorkflowLifecycle(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/workflows/wf"

	resp := do(t, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodPut, base, fixture(t))
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/workflows", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ids []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ids))
	assert.Equal(t, []string{"wf"}, ids)

	resp = do(t, http.MethodPost, base+"/queue", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res dynroutes.QueueResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.NotEmpty(t, res.PromptID)
	require.NotNil(t, res.Workflow)
	assert.Len(t, res.Workflow.Nodes, 5)

	resp = do(t, http.MethodGet, base+"/validate", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var validation struct {
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&validation))
	assert.True(t, validation.Valid, validation.Errors)

	resp = do(t, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodPost, base+"/queue", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_PutRejectsInvalidJSON(t *testing.T) {
	srv := newTestServer(t)
	resp := do(t, http.MethodPut, srv.URL+"/workflows/wf", "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_ValidateReportsViolations(t *testing.T) {
	srv := newTestServer(t)

	// Junction without its trailing input.
	trailing := ",\n        {\"name\": \"\", \"type\": \"IMAGE\", \"link\": null}"
	require.Contains(t, fixture(t), trailing)
	broken := strings.Replace(fixture(t), trailing, "", 1)
	resp := do(t, http.MethodPut, srv.URL+"/workflows/wf", broken)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/workflows/wf/validate", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var validation struct {
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&validation))
	assert.False(t, validation.Valid)
	assert.NotEmpty(t, validation.Errors)

	resp = do(t, http.MethodPost, srv.URL+"/workflows/wf/reconcile", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/workflows/wf/validate", "")
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&validation))
	assert.True(t, validation.Valid, validation.Errors)
}

func TestServer_GraphAndMetrics(t *testing.T) {
	srv := newTestServer(t)
	require.Equal(t, http.StatusNoContent, do(t, http.MethodPut, srv.URL+"/workflows/wf", fixture(t)).StatusCode)

	resp := do(t, http.MethodGet, srv.URL+"/workflows/wf/graph", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readAll(t, resp)
	assert.Contains(t, body, "graph LR")
	assert.Contains(t, body, `n4{{"DynamicRoutes #4"}}`)

	resp = do(t, http.MethodGet, srv.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readAll(t, resp), "dynroutes_reconciles_total")
}

func TestServer_HealthAndInfo(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/info", "")
	var info map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, strings.TrimSpace(dynroutes.Version), info["version"])
}

func TestSubscribeEvents_Queue(t *testing.T) {
	srv := newTestServer(t)
	require.Equal(t, http.StatusNoContent, do(t, http.MethodPut, srv.URL+"/workflows/wf", fixture(t)).StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/workflows/wf/events", nil)
	require.NoError(t, err)
	stream, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer stream.Body.Close()

	reader := bufio.NewReader(stream.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)

	// Queue until some route actually moves; a seeded shuffle may keep the order once.
	var event string
	for i := 0; i < 10 && event == ""; i++ {
		var res dynroutes.QueueResult
		resp := do(t, http.MethodPost, srv.URL+"/workflows/wf/queue", "")
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		if len(res.Diffs) > 0 {
			event = res.PromptID
		}
	}
	require.NotEmpty(t, event, "no shuffle moved a route")

	for {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: {") {
			assert.Contains(t, line, event)
			return
		}
	}
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	var sb strings.Builder
	_, err := bufio.NewReader(resp.Body).WriteTo(&sb)
	require.NoError(t, err)
	return sb.String()
}

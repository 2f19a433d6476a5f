package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ocr-consolidator/internal/config"
	"ocr-consolidator/internal/inference"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClient struct {
	reply inference.Reply
	err   error
	calls int
	msgs  []inference.Message
}

func (t *testClient) Chat(ctx context.Context, model string, messages []inference.Message) (inference.Reply, error) {
	t.calls++
	t.msgs = messages
	if t.err != nil {
		return inference.Reply{}, t.err
	}
	return t.reply, nil
}

func testConfig() *config.Config {
	enabled := true
	return &config.Config{
		Port:    "0",
		Ollama:  config.Ollama{Host: "http://localhost:11434", Model: "llava"},
		Metrics: config.Metrics{Enabled: &enabled},
	}
}

func postJSON(t *testing.T, url, body string) (int, map[string]string) {
	t.Helper()
	resp, err := http.Post(url+"/process_ocr", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, json.Unmarshal(data, &out), "body: %s", data)
	return resp.StatusCode, out
}

func TestServer_ConsolidatesCandidates(t *testing.T) {
	client := &testClient{reply: inference.Reply{Content: "Hello world"}}
	ts := httptest.NewServer(New(testConfig(), client).Handler())
	defer ts.Close()

	status, body := postJSON(t, ts.URL, `{"texts": ["Helo wrld", "Hello world", "Hello wrold"]}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]string{"processed_text": "Hello world"}, body)
	require.Len(t, client.msgs, 2)
	assert.Equal(t, "The list of OCR extracted text is ['Helo wrld', 'Hello world', 'Hello wrold']", client.msgs[1].Content)
}

func TestServer_RejectsInvalidInput(t *testing.T) {
	client := &testClient{}
	ts := httptest.NewServer(New(testConfig(), client).Handler())
	defer ts.Close()

	for _, body := range []string{`{}`, `{"texts": "not a list"}`} {
		status, out := postJSON(t, ts.URL, body)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Invalid input. Please provide a list of OCR-extracted texts.", out["error"])
	}
	assert.Zero(t, client.calls, "inference must not be called for rejected input")
}

func TestServer_InferenceTimeout(t *testing.T) {
	client := &testClient{err: errors.New("timed out waiting for llava")}
	ts := httptest.NewServer(New(testConfig(), client).Handler())
	defer ts.Close()

	status, body := postJSON(t, ts.URL, `{"texts": ["A", "B"]}`)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "An error occurred while processing: timed out waiting for llava", body["error"])

	// the process keeps serving after a failed inference
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_AgainstFakeOllama(t *testing.T) {
	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/chat":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"model":"llava","message":{"role":"assistant","content":"Hello world"},"done":true}` + "\n"))
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer ollama.Close()

	client, err := inference.NewOllamaClient(ollama.URL)
	require.NoError(t, err)

	ts := httptest.NewServer(New(testConfig(), client).Handler())
	defer ts.Close()

	status, body := postJSON(t, ts.URL, `{"texts": ["Helo wrld", "Hello world"]}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Hello world", body["processed_text"])

	resp, err := http.Get(ts.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, strings.Contains(string(data), `ocr_consolidations_total{model="llava",status="success"} 1`), string(data))
}

func TestServer_MetricsDisabled(t *testing.T) {
	cfg := testConfig()
	disabled := false
	cfg.Metrics.Enabled = &disabled

	ts := httptest.NewServer(New(cfg, &testClient{}).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := New(testConfig(), &testClient{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, s, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRun_ListenError(t *testing.T) {
	cfg := testConfig()
	cfg.Port = "not-a-port"

	err := Run(context.Background(), New(cfg, &testClient{}))
	assert.Error(t, err)
}

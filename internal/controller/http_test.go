package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ai-docchat-be/internal/config"
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/repository/memory"
	"ai-docchat-be/internal/service"
	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/store"
	"ai-docchat-be/pkg/transcribe"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Collaborator stand-ins. The PDF extractor can be gated to hold a
// session in the processing state for as long as a test needs.

type stubExtractor struct {
	text string
	gate chan struct{} // nil means no gating
}

func (s *stubExtractor) ExtractText(string) (string, error) {
	if s.gate != nil {
		<-s.gate
	}
	return s.text, nil
}

type stubAudio struct{}

func (stubAudio) Extract(_ context.Context, videoPath, tempDir string) (string, error) {
	p := filepath.Join(tempDir, "audio.wav")
	return p, os.WriteFile(p, []byte("riff"), 0o644)
}

type stubTranscriber struct{ result *transcribe.Result }

func (s *stubTranscriber) Transcribe(context.Context, string) (*transcribe.Result, error) {
	return s.result, nil
}

type answerProvider struct{ answer string }

func (p *answerProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return p.answer, nil
}

func (p *answerProvider) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	return p.answer, nil
}

type testLogger struct{}

func (testLogger) Debug(string, string, map[string]interface{}) {}
func (testLogger) Info(string, string, map[string]interface{})  {}
func (testLogger) Warn(string, string, map[string]interface{})  {}
func (testLogger) Error(string, string, map[string]interface{}) {}
func (testLogger) Sync() error                                  { return nil }

type appFixture struct {
	app *fiber.App
}

func newApp(t *testing.T, pdf service.TextExtractor, llmAnswer string) *appFixture {
	t.Helper()

	root := t.TempDir()
	storage := config.StorageConfig{
		PDFDir:   filepath.Join(root, "pdf"),
		VideoDir: filepath.Join(root, "video"),
		TempDir:  filepath.Join(root, "temp"),
	}
	for _, dir := range []string{storage.PDFDir, storage.VideoDir, storage.TempDir} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { pubSub.Close() })

	sessionRepo := memory.NewSessionRepository()
	statusRepo := memory.NewStatusRepository()
	publisher := service.NewPublisherService(pubSub, "DOC", "ANSWER")

	transcriberResult := &transcribe.Result{
		Text:     "video transcript",
		Segments: []store.Segment{{Start: 0, End: 10, Text: "hello"}},
	}

	consumer := service.NewConsumerService(
		pubSub, "DOC", "ANSWER",
		sessionRepo, statusRepo,
		pdf, stubAudio{}, &stubTranscriber{result: transcriberResult},
		&answerProvider{answer: llmAnswer},
		storage.TempDir, nil, testLogger{},
	)
	require.NoError(t, consumer.Consume(context.Background()))

	uploadService := service.NewUploadService(storage, sessionRepo, statusRepo, publisher, testLogger{})
	chatService := service.NewChatService(sessionRepo, statusRepo, publisher)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewPageController(chatService).RegisterRoutes(app)
	NewUploadController(uploadService).RegisterRoutes(app)
	NewChatController(chatService).RegisterRoutes(app)

	return &appFixture{app: app}
}

// openSession hits GET / and returns the session cookie to replay.
func (f *appFixture) openSession(t *testing.T) *http.Cookie {
	t.Helper()
	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == serverutils.SessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func (f *appFixture) do(t *testing.T, req *http.Request, cookie *http.Cookie) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	parsed := map[string]json.RawMessage{}
	if len(body) > 0 && body[0] == '{' {
		require.NoError(t, json.Unmarshal(body, &parsed))
	}
	return resp, parsed
}

func (f *appFixture) uploadReq(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func (f *appFixture) pollUntilIdle(t *testing.T, cookie *http.Cookie) string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, body := f.do(t, httptest.NewRequest(http.MethodGet, "/status", nil), cookie)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var processing bool
		require.NoError(t, json.Unmarshal(body["is_processing"], &processing))
		if !processing {
			var status string
			require.NoError(t, json.Unmarshal(body["status"], &status))
			return status
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("session never became idle")
	return ""
}

func TestIndex_issuesSessionCookie(t *testing.T) {
	f := newApp(t, &stubExtractor{text: "doc"}, "answer")
	cookie := f.openSession(t)
	assert.NotEmpty(t, cookie.Value)
}

func TestUpload_withoutSessionCookie(t *testing.T) {
	f := newApp(t, &stubExtractor{text: "doc"}, "answer")

	resp, body := f.do(t, f.uploadReq(t, "doc.pdf", []byte("x")), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `"Session expired"`, string(body["error"]))
}

func TestUpload_missingFile(t *testing.T) {
	f := newApp(t, &stubExtractor{text: "doc"}, "answer")
	cookie := f.openSession(t)

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	resp, body := f.do(t, req, cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `"No file provided"`, string(body["error"]))
}

func TestUpload_unsupportedType(t *testing.T) {
	f := newApp(t, &stubExtractor{text: "doc"}, "answer")
	cookie := f.openSession(t)

	resp, body := f.do(t, f.uploadReq(t, "notes.txt", []byte("text")), cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `"Unsupported file type"`, string(body["error"]))

	// Never began processing
	resp, body = f.do(t, httptest.NewRequest(http.MethodGet, "/status", nil), cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "false", string(body["is_processing"]))
}

func TestScenario_pdfUploadThenAsk(t *testing.T) {
	f := newApp(t, &stubExtractor{text: "the pdf content"}, "<p>It is about tests.</p>")
	cookie := f.openSession(t)

	// Upload returns immediately with an acknowledgement
	resp, body := f.do(t, f.uploadReq(t, "paper.pdf", []byte("%PDF")), cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body["message"]), "Processing")

	status := f.pollUntilIdle(t, cookie)
	assert.Contains(t, status, "processed successfully")

	// No chat yet: extraction populates state, not the transcript
	resp, body = f.do(t, httptest.NewRequest(http.MethodGet, "/messages", nil), cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(body["messages"]))

	// Ask and wait for the answer
	ask := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewBufferString(`{"question":"what is it about?"}`))
	ask.Header.Set("Content-Type", "application/json")
	resp, _ = f.do(t, ask, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	f.pollUntilIdle(t, cookie)

	resp, body = f.do(t, httptest.NewRequest(http.MethodGet, "/messages", nil), cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var messages []store.Message
	require.NoError(t, json.Unmarshal(body["messages"], &messages))
	require.Len(t, messages, 2)
	assert.Equal(t, store.Message{Role: "user", Content: "what is it about?"}, messages[0])
	assert.Equal(t, store.Message{Role: "assistant", Content: "<p>It is about tests.</p>"}, messages[1])
}

func TestAsk_whileProcessing(t *testing.T) {
	gate := make(chan struct{})
	f := newApp(t, &stubExtractor{text: "doc", gate: gate}, "answer")
	cookie := f.openSession(t)

	resp, _ := f.do(t, f.uploadReq(t, "slow.pdf", []byte("%PDF")), cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Extraction is blocked on the gate, so the session is busy
	ask := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewBufferString(`{"question":"too early"}`))
	ask.Header.Set("Content-Type", "application/json")
	resp, body := f.do(t, ask, cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body["error"]), "still processing")

	close(gate)
	f.pollUntilIdle(t, cookie)

	// The rejected question never reached the transcript
	resp, body = f.do(t, httptest.NewRequest(http.MethodGet, "/messages", nil), cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(body["messages"]))
}

func TestAsk_withoutDocument(t *testing.T) {
	f := newApp(t, &stubExtractor{text: "doc"}, "answer")
	cookie := f.openSession(t)

	ask := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewBufferString(`{"question":"anything?"}`))
	ask.Header.Set("Content-Type", "application/json")
	resp, body := f.do(t, ask, cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body["error"]), "No document content available")
}

func TestTimestampRoute(t *testing.T) {
	f := newApp(t, &stubExtractor{text: "doc"}, "answer")
	cookie := f.openSession(t)

	// Before any video: segments are empty
	resp, body := f.do(t, httptest.NewRequest(http.MethodGet, "/timestamp?t=5", nil), cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `"No timestamp information available."`, string(body["context"]))

	// After a video upload the transcript context is served
	resp, _ = f.do(t, f.uploadReq(t, "talk.mp4", []byte("mp4")), cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	f.pollUntilIdle(t, cookie)

	resp, body = f.do(t, httptest.NewRequest(http.MethodGet, "/timestamp?t=5", nil), cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `"[00:00:00] hello"`, string(body["context"]))

	// Bad input
	resp, _ = f.do(t, httptest.NewRequest(http.MethodGet, "/timestamp?t=abc", nil), cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/kiku/internal/ai"
	"github.com/hyperjump/kiku/internal/bot"
	"github.com/hyperjump/kiku/internal/config"
	"github.com/hyperjump/kiku/internal/extract"
	"github.com/hyperjump/kiku/internal/store"
)

const testToken = "test-token"

type stubResponder struct {
	out ai.Outcome
}

func (s *stubResponder) Respond(_ context.Context, _, _ string, _ int) ai.Outcome {
	return s.out
}

func newTestServer(t *testing.T, out ai.Outcome) *Server {
	t.Helper()
	st := store.NewMemoryStore(1000)
	t.Cleanup(func() { _ = st.Close() })
	orch := bot.NewOrchestrator(st, extract.NewExtractor(), &stubResponder{out: out}, 1000, t.TempDir(), zap.NewNop())
	return NewServer(orch, &config.ServerConfig{Host: "localhost", Port: 8080}, testToken, 1<<20, zap.NewNop())
}

// do sends req through the full router with auth attached.
func do(t *testing.T, srv *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func decodeReply(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var out replyResponse
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	return out.Reply
}

// uploadRequest builds a multipart upload for the given filename and content.
func uploadRequest(t *testing.T, userID, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/"+userID+"/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAuth_missingToken(t *testing.T) {
	srv := newTestServer(t, ai.Outcome{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/u1/context", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d", w.Code)
	}
}

func TestHealth_noAuthRequired(t *testing.T) {
	srv := newTestServer(t, ai.Outcome{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status: got %d", w.Code)
	}
}

func TestUpload_txt(t *testing.T) {
	srv := newTestServer(t, ai.Outcome{})
	w := do(t, srv, uploadRequest(t, "u1", "notes.txt", []byte("some document text")))
	if w.Code != http.StatusCreated {
		t.Fatalf("status: got %d body %s", w.Code, w.Body.String())
	}
	if reply := decodeReply(t, w); !strings.Contains(reply, "notes.txt") {
		t.Errorf("reply: got %q", reply)
	}

	w = do(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/users/u1/context", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	if reply := decodeReply(t, w); !strings.Contains(reply, "18 characters") {
		t.Errorf("status reply: got %q", reply)
	}
}

func TestUpload_unsupportedFormat(t *testing.T) {
	srv := newTestServer(t, ai.Outcome{})
	w := do(t, srv, uploadRequest(t, "u1", "notes.docx", []byte("data")))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d", w.Code)
	}
	if reply := decodeReply(t, w); !strings.Contains(reply, ".pdf") {
		t.Errorf("reply should name supported formats, got %q", reply)
	}
}

func TestUpload_missingFile(t *testing.T) {
	srv := newTestServer(t, ai.Outcome{})
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("note", "no file here")
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/u1/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := do(t, srv, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d", w.Code)
	}
}

func TestMessage_answered(t *testing.T) {
	srv := newTestServer(t, ai.Outcome{Kind: ai.OutcomeAnswered, Text: "Revenue."})
	w := do(t, srv, uploadRequest(t, "u1", "report.txt", []byte("Quarterly revenue rose 10%.")))
	if w.Code != http.StatusCreated {
		t.Fatalf("upload status: got %d", w.Code)
	}

	body := bytes.NewBufferString(`{"content":"What rose 10%?"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/u1/messages", body)
	w = do(t, srv, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	if reply := decodeReply(t, w); reply != "Revenue." {
		t.Errorf("reply: got %q", reply)
	}
}

func TestMessage_noContextGivesOnboarding(t *testing.T) {
	srv := newTestServer(t, ai.Outcome{})
	body := bytes.NewBufferString(`{"content":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/u1/messages", body)
	w := do(t, srv, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	if reply := decodeReply(t, w); !strings.Contains(reply, "upload a file") {
		t.Errorf("reply: got %q", reply)
	}
}

func TestMessage_emptyContent(t *testing.T) {
	srv := newTestServer(t, ai.Outcome{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/u1/messages", bytes.NewBufferString(`{}`))
	w := do(t, srv, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d", w.Code)
	}
}

func TestReset(t *testing.T) {
	srv := newTestServer(t, ai.Outcome{})
	w := do(t, srv, httptest.NewRequest(http.MethodDelete, "/api/v1/users/u1/context", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	if reply := decodeReply(t, w); !strings.Contains(reply, "don't have an active document") {
		t.Errorf("reply: got %q", reply)
	}

	if w := do(t, srv, uploadRequest(t, "u1", "doc.txt", []byte("text"))); w.Code != http.StatusCreated {
		t.Fatalf("upload status: got %d", w.Code)
	}
	w = do(t, srv, httptest.NewRequest(http.MethodDelete, "/api/v1/users/u1/context", nil))
	if reply := decodeReply(t, w); !strings.Contains(reply, "cleared") {
		t.Errorf("reply: got %q", reply)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	srv := newTestServer(t, ai.Outcome{})
	if w := do(t, srv, uploadRequest(t, "u1", "doc.txt", []byte("text"))); w.Code != http.StatusCreated {
		t.Fatalf("upload status: got %d", w.Code)
	}
	w := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/users/u2/context", nil))
	if reply := decodeReply(t, w); !strings.Contains(reply, "No document") {
		t.Errorf("u2 should have no context, got %q", reply)
	}
}

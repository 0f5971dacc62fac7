package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/honeyvig/voicescribe/errors"
	"github.com/honeyvig/voicescribe/transcription"
)

type scriptedProvider struct {
	result *transcription.TranscriptionResult
	err    error
}

func (p *scriptedProvider) Name() string                         { return "scripted" }
func (p *scriptedProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *scriptedProvider) Transcribe(ctx context.Context, req transcription.TranscriptionRequest) (*transcription.TranscriptionResult, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

func segmentsResult(texts ...string) *transcription.TranscriptionResult {
	segments := make([]transcription.Segment, len(texts))
	for i, text := range texts {
		segments[i] = transcription.Segment{Text: text}
	}
	return &transcription.TranscriptionResult{Provider: "scripted", Segments: segments}
}

func newTestRouter(t *testing.T, p transcription.Provider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := transcription.Config{}
	cfg.ApplyDefaults()
	cfg.Retry.InitialBackoff = time.Millisecond
	cfg.Retry.MaxBackoff = 5 * time.Millisecond

	svc, err := transcription.NewService(cfg, p, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	engine := gin.New()
	NewHandler(svc, nil).RegisterRoutes(engine)
	return engine
}

func postRaw(router *gin.Engine, body []byte, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postMultipart(t *testing.T, router *gin.Engine, audio []byte, audioType, language string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="audio"; filename="clip.wav"`)
	header.Set("Content-Type", audioType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(audio); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	if language != "" {
		_ = writer.WriteField("language", language)
	}
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errors.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v (body: %s)", err, w.Body.String())
	}
	return string(resp.Error.Code)
}

func TestTranscribe_RawBodySuccess(t *testing.T) {
	router := newTestRouter(t, &scriptedProvider{result: segmentsResult("hello", "world")})

	w := postRaw(router, []byte("audio bytes"), "audio/wav")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", w.Code, w.Body.String())
	}

	var resp TranscribeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Transcription != "hello\nworld" {
		t.Errorf("expected joined transcript, got %q", resp.Transcription)
	}
}

func TestTranscribe_MultipartSuccess(t *testing.T) {
	router := newTestRouter(t, &scriptedProvider{result: segmentsResult("merhaba")})

	w := postMultipart(t, router, []byte("audio bytes"), "audio/mpeg", "tr-TR")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", w.Code, w.Body.String())
	}

	var resp TranscribeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Transcription != "merhaba" {
		t.Errorf("unexpected transcript %q", resp.Transcription)
	}
}

func TestTranscribe_MultipartMissingAudioField(t *testing.T) {
	router := newTestRouter(t, &scriptedProvider{result: segmentsResult("never")})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	_ = writer.WriteField("language", "en-US")
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if code := decodeErrorCode(t, w); code != string(errors.ErrCodeInvalidInput) {
		t.Errorf("unexpected error code %s", code)
	}
}

func TestTranscribe_ValidationStatuses(t *testing.T) {
	router := newTestRouter(t, &scriptedProvider{result: segmentsResult("never")})

	tests := []struct {
		name        string
		body        []byte
		contentType string
		wantStatus  int
		wantCode    errors.ErrorCode
	}{
		{"empty body", nil, "audio/wav", http.StatusBadRequest, errors.ErrCodeEmptyPayload},
		{"unsupported type", []byte("data"), "video/mp4", http.StatusBadRequest, errors.ErrCodeUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postRaw(router, tt.body, tt.contentType)
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if code := decodeErrorCode(t, w); code != string(tt.wantCode) {
				t.Errorf("expected %s, got %s", tt.wantCode, code)
			}
		})
	}
}

func TestTranscribe_RejectsInvalidLanguageTag(t *testing.T) {
	router := newTestRouter(t, &scriptedProvider{result: segmentsResult("never")})

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe?language=not%20a%20tag", bytes.NewReader([]byte("audio")))
	req.Header.Set("Content-Type", "audio/wav")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if code := decodeErrorCode(t, w); code != string(errors.ErrCodeInvalidInput) {
		t.Errorf("unexpected error code %s", code)
	}
}

func TestTranscribe_ProviderErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unauthorized", errors.ProviderUnauthorized("scripted"), http.StatusBadGateway},
		{"rate limited", errors.ProviderRateLimited("scripted"), http.StatusServiceUnavailable},
		{"unavailable", errors.ProviderUnavailable("scripted", nil), http.StatusServiceUnavailable},
		{"malformed", errors.MalformedResponse("scripted", nil), http.StatusBadGateway},
		{"unknown", errors.ProviderUnknown("scripted", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, &scriptedProvider{err: tt.err})
			w := postRaw(router, []byte("audio"), "audio/wav")
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d (body: %s)", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestTranscribe_EmptyTranscriptIsBadGateway(t *testing.T) {
	router := newTestRouter(t, &scriptedProvider{
		result: &transcription.TranscriptionResult{Provider: "scripted"},
	})

	w := postRaw(router, []byte("audio"), "audio/wav")
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502 for an empty transcript, got %d", w.Code)
	}
	if code := decodeErrorCode(t, w); code != string(errors.ErrCodeEmptyTranscript) {
		t.Errorf("unexpected error code %s", code)
	}
}

// Package api exposes the public HTTP surface of the transcription service.
package api

import (
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/honeyvig/voicescribe/errors"
	"github.com/honeyvig/voicescribe/logger"
	"github.com/honeyvig/voicescribe/server"
	"github.com/honeyvig/voicescribe/transcription"
	"github.com/honeyvig/voicescribe/validation"
)

// audioFieldName is the multipart form field carrying the upload.
const audioFieldName = "audio"

// TranscribeResponse is the success body for a transcription request.
type TranscribeResponse struct {
	Transcription string `json:"transcription"`
}

// transcribeParams are the caller-supplied request parameters.
type transcribeParams struct {
	Language string `json:"language" validate:"omitempty,bcp47_language_tag"`
}

// Handler serves the transcription endpoints.
type Handler struct {
	svc *transcription.Service
	log *logger.Logger
}

// NewHandler creates the API handler around the pipeline service.
func NewHandler(svc *transcription.Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.WithComponent("api")
	}
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes mounts the API routes on the engine.
func (h *Handler) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api")
	group.POST("/transcribe", h.Transcribe)
}

// Transcribe accepts an audio upload and returns its transcript. The upload
// is either a multipart form with an "audio" file field and an optional
// "language" field, or a raw body whose Content-Type declares the audio
// format (language then comes from the "language" query parameter).
func (h *Handler) Transcribe(c *gin.Context) {
	data, contentType, language, err := readUpload(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	if err := validation.Validate(transcribeParams{Language: language}); err != nil {
		server.RespondWithError(c, err)
		return
	}

	text, err := h.svc.Process(c.Request.Context(), data, contentType, language)
	if err != nil {
		h.logFailure(c, err)
		server.RespondWithError(c, err)
		return
	}

	server.RespondOK(c, TranscribeResponse{Transcription: text})
}

// readUpload extracts the audio bytes, declared content type, and requested
// language from either upload shape.
func readUpload(c *gin.Context) (data []byte, contentType, language string, err error) {
	if isMultipart(c) {
		fileHeader, formErr := c.FormFile(audioFieldName)
		if formErr != nil {
			return nil, "", "", errors.InvalidInput(`multipart upload requires an "audio" file field`).WithCause(formErr)
		}

		file, openErr := fileHeader.Open()
		if openErr != nil {
			return nil, "", "", errors.Internal(openErr)
		}
		defer func() { _ = file.Close() }()

		data, err = io.ReadAll(file)
		if err != nil {
			return nil, "", "", errors.Internal(err)
		}
		return data, fileHeader.Header.Get("Content-Type"), c.PostForm("language"), nil
	}

	data, err = io.ReadAll(c.Request.Body)
	if err != nil {
		// MaxBytesReader surfaces oversized raw bodies as a read error.
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return nil, "", "", errors.PayloadTooLarge(maxErr.Limit+1, maxErr.Limit)
		}
		return nil, "", "", errors.Internal(err)
	}
	return data, c.ContentType(), c.Query("language"), nil
}

func isMultipart(c *gin.Context) bool {
	return c.ContentType() == "multipart/form-data"
}

func (h *Handler) logFailure(c *gin.Context, err error) {
	fields := logger.Fields("path", c.Request.URL.Path)
	if appErr, ok := errors.AsAppError(err); ok {
		fields["code"] = string(appErr.Code)
		if appErr.HTTPStatus >= 500 {
			h.log.WithContext(c.Request.Context()).WithError(err).Error("Transcription request failed", fields)
			return
		}
		h.log.WithContext(c.Request.Context()).Warn("Transcription request rejected", fields)
		return
	}
	h.log.WithContext(c.Request.Context()).WithError(err).Error("Transcription request failed", fields)
}

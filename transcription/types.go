package transcription

import "strings"

// AudioPayload is a validated audio upload. It is immutable once built:
// the pipeline never modifies Data after validation.
type AudioPayload struct {
	// Data is the raw audio bytes.
	Data []byte
	// ContentType is the normalized MIME type (lowercased, parameters stripped).
	ContentType string
	// SampleRate is an optional sample-rate hint in Hz (0 when unknown).
	SampleRate int
	// Encoding is an optional provider encoding hint (e.g. "LINEAR16").
	Encoding string
}

// TranscriptionRequest holds everything a backend needs for one call.
// It is built once per Process invocation and never mutated.
type TranscriptionRequest struct {
	// Audio is the validated payload.
	Audio AudioPayload
	// Language is the expected language of the audio (e.g. "en-US").
	Language string
}

// Segment represents one unit of recognized text in provider-reported order.
type Segment struct {
	// Text is the transcribed text for this segment.
	Text string `json:"text"`
	// Start is the segment start time in seconds, if the provider reports it.
	Start float64 `json:"start,omitempty"`
	// End is the segment end time in seconds, if the provider reports it.
	End float64 `json:"end,omitempty"`
	// Confidence is the provider-reported confidence, if any.
	Confidence float64 `json:"confidence,omitempty"`
}

// TranscriptionResult holds the outcome of a successful transcription.
// Segments is never empty: a provider response with zero segments is an
// error, not an empty result.
type TranscriptionResult struct {
	// Provider is the name of the backend that produced the result.
	Provider string `json:"provider"`
	// Language is the detected or requested language.
	Language string `json:"language,omitempty"`
	// Segments contains the recognized text in provider-reported order.
	Segments []Segment `json:"segments"`
	// Duration is the audio duration in seconds, if known.
	Duration float64 `json:"duration,omitempty"`
}

// Text renders the final transcript: segment texts joined with newlines,
// preserving provider-reported order.
func (r *TranscriptionResult) Text() string {
	parts := make([]string, len(r.Segments))
	for i, seg := range r.Segments {
		parts[i] = seg.Text
	}
	return strings.Join(parts, "\n")
}

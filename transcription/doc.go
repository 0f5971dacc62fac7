// Package transcription implements the audio ingestion and transcription
// pipeline: payload validation, the provider contract for speech-to-text
// backends, and the orchestrator that dispatches validated audio to the
// configured backend with bounded retry and a concurrency ceiling.
//
// # Backends
//
//   - transcription/google: cloud REST speech recognition
//   - transcription/whisper: local faster-whisper HTTP sidecar
//
// Backends are registered as factories and selected once at startup:
//
//	reg := transcription.NewRegistry()
//	reg.RegisterFactory(google.ProviderName, google.Factory())
//	p, err := reg.Create(cfg.Provider, settings)
//	svc := transcription.NewService(cfg, p, log)
//	result, err := svc.Process(ctx, audio, "audio/wav", "en-US")
package transcription

package chatjpt

import (
	"context"
	"net/http"

	"github.com/petal-labs/chatjpt/core"
)

const (
	speechPath         = "/audio/speech"
	transcriptionsPath = "/audio/transcriptions"
	translationsPath   = "/audio/translations"
)

// AudioClient turns text into speech and speech into text.
type AudioClient struct {
	t *core.Transport
}

// CreateSpeech synthesizes audio and writes it to dst, creating parent
// directories as needed. Nothing is written if the call fails.
func (c *AudioClient) CreateSpeech(ctx context.Context, req *SpeechRequest, dst string) error {
	return c.t.Download(ctx, c.speechRequest(req), dst)
}

// CreateSpeechAsync is the asynchronous form of CreateSpeech. The Future
// resolves to dst.
func (c *AudioClient) CreateSpeechAsync(ctx context.Context, req *SpeechRequest, dst string) *core.Future[string] {
	return c.t.DownloadAsync(ctx, c.speechRequest(req), dst)
}

func (c *AudioClient) speechRequest(req *SpeechRequest) core.Request {
	return core.Request{Operation: "audio.speech", Method: http.MethodPost, Path: speechPath, Body: req}
}

// CreateTranscription transcribes audio in its original language.
func (c *AudioClient) CreateTranscription(ctx context.Context, req *TranscriptionRequest) (*Transcription, error) {
	r := core.Request{Operation: "audio.transcription", Method: http.MethodPost, Path: transcriptionsPath, Body: req}
	if req != nil && rawTextFormat(req.ResponseFormat) {
		body, err := c.t.SendRaw(ctx, r)
		if err != nil {
			return nil, err
		}
		return &Transcription{Text: string(body)}, nil
	}
	return core.Send[Transcription](ctx, c.t, r)
}

// CreateTranscriptionAsync is the asynchronous form of CreateTranscription.
func (c *AudioClient) CreateTranscriptionAsync(ctx context.Context, req *TranscriptionRequest) *core.Future[*Transcription] {
	return core.Async(func() (*Transcription, error) {
		return c.CreateTranscription(ctx, req)
	})
}

// CreateTranslation translates audio into English.
func (c *AudioClient) CreateTranslation(ctx context.Context, req *TranslationRequest) (*Translation, error) {
	r := core.Request{Operation: "audio.translation", Method: http.MethodPost, Path: translationsPath, Body: req}
	if req != nil && rawTextFormat(req.ResponseFormat) {
		body, err := c.t.SendRaw(ctx, r)
		if err != nil {
			return nil, err
		}
		return &Translation{Text: string(body)}, nil
	}
	return core.Send[Translation](ctx, c.t, r)
}

// CreateTranslationAsync is the asynchronous form of CreateTranslation.
func (c *AudioClient) CreateTranslationAsync(ctx context.Context, req *TranslationRequest) *core.Future[*Translation] {
	return core.Async(func() (*Translation, error) {
		return c.CreateTranslation(ctx, req)
	})
}

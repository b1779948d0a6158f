package chatjpt

import "github.com/petal-labs/chatjpt/core"

// Transcript response formats.
const (
	FormatJSON        = "json"
	FormatText        = "text"
	FormatSRT         = "srt"
	FormatVerboseJSON = "verbose_json"
	FormatVTT         = "vtt"
)

// SpeechRequest is the body of POST /audio/speech.
type SpeechRequest struct {
	Model          string   `json:"model" validate:"required"`
	Input          string   `json:"input" validate:"required"`
	Voice          string   `json:"voice" validate:"required"`
	ResponseFormat string   `json:"response_format,omitempty" validate:"omitempty,oneof=mp3 opus aac flac wav pcm"`
	Speed          *float64 `json:"speed,omitempty" validate:"omitempty,min=0.25,max=4"`
}

// NewSpeechRequest validates r and returns a copy.
func NewSpeechRequest(r SpeechRequest) (*SpeechRequest, error) {
	if err := core.Validate(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// TranscriptionRequest is the multipart body of POST /audio/transcriptions.
type TranscriptionRequest struct {
	File                   core.File `json:"-" form:"file" validate:"required"`
	Model                  string    `json:"model" validate:"required"`
	Language               string    `json:"language,omitempty"`
	Prompt                 string    `json:"prompt,omitempty"`
	ResponseFormat         string    `json:"response_format,omitempty" validate:"omitempty,oneof=json text srt verbose_json vtt"`
	Temperature            *float64  `json:"temperature,omitempty"`
	TimestampGranularities []string  `json:"timestamp_granularities,omitempty"`
}

// NewTranscriptionRequest validates r and returns a copy.
func NewTranscriptionRequest(r TranscriptionRequest) (*TranscriptionRequest, error) {
	if err := core.Validate(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// MultipartForm implements core.Multipart.
func (r *TranscriptionRequest) MultipartForm() *core.Form {
	f := core.NewForm().
		Add("model", r.Model).
		Add("language", r.Language).
		Add("prompt", r.Prompt).
		Add("response_format", r.ResponseFormat).
		AddFloat("temperature", r.Temperature)
	for _, g := range r.TimestampGranularities {
		f.Add("timestamp_granularities[]", g)
	}
	return f.AddFile("file", r.File)
}

// TranslationRequest is the multipart body of POST /audio/translations.
type TranslationRequest struct {
	File           core.File `json:"-" form:"file" validate:"required"`
	Model          string    `json:"model" validate:"required"`
	Prompt         string    `json:"prompt,omitempty"`
	ResponseFormat string    `json:"response_format,omitempty" validate:"omitempty,oneof=json text srt verbose_json vtt"`
	Temperature    *float64  `json:"temperature,omitempty"`
}

// NewTranslationRequest validates r and returns a copy.
func NewTranslationRequest(r TranslationRequest) (*TranslationRequest, error) {
	if err := core.Validate(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// MultipartForm implements core.Multipart.
func (r *TranslationRequest) MultipartForm() *core.Form {
	return core.NewForm().
		Add("model", r.Model).
		Add("prompt", r.Prompt).
		Add("response_format", r.ResponseFormat).
		AddFloat("temperature", r.Temperature).
		AddFile("file", r.File)
}

// Transcription is the result of POST /audio/transcriptions. For the text,
// srt and vtt formats only Text is set, holding the raw body.
type Transcription struct {
	Text     string                 `json:"text"`
	Language string                 `json:"language,omitempty"`
	Duration float64                `json:"duration,omitempty"`
	Segments []TranscriptionSegment `json:"segments,omitempty"`
	Words    []TranscriptionWord    `json:"words,omitempty"`
}

// Translation is the result of POST /audio/translations. For the text,
// srt and vtt formats only Text is set, holding the raw body.
type Translation struct {
	Text     string                 `json:"text"`
	Language string                 `json:"language,omitempty"`
	Duration float64                `json:"duration,omitempty"`
	Segments []TranscriptionSegment `json:"segments,omitempty"`
}

// TranscriptionSegment is one segment of a verbose_json transcript.
type TranscriptionSegment struct {
	ID               int     `json:"id"`
	Seek             int     `json:"seek"`
	Start            float64 `json:"start"`
	End              float64 `json:"end"`
	Text             string  `json:"text"`
	Tokens           []int   `json:"tokens"`
	Temperature      float64 `json:"temperature"`
	AvgLogprob       float64 `json:"avg_logprob"`
	CompressionRatio float64 `json:"compression_ratio"`
	NoSpeechProb     float64 `json:"no_speech_prob"`
}

// TranscriptionWord is one word with timestamps.
type TranscriptionWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// rawTextFormat reports whether format returns a plain-text body.
func rawTextFormat(format string) bool {
	switch format {
	case FormatText, FormatSRT, FormatVTT:
		return true
	}
	return false
}

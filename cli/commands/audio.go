package commands

import (
	"github.com/spf13/cobra"

	"github.com/petal-labs/chatjpt"
	"github.com/petal-labs/chatjpt/core"
)

func (a *App) newAudioCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audio",
		Short: "Text to speech and speech to text",
	}
	cmd.AddCommand(a.newSpeechCommand())
	cmd.AddCommand(a.newTranscribeCommand())
	cmd.AddCommand(a.newTranslateCommand())
	return cmd
}

func (a *App) newSpeechCommand() *cobra.Command {
	var (
		input  string
		voice  string
		out    string
		format string
		speed  float64
	)

	cmd := &cobra.Command{
		Use:   "speech",
		Short: "Synthesize speech into an audio file",
		Long: `Synthesize speech into an audio file.

Example:
  chatjpt audio speech --input "Hello there" --voice alloy --out hello.mp3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := chatjpt.SpeechRequest{
				Model:          a.modelOr("tts-1"),
				Input:          input,
				Voice:          voice,
				ResponseFormat: format,
			}
			if cmd.Flags().Changed("speed") {
				r.Speed = &speed
			}
			req, err := chatjpt.NewSpeechRequest(r)
			if err != nil {
				return a.invalid(err)
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			if err := client.Audio().CreateSpeech(cmd.Context(), req, out); err != nil {
				return a.fail(err)
			}
			return a.emit(map[string]string{"path": out}, func() {
				a.printf("Wrote %s\n", out)
			})
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "text to speak (required)")
	cmd.Flags().StringVar(&voice, "voice", "alloy", "voice name")
	cmd.Flags().StringVar(&out, "out", "", "output file (required)")
	cmd.Flags().StringVar(&format, "format", "", "mp3, opus, aac, flac, wav or pcm")
	cmd.Flags().Float64Var(&speed, "speed", 1, "playback speed between 0.25 and 4")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

type speechToTextFlags struct {
	language string
	prompt   string
	format   string
}

func (a *App) newTranscribeCommand() *cobra.Command {
	var f speechToTextFlags

	cmd := &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: "Transcribe audio in its original language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := chatjpt.NewTranscriptionRequest(chatjpt.TranscriptionRequest{
				File:           core.FileFromPath(args[0]),
				Model:          a.modelOr("whisper-1"),
				Language:       f.language,
				Prompt:         f.prompt,
				ResponseFormat: f.format,
			})
			if err != nil {
				return a.invalid(err)
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			resp, err := client.Audio().CreateTranscription(cmd.Context(), req)
			if err != nil {
				return a.fail(err)
			}
			return a.emit(resp, func() { a.printText(resp.Text) })
		},
	}

	cmd.Flags().StringVar(&f.language, "language", "", "ISO-639-1 language of the audio")
	f.register(cmd)
	return cmd
}

func (a *App) newTranslateCommand() *cobra.Command {
	var f speechToTextFlags

	cmd := &cobra.Command{
		Use:   "translate <audio-file>",
		Short: "Translate audio into English text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := chatjpt.NewTranslationRequest(chatjpt.TranslationRequest{
				File:           core.FileFromPath(args[0]),
				Model:          a.modelOr("whisper-1"),
				Prompt:         f.prompt,
				ResponseFormat: f.format,
			})
			if err != nil {
				return a.invalid(err)
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			resp, err := client.Audio().CreateTranslation(cmd.Context(), req)
			if err != nil {
				return a.fail(err)
			}
			return a.emit(resp, func() { a.printText(resp.Text) })
		},
	}

	f.register(cmd)
	return cmd
}

func (f *speechToTextFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.prompt, "prompt", "", "text to guide the model's style")
	cmd.Flags().StringVar(&f.format, "format", "", "json, text, srt, verbose_json or vtt")
}

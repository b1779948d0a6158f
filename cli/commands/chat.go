package commands

import (
	"github.com/spf13/cobra"

	"github.com/petal-labs/chatjpt"
)

type chatFlags struct {
	prompt      string
	system      string
	temperature float64
	maxTokens   int
	stream      bool
}

func (a *App) newChatCommand() *cobra.Command {
	var f chatFlags

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Send a chat completion request",
		Long: `Send a chat completion request.

Examples:
  chatjpt chat --model gpt-4 --prompt "Hello"
  chatjpt chat --prompt "Hello" --stream
  chatjpt chat --prompt "Hello" --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := chatjpt.NewChatRequest(f.request(a.modelOr(chatjpt.DefaultChatModel), cmd))
			if err != nil {
				return a.invalid(err)
			}
			client, err := a.client()
			if err != nil {
				return err
			}
			if f.stream {
				return a.runStreamingChat(cmd, client, req)
			}
			return a.runChat(cmd, client, req)
		},
	}

	cmd.Flags().StringVar(&f.prompt, "prompt", "", "user message (required)")
	cmd.Flags().StringVar(&f.system, "system", "", "system message")
	cmd.Flags().Float64Var(&f.temperature, "temperature", 0, "sampling temperature")
	cmd.Flags().IntVar(&f.maxTokens, "max-tokens", 0, "maximum tokens to generate")
	cmd.Flags().BoolVar(&f.stream, "stream", false, "stream the response as it is generated")
	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}

func (f *chatFlags) request(model string, cmd *cobra.Command) chatjpt.ChatRequest {
	req := chatjpt.ChatRequest{Model: model}
	if f.system != "" {
		req.Messages = append(req.Messages, chatjpt.SystemMessage(f.system))
	}
	req.Messages = append(req.Messages, chatjpt.UserMessage(f.prompt))

	if cmd.Flags().Changed("temperature") {
		t := f.temperature
		req.Temperature = &t
	}
	if f.maxTokens > 0 {
		n := f.maxTokens
		req.MaxTokens = &n
	}
	return req
}

func (a *App) runChat(cmd *cobra.Command, client *chatjpt.Client, req *chatjpt.ChatRequest) error {
	resp, err := client.Chat().Create(cmd.Context(), req)
	if err != nil {
		return a.fail(err)
	}

	a.logger.Info("chat completed",
		"model", resp.Model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)

	return a.emit(resp, func() {
		a.printf("%s\n", resp.Content())
	})
}

func (a *App) runStreamingChat(cmd *cobra.Command, client *chatjpt.Client, req *chatjpt.ChatRequest) error {
	stream, err := client.Chat().CreateStream(cmd.Context(), req)
	if err != nil {
		return a.fail(err)
	}
	defer stream.Close()

	chunks := 0
	for chunk := range stream.All() {
		chunks++
		if a.jsonOutput {
			// One chunk per line.
			if err := a.printJSONLine(chunk); err != nil {
				return err
			}
			continue
		}
		a.printf("%s", chunk.Delta())
	}
	if !a.jsonOutput {
		a.printf("\n")
	}

	if err := stream.Err(); err != nil {
		return a.fail(err)
	}
	a.logger.Info("chat stream completed", "chunks", chunks)
	return nil
}

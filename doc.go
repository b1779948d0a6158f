// Package chatjpt is a typed client for the OpenAI HTTP API.
//
// Create a client once and share it:
//
//	client, err := chatjpt.New(os.Getenv("OPENAI_API_KEY"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Requests are plain structs. The NewXxxRequest constructors check required
// fields and fail with a *core.InvalidRequestError before anything is sent:
//
//	req, err := chatjpt.NewChatRequest(chatjpt.ChatRequest{
//	    Messages: []chatjpt.ChatMessage{chatjpt.UserMessage("Hello!")},
//	})
//	resp, err := client.Chat().Create(ctx, req)
//	fmt.Println(resp.Content())
//
// # Resource clients
//
// Each API area has its own client, returned by an accessor on [Client]:
// [Client.Chat], [Client.Audio], [Client.Images], [Client.Embeddings],
// [Client.Moderations], [Client.Files], [Client.FineTuning] and
// [Client.Models]. Most calls have an Async variant that returns a
// *core.Future.
//
// # Streaming
//
//	stream, err := client.Chat().CreateStream(ctx, req)
//	if err != nil {
//	    return err
//	}
//	for chunk := range stream.All() {
//	    fmt.Print(chunk.Delta())
//	}
//	if err := stream.Err(); err != nil {
//	    return err
//	}
//
// Package tools runs function calls requested by the model and rebuilds
// streamed tool calls from chunk deltas.
//
// # Errors
//
// Non-2xx responses are returned as *core.APIError carrying the status
// code and the message from the API:
//
//	var apiErr *core.APIError
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
//	    ...
//	}
//
// Nothing is retried automatically.
package chatjpt

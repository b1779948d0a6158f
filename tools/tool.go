// Package tools runs the functions a chat model asks to call.
//
// A Registry holds Tool implementations, advertises them as
// chatjpt.Tool definitions and turns the model's tool calls into tool
// messages for the next request:
//
//	reg := tools.NewRegistry()
//	reg.Register(weather)
//
//	req.Tools = reg.Definitions()
//	resp, _ := client.Chat().Create(ctx, req)
//	msg := resp.Choices[0].Message
//	if len(msg.ToolCalls) > 0 {
//		results, err := reg.Dispatch(ctx, msg.ToolCalls)
//		...
//		req.Messages = append(req.Messages, msg)
//		req.Messages = append(req.Messages, results...)
//	}
//
// For streamed completions an Assembler rebuilds the assistant message,
// tool calls included, from the chunk deltas.
package tools

import (
	"context"
	"encoding/json"

	"github.com/petal-labs/chatjpt"
)

// Tool is a function the model may call.
type Tool interface {
	// Name is the function name sent to the model. It must be unique
	// within a Registry.
	Name() string

	// Description tells the model when to use the tool.
	Description() string

	// Parameters returns the JSON Schema of the arguments object.
	Parameters() json.RawMessage

	// Call executes the tool with the raw JSON arguments from the model.
	Call(ctx context.Context, args json.RawMessage) (any, error)
}

// Definition returns the chat request form of t.
func Definition(t Tool) chatjpt.Tool {
	return chatjpt.FunctionTool(t.Name(), t.Description(), t.Parameters())
}

// Func adapts a typed function into a Tool. Arguments are decoded into a
// new A before fn is called.
func Func[A any](name, description string, parameters json.RawMessage, fn func(context.Context, A) (any, error)) Tool {
	return &funcTool[A]{name: name, description: description, parameters: parameters, fn: fn}
}

type funcTool[A any] struct {
	name        string
	description string
	parameters  json.RawMessage
	fn          func(context.Context, A) (any, error)
}

func (t *funcTool[A]) Name() string                { return t.name }
func (t *funcTool[A]) Description() string         { return t.description }
func (t *funcTool[A]) Parameters() json.RawMessage { return t.parameters }

func (t *funcTool[A]) Call(ctx context.Context, args json.RawMessage) (any, error) {
	a, err := decodeArgs[A](args)
	if err != nil {
		return nil, err
	}
	return t.fn(ctx, *a)
}

package tools

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/petal-labs/chatjpt"
)

type assemblingCall struct {
	id        string
	typ       string
	name      string
	arguments strings.Builder
}

// Assembler rebuilds the assistant message of one choice from streamed
// chunks. Tool call fragments are matched by their index; the first
// fragment of a call carries its id and name, later ones only append
// argument text.
//
// An Assembler is not safe for concurrent use.
type Assembler struct {
	choice       int
	role         string
	content      strings.Builder
	calls        map[int]*assemblingCall
	finishReason string
	usage        *chatjpt.Usage
}

// NewAssembler returns an Assembler for the choice with the given index.
func NewAssembler(choice int) *Assembler {
	return &Assembler{choice: choice, calls: make(map[int]*assemblingCall)}
}

// Add applies the delta of the assembled choice in chunk. Other choices
// are ignored. Usage is kept from whichever chunk carries it.
func (a *Assembler) Add(chunk chatjpt.ChatChunk) {
	if chunk.Usage != nil {
		a.usage = chunk.Usage
	}
	for _, c := range chunk.Choices {
		if c.Index != a.choice {
			continue
		}
		a.AddDelta(c.Delta)
		if c.FinishReason != "" {
			a.finishReason = c.FinishReason
		}
	}
}

// AddDelta applies one message delta.
func (a *Assembler) AddDelta(d chatjpt.ChatDelta) {
	if d.Role != "" {
		a.role = d.Role
	}
	a.content.WriteString(d.Content)

	for _, tc := range d.ToolCalls {
		idx := len(a.calls)
		if tc.Index != nil {
			idx = *tc.Index
		} else if idx > 0 && tc.ID == "" {
			// continuation of the last call
			idx--
		}

		call, ok := a.calls[idx]
		if !ok {
			call = &assemblingCall{}
			a.calls[idx] = call
		}
		if tc.ID != "" {
			call.id = tc.ID
		}
		if tc.Type != "" {
			call.typ = tc.Type
		}
		if tc.Function.Name != "" {
			call.name = tc.Function.Name
		}
		call.arguments.WriteString(tc.Function.Arguments)
	}
}

// FinishReason returns the finish reason seen so far.
func (a *Assembler) FinishReason() string {
	return a.finishReason
}

// Usage returns the usage block, if the stream sent one.
func (a *Assembler) Usage() *chatjpt.Usage {
	return a.usage
}

// Message returns the assembled assistant message with its tool calls in
// index order. Empty arguments become "{}". It returns
// ErrInvalidArguments if any call's arguments are not valid JSON.
func (a *Assembler) Message() (chatjpt.ChatMessage, error) {
	indexes := make([]int, 0, len(a.calls))
	for idx := range a.calls {
		indexes = append(indexes, idx)
	}
	slices.Sort(indexes)

	var calls []chatjpt.ToolCall
	for _, idx := range indexes {
		call := a.calls[idx]
		args := call.arguments.String()
		if args == "" {
			args = "{}"
		}
		if !json.Valid([]byte(args)) {
			return chatjpt.ChatMessage{}, fmt.Errorf("%w: call %s (%s)", ErrInvalidArguments, call.id, call.name)
		}
		typ := call.typ
		if typ == "" {
			typ = "function"
		}
		calls = append(calls, chatjpt.ToolCall{
			ID:       call.id,
			Type:     typ,
			Function: chatjpt.FunctionCall{Name: call.name, Arguments: args},
		})
	}

	msg := chatjpt.AssistantMessage(a.content.String(), calls...)
	if a.role != "" {
		msg.Role = a.role
	}
	return msg, nil
}

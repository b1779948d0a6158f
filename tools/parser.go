package tools

import (
	"encoding/json"
	"fmt"

	"github.com/petal-labs/chatjpt"
)

// ParseArgs decodes the arguments of call into a new T.
//
//	type weatherArgs struct {
//		Location string `json:"location"`
//	}
//
//	args, err := tools.ParseArgs[weatherArgs](call)
func ParseArgs[T any](call chatjpt.ToolCall) (*T, error) {
	args, err := decodeArgs[T](json.RawMessage(call.Function.Arguments))
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", call.Function.Name, err)
	}
	return args, nil
}

// decodeArgs treats empty arguments as an empty object; models send ""
// for functions without parameters.
func decodeArgs[T any](args json.RawMessage) (*T, error) {
	var out T
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return &out, nil
}

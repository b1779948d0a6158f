package tools_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/petal-labs/chatjpt/tools"
)

func TestParseArgs(t *testing.T) {
	args, err := tools.ParseArgs[weatherArgs](toolCall("call_1", "get_weather", `{"location":"Lima","unit":"celsius"}`))
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if args.Location != "Lima" || args.Unit != "celsius" {
		t.Errorf("ParseArgs() = %+v", args)
	}
}

func TestParseArgsEmpty(t *testing.T) {
	args, err := tools.ParseArgs[weatherArgs](toolCall("call_1", "get_weather", ""))
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if *args != (weatherArgs{}) {
		t.Errorf("ParseArgs() = %+v, want zero value", args)
	}
}

func TestParseArgsInvalid(t *testing.T) {
	_, err := tools.ParseArgs[weatherArgs](toolCall("call_1", "get_weather", `{"location": 12}`))
	if !errors.Is(err, tools.ErrInvalidArguments) {
		t.Fatalf("ParseArgs() error = %v, want ErrInvalidArguments", err)
	}
	if !strings.Contains(err.Error(), "get_weather") {
		t.Errorf("error %q should name the tool", err)
	}
}

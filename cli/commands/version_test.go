package commands

import (
	"encoding/json"
	"runtime"
	"strings"
	"testing"

	"github.com/petal-labs/chatjpt"
)

func TestVersionVariables(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if Commit == "" {
		t.Error("Commit should not be empty")
	}
	if BuildDate == "" {
		t.Error("BuildDate should not be empty")
	}
}

func TestVersionCommandJSON(t *testing.T) {
	app := newTestApp(t, "", testAppConfig{})
	if err := app.run("--json", "version"); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	var info versionInfo
	if err := json.Unmarshal(app.stdout.Bytes(), &info); err != nil {
		t.Fatalf("stdout is not JSON: %v", err)
	}
	if info.Version != Version {
		t.Errorf("version = %q, want %q", info.Version, Version)
	}
	if info.Library != chatjpt.Version {
		t.Errorf("library = %q, want %q", info.Library, chatjpt.Version)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("goVersion = %q", info.GoVersion)
	}
	if info.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("platform = %q", info.Platform)
	}
}

func TestVersionCommandText(t *testing.T) {
	app := newTestApp(t, "", testAppConfig{})
	if err := app.run("version"); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	out := app.stdout.String()
	if !strings.HasPrefix(out, "chatjpt "+Version+"\n") {
		t.Errorf("stdout = %q", out)
	}
	if !strings.Contains(out, "library:    "+chatjpt.Version) {
		t.Errorf("stdout = %q, want the library version", out)
	}
}

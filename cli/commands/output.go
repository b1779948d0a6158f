package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// printJSON writes v to stdout as indented JSON.
func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printf writes formatted text to stdout.
func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.stdout, format, args...)
}

// emit prints v as JSON when --json is set and calls text otherwise.
func (a *App) emit(v any, text func()) error {
	if a.jsonOutput {
		return a.printJSON(v)
	}
	text()
	return nil
}

// printJSONLine writes v to stdout as a single line of JSON.
func (a *App) printJSONLine(v any) error {
	return json.NewEncoder(a.stdout).Encode(v)
}

// formatUnix renders a Unix timestamp in UTC.
func formatUnix(sec int64) string {
	if sec == 0 {
		return "-"
	}
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 4, 64)
}

// printText writes s followed by a newline unless it already ends in one.
func (a *App) printText(s string) {
	if strings.HasSuffix(s, "\n") {
		a.printf("%s", s)
		return
	}
	a.printf("%s\n", s)
}

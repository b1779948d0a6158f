package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/petal-labs/chatjpt"
)

func (a *App) newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init <project-name>",
		Short: "Initialize a new chatjpt project",
		Long: `Initialize a new project that uses the chatjpt library.

Creates a project directory with:
  - main.go: a starter program that sends one chat completion
  - config.yaml: CLI configuration for the project
  - data/: directory for fine-tuning and upload files

Example:
  chatjpt init myapp
  chatjpt init myapp --model gpt-4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.runInit(args[0]); err != nil {
				return a.invalid(err)
			}
			return nil
		},
	}
}

func (a *App) runInit(projectPath string) error {
	projectName := filepath.Base(projectPath)
	if err := validateProjectName(projectName); err != nil {
		return err
	}

	if _, err := os.Stat(projectPath); err == nil {
		return fmt.Errorf("directory %q already exists", projectPath)
	}

	dataDir := filepath.Join(projectPath, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dataDir, err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, ".gitkeep"), nil, 0o644); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Join(dataDir, ".gitkeep"), err)
	}

	data := templateData{
		Model:  a.modelOr(chatjpt.DefaultChatModel),
		EnvVar: chatjpt.EnvAPIKey,
	}
	files := []struct {
		name string
		tmpl string
	}{
		{"main.go", mainGoTemplate},
		{"config.yaml", configYAMLTemplate},
	}
	for _, f := range files {
		if err := generateFile(filepath.Join(projectPath, f.name), f.tmpl, data); err != nil {
			return fmt.Errorf("failed to create %s: %w", f.name, err)
		}
	}

	a.printf("Created chatjpt project: %s\n\n", projectName)
	a.printf("Next steps:\n")
	a.printf("  cd %s\n", projectPath)
	a.printf("  export %s=<your-key>\n", chatjpt.EnvAPIKey)
	a.printf("  go run main.go\n")
	return nil
}

var validName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

func validateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if !validName.MatchString(name) {
		return fmt.Errorf("invalid project name %q: must start with a letter and contain only letters, numbers, underscores, and hyphens", name)
	}
	if name == "chatjpt" {
		return fmt.Errorf("invalid project name %q: reserved name", name)
	}
	return nil
}

type templateData struct {
	Model  string
	EnvVar string
}

func generateFile(path string, tmplContent string, data templateData) error {
	tmpl, err := template.New(filepath.Base(path)).Parse(tmplContent)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, data)
}

// Templates

var mainGoTemplate = `package main

import (
	"context"
	"fmt"
	"os"

	"github.com/petal-labs/chatjpt"
)

func main() {
	client, err := chatjpt.NewFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "{{.EnvVar}} not set")
		os.Exit(1)
	}

	req, err := chatjpt.NewChatRequest(chatjpt.ChatRequest{
		Model:    "{{.Model}}",
		Messages: []chatjpt.ChatMessage{chatjpt.UserMessage("Hello, world!")},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	resp, err := client.Chat().Create(context.Background(), req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	fmt.Println(resp.Content())
}
`

var configYAMLTemplate = `# chatjpt configuration
# Use with: chatjpt --config config.yaml <command>
default_model: {{.Model}}

# The API key is read from {{.EnvVar}}, or from the keystore entry below
# (set it with 'chatjpt keys set openai').
api_key_ref: openai
keystore: file

timeout: 60s
log_level: warn
log_format: text
`

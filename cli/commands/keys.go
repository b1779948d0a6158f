package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/petal-labs/chatjpt/cli/keystore"
)

func (a *App) newKeysCommand() *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys",
		Long:  `Manage stored API keys. Keys are kept in an encrypted file or in the OS keyring.`,
	}

	keysCmd.AddCommand(&cobra.Command{
		Use:   "set [name]",
		Short: "Store an API key",
		Long:  `Store an API key under name (default: api_key_ref from the config, or "openai"). The key is read without echo.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runKeysSet,
	})
	keysCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored API keys",
		Long:  `List stored API keys. Only names are shown, never key values.`,
		Args:  cobra.NoArgs,
		RunE:  a.runKeysList,
	})
	keysCmd.AddCommand(&cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a stored API key",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runKeysDelete,
	})

	return keysCmd
}

func (a *App) keyName(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return a.cfg.KeyName()
}

func (a *App) keystore() (keystore.Keystore, error) {
	ks, err := a.newKeystore(a.cfg.Keystore)
	if err != nil {
		return nil, a.invalid(fmt.Errorf("open keystore: %w", err))
	}
	return ks, nil
}

func (a *App) runKeysSet(cmd *cobra.Command, args []string) error {
	name := a.keyName(args)

	fmt.Fprintf(a.stderr, "Enter API key for %s: ", name)
	apiKey, err := a.readSecret()
	if err != nil {
		return a.invalid(fmt.Errorf("read key: %w", err))
	}
	if apiKey == "" {
		return a.invalid(errors.New("API key cannot be empty"))
	}

	ks, err := a.keystore()
	if err != nil {
		return err
	}
	if err := ks.Set(name, apiKey); err != nil {
		return a.invalid(fmt.Errorf("store key: %w", err))
	}

	a.printf("API key %s stored.\n", name)
	return nil
}

// readSecret reads one line from stdin, without echo when stdin is a
// terminal.
func (a *App) readSecret() (string, error) {
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.stderr)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *App) runKeysList(cmd *cobra.Command, args []string) error {
	ks, err := a.keystore()
	if err != nil {
		return err
	}

	names, err := ks.List()
	if err != nil {
		return a.invalid(fmt.Errorf("list keys: %w", err))
	}
	if names == nil {
		names = []string{}
	}

	return a.emit(map[string][]string{"keys": names}, func() {
		if len(names) == 0 {
			a.printf("No API keys stored.\n")
			return
		}
		a.printf("Stored keys:\n")
		for _, name := range names {
			a.printf("  - %s\n", name)
		}
	})
}

func (a *App) runKeysDelete(cmd *cobra.Command, args []string) error {
	name := a.keyName(args)

	ks, err := a.keystore()
	if err != nil {
		return err
	}

	if err := ks.Delete(name); err != nil {
		var notFound *keystore.ErrKeyNotFound
		if errors.As(err, &notFound) {
			return a.invalid(fmt.Errorf("no key stored for %s", name))
		}
		return a.invalid(fmt.Errorf("delete key: %w", err))
	}

	a.printf("API key %s deleted.\n", name)
	return nil
}

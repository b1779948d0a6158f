package commands

import (
	"errors"
	"fmt"

	"github.com/petal-labs/chatjpt"
	"github.com/petal-labs/chatjpt/cli/keystore"
)

// apiKey resolves the API key: OPENAI_API_KEY first, then the keystore
// entry named by api_key_ref.
func (a *App) apiKey() (string, error) {
	if key := a.getenv(chatjpt.EnvAPIKey); key != "" {
		return key, nil
	}

	name := a.cfg.KeyName()
	ks, err := a.newKeystore(a.cfg.Keystore)
	if err != nil {
		return "", fmt.Errorf("open keystore: %w", err)
	}
	key, err := ks.Get(name)
	if err != nil {
		var notFound *keystore.ErrKeyNotFound
		if errors.As(err, &notFound) {
			return "", fmt.Errorf("no API key: set %s or run 'chatjpt keys set %s'", chatjpt.EnvAPIKey, name)
		}
		return "", fmt.Errorf("read API key: %w", err)
	}
	return key, nil
}

// client builds an API client from the loaded config.
func (a *App) client() (*chatjpt.Client, error) {
	key, err := a.apiKey()
	if err != nil {
		return nil, a.invalid(err)
	}

	opts := []chatjpt.Option{chatjpt.WithLogger(a.logger)}
	if a.cfg.BaseURL != "" {
		opts = append(opts, chatjpt.WithBaseURL(a.cfg.BaseURL))
	} else if v := a.getenv(chatjpt.EnvBaseURL); v != "" {
		opts = append(opts, chatjpt.WithBaseURL(v))
	}
	if a.cfg.Organization != "" {
		opts = append(opts, chatjpt.WithOrganization(a.cfg.Organization))
	}
	if a.cfg.Project != "" {
		opts = append(opts, chatjpt.WithProject(a.cfg.Project))
	}
	if a.cfg.Timeout > 0 {
		opts = append(opts, chatjpt.WithTimeout(a.cfg.Timeout))
	}

	c, err := a.newClient(key, opts...)
	if err != nil {
		return nil, a.invalid(err)
	}
	return c, nil
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"WebhookMessenger/internal/cli/auth"
	"WebhookMessenger/internal/config"
)

type apiTokenCmd struct{}

func (apiTokenCmd) Name() string { return "api-token" }
func (apiTokenCmd) Description() string {
	return "Показать токен запущенного локального API (для сторонних UI)"
}
func (apiTokenCmd) Usage() string { return "api-token" }

func (apiTokenCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	path := auth.TokenPath(cfg.DataDir)
	tok, err := auth.LoadToken(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("no API token at %s: is the server running?", path)
	}
	if err != nil {
		return fmt.Errorf("read API token: %w", err)
	}
	fmt.Fprintln(Out, tok)
	return nil
}

func init() { RegisterCmd(apiTokenCmd{}) }

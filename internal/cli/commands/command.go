package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"WebhookMessenger/internal/cli/bootstrap"
	"WebhookMessenger/internal/cli/service"
	"WebhookMessenger/internal/config"
)

// ErrUsage is returned by a command when arguments are invalid and usage should be shown.
var ErrUsage = errors.New("usage")

// Command represents a CLI subcommand.
type Command interface {
	// Name returns the command name as typed by the user, e.g. "send".
	Name() string
	// Description is a short human-readable description shown in help.
	Description() string
	// Usage returns the exact usage string, e.g. "webhook-delete <id|name>".
	Usage() string
	// Run executes the command with provided args (without the command name).
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

// registry holds available commands by name.
var registry = map[string]Command{}

// Out — общий writer для вывода CLI. По умолчанию os.Stdout, но в тестах может переназначаться.
var Out io.Writer = os.Stdout

// RegisterCmd adds a command to the registry. Should be called from init() of each command.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

// Get returns a command by name.
func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// FormatGlobalUsage builds a help text for all commands.
func FormatGlobalUsage() string {
	lines := []string{
		"Webhook Messenger CLI",
		"",
		"Usage:",
		"  whm [--data-dir <dir>] [--store json|sqlite] <command> [args]",
		"",
		"Commands:",
	}
	for _, c := range List() {
		lines = append(lines, fmt.Sprintf("  %-44s %s", c.Usage(), c.Description()))
	}
	return strings.Join(lines, "\n") + "\n"
}

// withApp открывает приложение, выполняет fn и закрывает хранилище.
func withApp(ctx context.Context, cfg *config.Config, fn func(app *service.AppService, status service.Status) error) error {
	logger, err := bootstrap.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	app, status, done, err := bootstrap.OpenApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = done() }()
	return fn(app, status)
}

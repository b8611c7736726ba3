package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"WebhookMessenger/internal/cli/api"
	"WebhookMessenger/internal/config"
)

// fakeCmd позволяет управлять возвратом ошибок из Run
type fakeCmd struct {
	name, usage, desc string
	run               func(ctx context.Context, cfg *config.Config, args []string) error
}

func (f fakeCmd) Name() string        { return f.name }
func (f fakeCmd) Description() string { return f.desc }
func (f fakeCmd) Usage() string       { return f.usage }
func (f fakeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	return f.run(ctx, cfg, args)
}

func TestDispatcher_HelpAndUnknown(t *testing.T) {
	out := withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{}) })
	if !strings.Contains(out, "Webhook Messenger CLI") {
		t.Fatalf("global help expected")
	}
	for _, name := range []string{"webhooks", "webhook-add", "template-save", "send", "export", "import"} {
		if !strings.Contains(out, name) {
			t.Fatalf("help must list %s, got: %s", name, out)
		}
	}

	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"help"}) })
	if !strings.Contains(out, "Usage:") {
		t.Fatalf("usage expected")
	}

	code, out := run(t, &config.Config{}, "help", "SEND")
	if code != ExitOK || !strings.Contains(out, "Usage: send") {
		t.Fatalf("expected 0 and send usage, got %d %q", code, out)
	}
	if !strings.Contains(out, sendCmd{}.Description()) {
		t.Fatalf("help for a command must include its description, got %q", out)
	}

	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"help", "nope"}) })
	if !strings.Contains(out, "Unknown command") {
		t.Fatalf("unknown command message expected")
	}

	code, _ = run(t, &config.Config{}, "no-such")
	if code != 2 {
		t.Fatalf("expected 2 for unknown command, got %d", code)
	}
}

func TestDispatcher_RunPaths(t *testing.T) {
	// зарегистрируем временную команду
	cmdOK := fakeCmd{name: "x", usage: "x", desc: "", run: func(_ context.Context, _ *config.Config, _ []string) error { return nil }}
	RegisterCmd(cmdOK)
	if code := Dispatch(context.Background(), &config.Config{}, []string{"x"}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	cmdUsage := fakeCmd{name: "u", usage: "u <arg>", desc: "", run: func(_ context.Context, _ *config.Config, _ []string) error {
		return fmt.Errorf("wrapped: %w", ErrUsage)
	}}
	RegisterCmd(cmdUsage)
	code, out := run(t, &config.Config{}, "u")
	if code != 2 || !strings.Contains(out, "Usage: u <arg>") {
		t.Fatalf("usage text expected, got %d %q", code, out)
	}

	cmdErr := fakeCmd{name: "e", usage: "e", desc: "", run: func(_ context.Context, _ *config.Config, _ []string) error { return fmt.Errorf("boom") }}
	RegisterCmd(cmdErr)
	code, out = run(t, &config.Config{}, "E")
	if code != 1 || !strings.Contains(out, "e error: boom") {
		t.Fatalf("error line expected, got: %d %s", code, out)
	}

	cmdNet := fakeCmd{name: "n", usage: "n", run: func(_ context.Context, _ *config.Config, _ []string) error {
		return &api.DeliveryError{Err: errors.New("dial tcp: connection refused")}
	}}
	RegisterCmd(cmdNet)
	code, out = run(t, &config.Config{}, "n")
	if code != ExitFailure || !strings.Contains(out, "n error: webhook is unreachable: dial tcp") {
		t.Fatalf("transport failure line expected, got: %d %s", code, out)
	}

	for _, name := range []string{"x", "u", "e", "n"} {
		delete(registry, name)
	}
}

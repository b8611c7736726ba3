// Command whm — CLI для отправки сообщений в вебхуки Discord и управления
// сохранёнными вебхуками и шаблонами.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"WebhookMessenger/internal/cli/commands"
	"WebhookMessenger/internal/config"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	cfg := config.NewConfig()
	if cfg.Version {
		writeVersion(os.Stdout)
		return
	}

	// Ctrl+C прерывает отправку, а не оставляет процесс висеть на таймауте HTTP
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Dispatch(ctx, cfg, flag.Args())
	stop()
	os.Exit(code)
}

func writeVersion(w io.Writer) {
	fmt.Fprintf(w, "whm (Webhook Messenger CLI) %s, built %s\n", version, buildDate)
}

package commands

import (
	"context"
	"fmt"
	"os"

	"WebhookMessenger/internal/cli/service"
	"WebhookMessenger/internal/config"
)

type exportCmd struct{}

func (exportCmd) Name() string { return "export" }
func (exportCmd) Description() string {
	return "Экспортировать вебхуки и шаблоны в переносимый JSON (URL в открытом виде!)"
}
func (exportCmd) Usage() string { return "export <file>" }

func (exportCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return ErrUsage
	}
	return withApp(ctx, cfg, func(app *service.AppService, _ service.Status) error {
		b, status, err := app.Export(ctx)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[0], b, 0o600); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(Out, "Exported to %s\n", args[0])
		fmt.Fprintln(Out, status)
		return nil
	})
}

type importCmd struct{}

func (importCmd) Name() string { return "import" }
func (importCmd) Description() string {
	return "Импортировать JSON: совпадения по имени перезаписываются, новые добавляются"
}
func (importCmd) Usage() string { return "import <file>" }

func (importCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return ErrUsage
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read import: %w", err)
	}
	return withApp(ctx, cfg, func(app *service.AppService, _ service.Status) error {
		res, status, err := app.Import(ctx, string(raw))
		if err != nil {
			return err
		}
		fmt.Fprintln(Out, status)
		fmt.Fprintf(Out, "  webhooks:  %d added, %d updated\n", res.WebhooksAdded, res.WebhooksUpdated)
		fmt.Fprintf(Out, "  templates: %d added, %d updated\n", res.TemplatesAdded, res.TemplatesUpdated)
		return nil
	})
}

func init() {
	RegisterCmd(exportCmd{})
	RegisterCmd(importCmd{})
}

package commands

import (
	"context"
	"fmt"
	"strings"

	"WebhookMessenger/internal/cli/service"
	"WebhookMessenger/internal/config"
)

type webhooksCmd struct{}

func (webhooksCmd) Name() string        { return "webhooks" }
func (webhooksCmd) Description() string { return "Показать сохранённые вебхуки (без URL)" }
func (webhooksCmd) Usage() string       { return "webhooks" }

func (webhooksCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withApp(ctx, cfg, func(app *service.AppService, status service.Status) error {
		list := app.Webhooks()
		if len(list) == 0 {
			fmt.Fprintln(Out, status)
			return nil
		}
		for _, w := range list {
			url := "no url"
			if w.HasURL {
				url = "url set"
			}
			fmt.Fprintf(Out, "- %s  name=%s  (%s)\n", w.ID, w.Name, url)
		}
		fmt.Fprintf(Out, "Total: %d\n", len(list))
		return nil
	})
}

type webhookAddCmd struct{}

func (webhookAddCmd) Name() string { return "webhook-add" }
func (webhookAddCmd) Description() string {
	return "Добавить вебхук (опционально сразу задать имя и URL)"
}
func (webhookAddCmd) Usage() string { return "webhook-add [<name> [<url>]]" }

func (webhookAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 2 {
		return ErrUsage
	}
	return withApp(ctx, cfg, func(app *service.AppService, _ service.Status) error {
		var name, url string
		if len(args) > 0 {
			name = args[0]
		}
		if len(args) == 2 {
			url = args[1]
		}
		rec, err := app.CreateWebhook(ctx, name, url)
		if err != nil {
			return err
		}
		fmt.Fprintln(Out, "Created:")
		fmt.Fprintf(Out, "  id:   %s\n", rec.ID)
		fmt.Fprintf(Out, "  name: %s\n", rec.Name)
		if len(args) == 2 && strings.TrimSpace(args[1]) != "" {
			fmt.Fprintln(Out, "  url:  <set>")
		}
		return nil
	})
}

type webhookSaveCmd struct{}

func (webhookSaveCmd) Name() string { return "webhook-save" }
func (webhookSaveCmd) Description() string {
	return "Переименовать вебхук; URL заменяется, только если указан"
}
func (webhookSaveCmd) Usage() string { return "webhook-save <id|name> <name> [<url>]" }

func (webhookSaveCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 || len(args) > 3 || strings.TrimSpace(args[0]) == "" {
		return ErrUsage
	}
	url := ""
	if len(args) == 3 {
		url = args[2]
	}
	return withApp(ctx, cfg, func(app *service.AppService, _ service.Status) error {
		status, err := app.SaveWebhook(ctx, args[0], args[1], url)
		if err != nil {
			return err
		}
		fmt.Fprintln(Out, status)
		return nil
	})
}

type webhookDeleteCmd struct{}

func (webhookDeleteCmd) Name() string        { return "webhook-delete" }
func (webhookDeleteCmd) Description() string { return "Удалить вебхук" }
func (webhookDeleteCmd) Usage() string       { return "webhook-delete <id|name>" }

func (webhookDeleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withApp(ctx, cfg, func(app *service.AppService, _ service.Status) error {
		status, err := app.DeleteWebhook(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(Out, status)
		return nil
	})
}

func init() {
	RegisterCmd(webhooksCmd{})
	RegisterCmd(webhookAddCmd{})
	RegisterCmd(webhookSaveCmd{})
	RegisterCmd(webhookDeleteCmd{})
}

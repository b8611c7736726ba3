package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"WebhookMessenger/internal/cli/service"
	"WebhookMessenger/internal/config"
)

type templatesCmd struct{}

func (templatesCmd) Name() string        { return "templates" }
func (templatesCmd) Description() string { return "Показать шаблоны сообщений" }
func (templatesCmd) Usage() string       { return "templates" }

func (templatesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withApp(ctx, cfg, func(app *service.AppService, _ service.Status) error {
		list := app.Templates()
		if len(list) == 0 {
			fmt.Fprintln(Out, "No templates saved yet. Use template-add to add one.")
			return nil
		}
		for _, t := range list {
			fmt.Fprintf(Out, "- %s  name=%s  content=%q  embeds=%s\n", t.ID, t.Name, preview(t.Content), t.EmbedsJSON)
		}
		fmt.Fprintf(Out, "Total: %d\n", len(list))
		return nil
	})
}

// preview обрезает длинный текст для однострочного вывода.
func preview(s string) string {
	const limit = 40
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "…"
}

type templateAddCmd struct{}

func (templateAddCmd) Name() string        { return "template-add" }
func (templateAddCmd) Description() string { return "Добавить пустой шаблон" }
func (templateAddCmd) Usage() string       { return "template-add [<name>]" }

func (templateAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return ErrUsage
	}
	return withApp(ctx, cfg, func(app *service.AppService, _ service.Status) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		rec, err := app.CreateTemplate(ctx, name, "", "")
		if err != nil {
			return err
		}
		fmt.Fprintln(Out, "Created:")
		fmt.Fprintf(Out, "  id:   %s\n", rec.ID)
		fmt.Fprintf(Out, "  name: %s\n", rec.Name)
		return nil
	})
}

type templateSaveCmd struct{}

func (templateSaveCmd) Name() string { return "template-save" }
func (templateSaveCmd) Description() string {
	return "Перезаписать имя, текст и embeds шаблона"
}
func (templateSaveCmd) Usage() string {
	return "template-save [--embeds=<json>] <id|name> <name> <content>"
}

func (templateSaveCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("template-save", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	embeds := fs.String("embeds", "", "embeds JSON: массив или объект")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	rest := fs.Args()
	if len(rest) != 3 {
		return ErrUsage
	}
	return withApp(ctx, cfg, func(app *service.AppService, _ service.Status) error {
		status, err := app.SaveTemplate(ctx, rest[0], rest[1], rest[2], *embeds)
		if err != nil {
			return err
		}
		fmt.Fprintln(Out, status)
		return nil
	})
}

type templateDeleteCmd struct{}

func (templateDeleteCmd) Name() string        { return "template-delete" }
func (templateDeleteCmd) Description() string { return "Удалить шаблон" }
func (templateDeleteCmd) Usage() string       { return "template-delete <id|name>" }

func (templateDeleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withApp(ctx, cfg, func(app *service.AppService, _ service.Status) error {
		status, err := app.DeleteTemplate(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(Out, status)
		return nil
	})
}

func init() {
	RegisterCmd(templatesCmd{})
	RegisterCmd(templateAddCmd{})
	RegisterCmd(templateSaveCmd{})
	RegisterCmd(templateDeleteCmd{})
}

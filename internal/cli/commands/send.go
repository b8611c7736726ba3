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

type sendCmd struct{}

func (sendCmd) Name() string { return "send" }
func (sendCmd) Description() string {
	return "Отправить сообщение через вебхук (текст и/или embeds, можно из шаблона)"
}
func (sendCmd) Usage() string {
	return "send [--template=<id|name>] [--embeds=<json>] [--username=<name>] [--avatar=<url>] [--allow-mentions] <webhook> [<content>]"
}

func (sendCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	// флаги только перед позиционными аргументами
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	tpl := fs.String("template", "", "шаблон, из которого берутся текст и embeds")
	embeds := fs.String("embeds", "", "embeds JSON: массив или объект")
	username := fs.String("username", "", "переопределить имя отправителя")
	avatar := fs.String("avatar", "", "URL аватара")
	allowMentions := fs.Bool("allow-mentions", false, "разрешить @-упоминания")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	rest := fs.Args()
	if len(rest) < 1 || len(rest) > 2 {
		return ErrUsage
	}

	return withApp(ctx, cfg, func(app *service.AppService, _ service.Status) error {
		req := service.SendRequest{
			WebhookID:       rest[0],
			Username:        *username,
			AvatarURL:       *avatar,
			EmbedsJSON:      *embeds,
			DisableMentions: !*allowMentions,
		}
		if strings.TrimSpace(*tpl) != "" {
			content, tplEmbeds, status, err := app.ApplyTemplate(*tpl)
			if err != nil {
				return err
			}
			fmt.Fprintln(Out, status)
			req.Content = content
			if strings.TrimSpace(req.EmbedsJSON) == "" {
				req.EmbedsJSON = tplEmbeds
			}
		}
		if len(rest) == 2 {
			req.Content = rest[1]
		}

		status, err := app.Send(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintln(Out, status)
		return nil
	})
}

func init() { RegisterCmd(sendCmd{}) }

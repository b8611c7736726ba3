package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"WebhookMessenger/internal/cli/api"
	"WebhookMessenger/internal/config"
)

// Коды выхода CLI.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Dispatch разбирает имя команды, выполняет её и возвращает код выхода.
// Ошибки аргументов печатают usage команды, остальные ошибки — одной строкой.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	if wantsGlobalHelp(os.Args[1:]) {
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitOK
	}
	if !flag.Parsed() {
		flag.Parse()
	}
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitUsage
	}

	name := strings.ToLower(args[0])
	if name == "help" {
		return showHelp(args[1:])
	}

	c, ok := Get(name)
	if !ok {
		return unknownCommand(name)
	}
	return report(c, c.Run(ctx, cfg, args[1:]))
}

func wantsGlobalHelp(osArgs []string) bool {
	for _, a := range osArgs {
		if a == "--help" || a == "-h" {
			return true
		}
	}
	return false
}

// showHelp обслуживает `whm help [command]`.
func showHelp(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitOK
	}
	c, ok := Get(strings.ToLower(args[0]))
	if !ok {
		return unknownCommand(args[0])
	}
	fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
	if d := c.Description(); d != "" {
		fmt.Fprintf(Out, "\n  %s\n", d)
	}
	return ExitOK
}

func unknownCommand(name string) int {
	fmt.Fprintf(Out, "Unknown command: %s\n\n", name)
	fmt.Fprint(Out, FormatGlobalUsage())
	return ExitUsage
}

// report переводит результат команды в код выхода.
func report(c Command, err error) int {
	var delivery *api.DeliveryError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
		return ExitUsage
	case errors.As(err, &delivery) && delivery.StatusCode == 0:
		fmt.Fprintf(Out, "%s error: webhook is unreachable: %v\n", c.Name(), delivery.Err)
		return ExitFailure
	default:
		fmt.Fprintf(Out, "%s error: %v\n", c.Name(), err)
		return ExitFailure
	}
}

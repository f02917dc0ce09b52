package router

import (
	"context"
	"strings"
)

// ChatCommand is a parsed slash command.
type ChatCommand struct {
	Name      string // command name without "/", lowercased
	Remainder string // everything after the command token, trimmed
	Raw       string
}

// ParseCommand checks whether a message starts with "/" and parses it.
// Returns nil if the message is not a command. A Telegram-style "@botname"
// suffix on the command token is dropped.
func ParseCommand(text string) *ChatCommand {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return nil
	}

	token, remainder, _ := strings.Cut(text, " ")
	name := strings.TrimPrefix(token, "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	name = strings.ToLower(name)
	if name == "" {
		return nil
	}

	return &ChatCommand{
		Name:      name,
		Remainder: strings.TrimSpace(remainder),
		Raw:       text,
	}
}

// handleCommand dispatches a command straight to its responder, bypassing
// mention detection, the trivial table and relevance scoring. Unknown
// commands are ignored so other bots' commands in the same group stay
// unanswered.
func (r *Router) handleCommand(ctx context.Context, cmd *ChatCommand) Decision {
	rsp, ok := r.byCommand[cmd.Name]
	if !ok {
		r.logger.Debug("unknown command ignored", "command", cmd.Name)
		return Decision{Kind: KindIgnored}
	}

	if cmd.Remainder == "" {
		return Decision{Kind: KindCommand, Responder: rsp.Name(), Reply: emptyCommandReply}
	}

	r.logger.Info("command dispatched", "command", cmd.Name, "responder", rsp.Name())
	return Decision{
		Kind:      KindCommand,
		Responder: rsp.Name(),
		Reply:     rsp.Generate(ctx, cmd.Remainder),
	}
}

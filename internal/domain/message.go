package domain

import "time"

type InboundMessage struct {
	Channel     string
	ChatID      string
	MessageID   int
	SenderID    string
	Content     string
	ReplyToText string // text of the quoted message when this is a reply
	ReplyToSelf bool   // the quoted message was authored by the bot
	FromSelf    bool
	Timestamp   time.Time
}

// IsReply reports whether the message quotes an earlier message.
func (m InboundMessage) IsReply() bool { return m.ReplyToText != "" || m.ReplyToSelf }

// MarkupMode selects how a channel should render outbound chunks.
type MarkupMode string

const (
	MarkupHTML  MarkupMode = "html"
	MarkupPlain MarkupMode = "plain"
)

type OutboundMessage struct {
	Channel          string
	ChatID           string
	Chunks           []string // ordered, each within the transport length budget
	ReplyToMessageID int      // 0 = do not quote
	Markup           MarkupMode
}

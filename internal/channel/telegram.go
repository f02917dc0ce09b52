// Package channel implements the transports that carry messages in and out
// of the router: Telegram group chats and an interactive CLI.
package channel

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"tokbot/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	telegramPollTimeout    = 30
	telegramMaxSendRetries = 3
)

const groupOnlyReply = "Maaf, saya hanya berkhidmat dalam kumpulan yang dibenarkan."

// Telegram implements the Telegram transport. The bot answers only inside
// the configured chat allow-list; everything else is silently ignored except
// commands, which get a short group-only notice.
type Telegram struct {
	token      string
	allowChats []int64 // empty = allow all chats

	bot    *tgbotapi.BotAPI
	bus    domain.MessageBus
	logger *slog.Logger
}

type TelegramConfig struct {
	Token      string
	AllowChats []string // chat IDs as strings
	Logger     *slog.Logger
}

func NewTelegram(cfg TelegramConfig) *Telegram {
	var allowed []int64
	for _, s := range cfg.AllowChats {
		if id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			allowed = append(allowed, id)
		}
	}
	return &Telegram{
		token:      cfg.Token,
		allowChats: allowed,
		logger:     cfg.Logger,
	}
}

func (t *Telegram) Name() string { return "telegram" }

// Connect authenticates with Telegram and resolves the bot's own username.
// This runs before the router loop starts so the bot identity is fixed once,
// never resolved lazily mid-conversation.
func (t *Telegram) Connect() (string, error) {
	bot, err := tgbotapi.NewBotAPI(t.token)
	if err != nil {
		return "", fmt.Errorf("telegram bot init: %w", err)
	}
	t.bot = bot
	t.logger.Info("telegram bot connected",
		"username", bot.Self.UserName,
		"id", bot.Self.ID,
	)
	return bot.Self.UserName, nil
}

// Start begins polling for updates. Connect must have been called first.
func (t *Telegram) Start(ctx context.Context, bus domain.MessageBus) error {
	if t.bot == nil {
		return fmt.Errorf("telegram: Start called before Connect")
	}
	t.bus = bus

	bus.OnOutbound("telegram", t.deliver)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = telegramPollTimeout
	updates := t.bot.GetUpdatesChan(u)

	t.logger.Info("telegram polling started")

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("telegram channel stopping")
			t.bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.handleUpdate(update)
		}
	}
}

func (t *Telegram) handleUpdate(update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	chatID := msg.Chat.ID
	if !t.isAllowedChat(chatID) {
		// Commands get a short notice so users know why the bot is mute;
		// ordinary chatter outside the allow-list stays unanswered.
		if msg.IsCommand() {
			t.sendChunk(chatID, 0, groupOnlyReply, domain.MarkupPlain)
		} else {
			t.logger.Debug("message outside chat allow-list ignored", "chat_id", chatID)
		}
		return
	}

	if msg.IsCommand() && t.handleChannelCommand(chatID, msg) {
		return
	}

	inbound := domain.InboundMessage{
		Channel:   "telegram",
		ChatID:    strconv.FormatInt(chatID, 10),
		MessageID: msg.MessageID,
		SenderID:  strconv.FormatInt(msg.From.ID, 10),
		Content:   text,
		FromSelf:  msg.From.ID == t.bot.Self.ID,
		Timestamp: time.Unix(int64(msg.Date), 0),
	}
	if quoted := msg.ReplyToMessage; quoted != nil {
		inbound.ReplyToText = quoted.Text
		if quoted.From != nil {
			inbound.ReplyToSelf = quoted.From.ID == t.bot.Self.ID
		}
	}

	typing := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	_, _ = t.bot.Request(typing)

	t.bus.Publish(inbound)
}

// handleChannelCommand answers the transport-level commands locally and
// reports whether the update was consumed. Responder commands (/fatwa,
// /tanya, ...) fall through to the router.
func (t *Telegram) handleChannelCommand(chatID int64, msg *tgbotapi.Message) bool {
	switch msg.Command() {
	case "start":
		t.sendChunk(chatID, 0,
			"Assalamualaikum! Saya Tok Ayah, pembantu soal jawab agama.\n\n"+
				"Sebut nama saya diikuti soalan anda, atau guna arahan:\n"+
				"/fatwa — soalan hukum\n/ibadah — solat, puasa, ibadah harian\n"+
				"/muamalat — kewangan Islam\n/keluarga — kekeluargaan\n"+
				"/sirah — sejarah Nabi\n/tanya — jawapan menyeluruh dari semua sudut",
			domain.MarkupPlain)
		return true
	case "help":
		t.sendChunk(chatID, 0,
			"Cara guna:\n"+
				"• Sebut \"tok ayah\" diikuti soalan dalam kumpulan\n"+
				"• Balas mesej saya untuk soalan susulan\n"+
				"• /fatwa /ibadah /muamalat /keluarga /sirah <soalan> untuk pakar tertentu\n"+
				"• /tanya <soalan> untuk pandangan menyeluruh",
			domain.MarkupPlain)
		return true
	case "status":
		t.sendChunk(chatID, 0,
			fmt.Sprintf("Saya hidup dan sedia membantu.\nBot: @%s\nChat ID: %d", t.bot.Self.UserName, chatID),
			domain.MarkupPlain)
		return true
	}
	return false
}

// deliver sends an outbound reply's chunks in order, quoting the original
// message on the first chunk only.
func (t *Telegram) deliver(msg domain.OutboundMessage) {
	chatID, err := strconv.ParseInt(msg.ChatID, 10, 64)
	if err != nil {
		t.logger.Error("invalid chat ID for telegram outbound", "chatID", msg.ChatID, "err", err)
		return
	}
	for i, chunk := range msg.Chunks {
		replyTo := 0
		if i == 0 {
			replyTo = msg.ReplyToMessageID
		}
		t.sendChunk(chatID, replyTo, chunk, msg.Markup)
	}
}

func (t *Telegram) isAllowedChat(chatID int64) bool {
	if len(t.allowChats) == 0 {
		return true
	}
	for _, id := range t.allowChats {
		if id == chatID {
			return true
		}
	}
	return false
}

// sendChunk sends one message with retry and rate-limit handling. HTML parse
// errors retry once as plain text; 429s back off before retrying.
func (t *Telegram) sendChunk(chatID int64, replyTo int, text string, markup domain.MarkupMode) {
	for attempt := 0; attempt <= telegramMaxSendRetries; attempt++ {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyToMessageID = replyTo
		if attempt == 0 && markup == domain.MarkupHTML {
			msg.ParseMode = tgbotapi.ModeHTML
		}

		_, err := t.bot.Send(msg)
		if err == nil {
			return
		}

		errStr := err.Error()

		if strings.Contains(errStr, "Too Many Requests") || strings.Contains(errStr, "429") {
			retryAfter := time.Duration(attempt+1) * 3 * time.Second
			t.logger.Warn("telegram rate limited, backing off",
				"retry_after", retryAfter, "attempt", attempt+1,
			)
			time.Sleep(retryAfter)
			continue
		}

		// HTML that Telegram refuses to parse is resent as plain text.
		if attempt == 0 && msg.ParseMode != "" && strings.Contains(errStr, "can't parse entities") {
			t.logger.Warn("telegram markup parse error, retrying as plain text", "err", err)
			plainMsg := tgbotapi.NewMessage(chatID, text)
			plainMsg.ReplyToMessageID = replyTo
			if _, err2 := t.bot.Send(plainMsg); err2 == nil {
				return
			}
		}

		if attempt < telegramMaxSendRetries {
			backoff := time.Duration(attempt+1) * time.Second
			t.logger.Warn("telegram send error, retrying", "err", err, "backoff", backoff)
			time.Sleep(backoff)
			continue
		}

		t.logger.Error("telegram send failed after retries", "err", err, "attempts", telegramMaxSendRetries+1)
	}
}

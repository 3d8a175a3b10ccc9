package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tokano3/warikanbot/internal/meal"
)

// Bot is the Telegram transport. It long-polls for updates and forwards each
// command or text message to the meal service, then renders the resulting
// replies back to the chat that sent the update. Session state is held by the
// service, not per chat.
type Bot struct {
	api *tgbotapi.BotAPI
	svc *meal.Service
}

func New(token string, svc *meal.Service) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram session: %w", err)
	}

	return &Bot{api: api, svc: svc}, nil
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	go b.run(updates)

	log.Printf("Telegram bot is running as @%s", b.api.Self.UserName)
	return nil
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

func (b *Bot) run(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.Message == nil || update.Message.Text == "" {
			continue
		}
		b.handleMessage(update.Message)
	}
}

func (b *Bot) handleMessage(m *tgbotapi.Message) {
	var replies []meal.Reply
	if m.IsCommand() {
		switch m.Command() {
		case "start":
			replies = b.svc.Start()
		case "start_meal":
			replies = b.svc.StartMeal()
		case "remove":
			replies = b.svc.Remove()
		case "list":
			replies = b.svc.List()
		case "done":
			replies = b.svc.DoneCollecting()
		case "cancel":
			replies = b.svc.Cancel()
		}
	} else {
		replies = b.svc.Text(context.Background(), m.Text)
	}

	for _, r := range replies {
		b.send(m.Chat.ID, r)
	}
}

func (b *Bot) send(chatID int64, r meal.Reply) {
	msg := tgbotapi.NewMessage(chatID, r.Text)
	switch {
	case len(r.Keyboard) > 0:
		msg.ReplyMarkup = buildKeyboard(r.Keyboard)
	case r.RemoveKeyboard:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	}

	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}

func buildKeyboard(rows [][]string) tgbotapi.ReplyKeyboardMarkup {
	buttons := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		var line []tgbotapi.KeyboardButton
		for _, name := range row {
			line = append(line, tgbotapi.NewKeyboardButton(name))
		}
		buttons = append(buttons, line)
	}

	markup := tgbotapi.NewReplyKeyboard(buttons...)
	markup.OneTimeKeyboard = true
	return markup
}

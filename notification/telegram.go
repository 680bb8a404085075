// Package notification implements the core.Notifier collaborator
// with a Telegram broadcast.
package notification

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/raykavin/tradepulse/core"
	tb "gopkg.in/tucnak/telebot.v2"
)

// Settings configures the Telegram notifier.
type Settings struct {
	Token string
	Users []int
}

// Telegram broadcasts alerts to a fixed set of authorized chat IDs.
// It never accepts inbound commands (there is no order controller
// here to drive); it is a one-way alert channel.
type Telegram struct {
	settings Settings
	client   *tb.Bot
	logger   core.Logger
}

// NewTelegram creates and initializes a Telegram notifier. The poller
// still authorizes inbound updates against settings.Users even though
// no commands are handled; this keeps the bot from acting on updates
// from unknown chats.
func NewTelegram(settings Settings, logger core.Logger) (*Telegram, error) {
	poller := &tb.LongPoller{Timeout: 10 * time.Second}
	authPoller := tb.NewMiddlewarePoller(poller, func(u *tb.Update) bool {
		if u.Message == nil || u.Message.Sender == nil {
			return false
		}
		return slices.Contains(settings.Users, int(u.Message.Sender.ID))
	})

	client, err := tb.NewBot(tb.Settings{
		ParseMode: tb.ModeMarkdown,
		Token:     settings.Token,
		Poller:    authPoller,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Telegram{settings: settings, client: client, logger: logger}, nil
}

// Notify broadcasts message to every authorized user.
func (t *Telegram) Notify(_ context.Context, message string) {
	for _, user := range t.settings.Users {
		if _, err := t.client.Send(&tb.User{ID: int64(user)}, message); err != nil {
			t.logger.WithFields(map[string]any{"user": user}).Error("failed to send telegram notification: ", err)
		}
	}
}

// NotifyError broadcasts a formatted error alert, surfacing any
// core.ExecutionError detail.
func (t *Telegram) NotifyError(ctx context.Context, err error) {
	t.Notify(ctx, formatErrorAlert(err))
}

// formatErrorAlert renders err into the "🛑 ERROR" alert shape, split
// out as a pure function so the format can be tested without a live
// bot client.
func formatErrorAlert(err error) string {
	var sb strings.Builder
	sb.WriteString("\U0001F6D1 ERROR\n-----\n")

	var execErr *core.ExecutionError
	if errors.As(err, &execErr) {
		fmt.Fprintf(&sb, "Pair: %s\n-----\n", execErr.Pair)
	}
	sb.WriteString(err.Error())
	return sb.String()
}

var _ core.Notifier = (*Telegram)(nil)

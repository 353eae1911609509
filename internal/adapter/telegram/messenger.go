package telegram

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/couchcryptid/weather-alert-bot/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ErrIllustrationNotFound is returned by SendIllustration when the sticker
// file does not exist.
var ErrIllustrationNotFound = domain.ErrIllustrationNotFound

// Messenger delivers stickers and text to a single Telegram chat.
// It implements pipeline.Messenger.
type Messenger struct {
	bot    *tgbotapi.BotAPI
	client *requestClient
	chat   chatRef
	dir    string
	logger *slog.Logger
}

// requestClient binds every Bot API request to the context of the send that
// issued it, so cancelling the run aborts an upload in flight.
type requestClient struct {
	base *http.Client

	mu  sync.Mutex
	ctx context.Context
}

func (c *requestClient) Do(req *http.Request) (*http.Response, error) {
	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()
	if ctx != nil {
		req = req.WithContext(ctx)
	}
	return c.base.Do(req)
}

func (c *requestClient) bind(ctx context.Context) func() {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		c.ctx = nil
		c.mu.Unlock()
	}
}

// chatRef is either a numeric chat id or an "@channel" username.
type chatRef struct {
	id       int64
	username string
}

func (c chatRef) String() string {
	if c.username != "" {
		return c.username
	}
	return strconv.FormatInt(c.id, 10)
}

func parseChatRef(s string) (chatRef, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return chatRef{id: id}, nil
	}
	if strings.HasPrefix(s, "@") && len(s) > 1 {
		return chatRef{username: s}, nil
	}
	return chatRef{}, fmt.Errorf("invalid chat id %q: want a number or @channel", s)
}

// NewMessenger returns a Messenger bound to chatID. Stickers are read from
// illustrationsDir. No request is made until the first send; a bad token
// surfaces as a send error.
func NewMessenger(token, apiEndpoint, chatID, illustrationsDir string, timeout time.Duration, logger *slog.Logger) (*Messenger, error) {
	chat, err := parseChatRef(chatID)
	if err != nil {
		return nil, err
	}
	if apiEndpoint == "" {
		apiEndpoint = tgbotapi.APIEndpoint
	}

	client := &requestClient{base: &http.Client{Timeout: timeout}}
	bot := &tgbotapi.BotAPI{
		Token:  token,
		Client: client,
		Buffer: 100,
	}
	bot.SetAPIEndpoint(apiEndpoint)

	return &Messenger{
		bot:    bot,
		client: client,
		chat:   chat,
		dir:    illustrationsDir,
		logger: logger,
	}, nil
}

// Authorize checks the token with getMe.
func (m *Messenger) Authorize(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	defer m.client.bind(ctx)()

	me, err := m.bot.GetMe()
	if err != nil {
		return "", fmt.Errorf("telegram auth: %w", err)
	}
	m.bot.Self = me
	return me.UserName, nil
}

// SendIllustration uploads the named sticker file from the illustrations
// directory. A missing file yields ErrIllustrationNotFound.
func (m *Messenger) SendIllustration(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(m.dir, name)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrIllustrationNotFound, path)
		}
		return fmt.Errorf("open illustration: %w", err)
	}
	defer f.Close()

	defer m.client.bind(ctx)()

	sticker := tgbotapi.NewSticker(m.chat.id, tgbotapi.FileReader{Name: name, Reader: f})
	sticker.ChannelUsername = m.chat.username

	if _, err := m.bot.Send(sticker); err != nil {
		return fmt.Errorf("send sticker %s: %w", name, err)
	}
	return nil
}

// SendMessage posts plain text to the chat.
func (m *Messenger) SendMessage(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	defer m.client.bind(ctx)()

	msg := tgbotapi.NewMessage(m.chat.id, text)
	msg.ChannelUsername = m.chat.username

	if _, err := m.bot.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	m.logger.Info("message sent", "chat", m.chat.String())
	return nil
}

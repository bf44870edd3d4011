package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/LOLLOVANDEV/incognitobot/internal/ports"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	DefaultBaseURL        = "https://api.telegram.org"
	defaultRequestTimeout = 10 * time.Second
	redactedURL           = "<telegram bot api>"
)

type API struct {
	BaseURL string
	Token   string
}

// Client talks to the Telegram Bot API. It answers membership queries for
// one channel, delivers plain-text notices and renders router replies.
type Client struct {
	API            API
	ChannelID      int64
	Keyboards      Keyboards
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var (
	_ ports.MembershipOracle = Client{}
	_ ports.Notifier         = Client{}
)

func (c Client) MemberStatus(ctx context.Context, identity domain.Identity) (string, error) {
	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	bot, err := c.bot(requestCtx)
	if err != nil {
		return "", err
	}

	member, err := bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: c.ChannelID, UserID: int64(identity)},
	})
	if err != nil {
		return "", fmt.Errorf("get chat member: %w", apiError(err))
	}

	return member.Status, nil
}

func (c Client) Notify(ctx context.Context, identity domain.Identity, text string) error {
	return c.request(ctx, "sendMessage", tgbotapi.NewMessage(int64(identity), text))
}

func (c Client) request(ctx context.Context, method string, chattable tgbotapi.Chattable) error {
	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	bot, err := c.bot(requestCtx)
	if err != nil {
		return err
	}

	if _, err := bot.Request(chattable); err != nil {
		return fmt.Errorf("%s: %w", method, apiError(err))
	}

	return nil
}

// bot builds a BotAPI bound to ctx. Construction makes no network call.
func (c Client) bot(ctx context.Context) (*tgbotapi.BotAPI, error) {
	if c.API.Token == "" {
		return nil, errors.New("telegram bot token is required")
	}

	baseURL := c.API.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse telegram api url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.New("telegram api url must use http or https")
	}
	if parsed.Host == "" {
		return nil, errors.New("telegram api url host is required")
	}

	bot := &tgbotapi.BotAPI{
		Token:  c.API.Token,
		Client: contextClient{ctx: ctx, base: c.httpClient()},
		Buffer: 1,
	}
	bot.SetAPIEndpoint(strings.TrimRight(parsed.String(), "/") + "/bot%s/%s")

	return bot, nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return context.WithTimeout(ctx, requestTimeout)
}

// contextClient attaches ctx to every request the bot library sends.
type contextClient struct {
	ctx  context.Context
	base *http.Client
}

func (c contextClient) Do(req *http.Request) (*http.Response, error) {
	return c.base.Do(req.WithContext(c.ctx))
}

// apiError marks err as an external failure, keeps the Bot API error code
// and strips the request URL, which embeds the bot token.
func apiError(err error) error {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		if tgErr.Code != 0 {
			return fmt.Errorf("%w: %d: %s", domain.ErrExternalService, tgErr.Code, tgErr.Message)
		}
		return fmt.Errorf("%w: %s", domain.ErrExternalService, tgErr.Message)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = &url.Error{Op: urlErr.Op, URL: redactedURL, Err: urlErr.Err}
	}
	return fmt.Errorf("%w: %w", domain.ErrExternalService, err)
}

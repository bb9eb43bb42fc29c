package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aionlabs/aion-admin/config"
)

// Telegram sends notification messages to the admin chat. All sends are
// best-effort: a failure is logged and never propagated to the caller.
type Telegram struct {
	botToken string
	chatID   string
	appURL   string
	client   *http.Client
	logger   zerolog.Logger
}

func NewTelegram(cfg map[string]string) *Telegram {
	return &Telegram{
		botToken: config.GetString(cfg, "TELEGRAM_BOT_TOKEN", ""),
		chatID:   config.GetString(cfg, "TELEGRAM_CHAT_ID", ""),
		appURL:   strings.TrimRight(config.GetString(cfg, "PUBLIC_APP_URL", ""), "/"),
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   log.With().Str("service", "telegram").Logger(),
	}
}

func (t *Telegram) enabled() bool {
	return t.botToken != "" && t.chatID != ""
}

// PostLink builds a deep link into the admin UI for a post, or an empty
// string when PUBLIC_APP_URL is not configured.
func (t *Telegram) PostLink(postID string) string {
	if t.appURL == "" {
		return ""
	}
	return t.appURL + "/posts/" + postID
}

// NotifyTaskCreated announces a new task comment on a post.
func (t *Telegram) NotifyTaskCreated(ctx context.Context, postTitle, text, assignee, link string) {
	msg := fmt.Sprintf("📝 <b>New task</b> on <i>%s</i>\n%s", EscapeHTML(postTitle), EscapeHTML(text))
	if assignee != "" {
		msg += "\nAssignee: " + EscapeHTML(assignee)
	}
	if link != "" {
		msg += fmt.Sprintf("\n<a href=\"%s\">Open post</a>", link)
	}
	t.send(ctx, msg)
}

// NotifyTaskDone announces a task comment moving to DONE.
func (t *Telegram) NotifyTaskDone(ctx context.Context, postTitle, text, link string) {
	msg := fmt.Sprintf("✅ <b>Task done</b> on <i>%s</i>\n%s", EscapeHTML(postTitle), EscapeHTML(text))
	if link != "" {
		msg += fmt.Sprintf("\n<a href=\"%s\">Open post</a>", link)
	}
	t.send(ctx, msg)
}

func (t *Telegram) send(ctx context.Context, html string) {
	if !t.enabled() {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"chat_id":                  t.chatID,
		"text":                     html,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	})
	if err != nil {
		t.logger.Warn().Err(err).Msg("could not marshal telegram payload")
		return
	}

	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		t.logger.Warn().Err(err).Msg("could not build telegram request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Warn().Err(err).Msg("telegram send failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.logger.Warn().Int("status", resp.StatusCode).Msg("telegram send rejected")
	}
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeHTML escapes the characters Telegram's HTML parse mode treats as
// markup.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

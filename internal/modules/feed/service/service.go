package service

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/reshetovitsme/channel-alert-monitor/internal/modules/feed/domain"
	messageDomain "github.com/reshetovitsme/channel-alert-monitor/internal/modules/message/domain"
	"github.com/samber/oops"
)

// MessageHistory lists alerted messages, newest first.
type MessageHistory interface {
	GetMessages(limit int) ([]*messageDomain.Message, error)
}

// Service builds RSS and Atom feeds from the alert history
type Service struct {
	cfg     domain.FeedConfig
	history MessageHistory
}

// New creates a new feed service
func New(cfg domain.FeedConfig, history MessageHistory) *Service {
	if cfg.Limit <= 0 {
		cfg.Limit = domain.DefaultLimit
	}
	if cfg.Title == "" {
		cfg.Title = "Channel alerts"
	}
	return &Service{
		cfg:     cfg,
		history: history,
	}
}

// GenerateFeed builds the feed of recent alerts. Links are rooted at baseURL.
func (s *Service) GenerateFeed(baseURL string) (*feeds.Feed, error) {
	messages, err := s.history.GetMessages(s.cfg.Limit)
	if err != nil {
		return nil, oops.With("channel_id", s.cfg.ChannelID, "context", "failed to get messages").Wrap(err)
	}

	feed := &feeds.Feed{
		Title:       fmt.Sprintf("%s - RSS Feed", s.cfg.Title),
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/rss", baseURL)},
		Description: fmt.Sprintf("Alerts raised for Discord channel %s", s.cfg.ChannelID),
		Id:          fmt.Sprintf("%s/channels/%s", baseURL, s.cfg.ChannelID),
		Created:     time.Now(),
	}
	if len(messages) > 0 {
		feed.Updated = messages[0].Timestamp
	}

	feed.Items = make([]*feeds.Item, 0, len(messages))
	for _, msg := range messages {
		feed.Items = append(feed.Items, s.messageToFeedItem(msg, baseURL))
	}
	return feed, nil
}

// RSS renders the feed as RSS 2.0.
func (s *Service) RSS(baseURL string) (string, error) {
	feed, err := s.GenerateFeed(baseURL)
	if err != nil {
		return "", err
	}
	rss, err := feed.ToRss()
	if err != nil {
		return "", oops.With("context", "failed to render rss").Wrap(err)
	}
	return rss, nil
}

// Atom renders the feed as Atom 1.0.
func (s *Service) Atom(baseURL string) (string, error) {
	feed, err := s.GenerateFeed(baseURL)
	if err != nil {
		return "", err
	}
	atom, err := feed.ToAtom()
	if err != nil {
		return "", oops.With("context", "failed to render atom").Wrap(err)
	}
	return atom, nil
}

func (s *Service) messageToFeedItem(msg *messageDomain.Message, baseURL string) *feeds.Item {
	description := msg.DisplayContent()

	return &feeds.Item{
		Title:       truncate(msg.AlertBody(), 100),
		Link:        &feeds.Link{Href: s.messageLink(msg, baseURL)},
		Description: description,
		Content:     "<p>" + strings.ReplaceAll(html.EscapeString(description), "\n", "<br>") + "</p>",
		Author:      &feeds.Author{Name: msg.Author.Username},
		Created:     msg.Timestamp,
		Id:          fmt.Sprintf("%s-%s", s.cfg.ChannelID, msg.ID),
	}
}

// messageLink points at the message in Discord when the guild is known, and at
// this feed otherwise.
func (s *Service) messageLink(msg *messageDomain.Message, baseURL string) string {
	if s.cfg.GuildID == "" {
		return fmt.Sprintf("%s/rss#%s", baseURL, msg.ID)
	}
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", s.cfg.GuildID, s.cfg.ChannelID, msg.ID)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

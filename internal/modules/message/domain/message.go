package domain

import (
	"fmt"
	"strings"
	"time"
)

// AttachmentPlaceholder stands in for the text of attachment-only posts.
const AttachmentPlaceholder = "(Attachment/Image)"

// Message represents a post read from the monitored channel
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}

// Author identifies who posted a message
type Author struct {
	Username string `json:"username"`
	ID       string `json:"id"`
}

// DisplayContent returns the message text, or AttachmentPlaceholder when it is
// empty. Whitespace-only text is kept as posted.
func (m *Message) DisplayContent() string {
	if m.Content == "" {
		return AttachmentPlaceholder
	}
	return m.Content
}

// AlertBody renders the notification body for the message.
func (m *Message) AlertBody() string {
	return fmt.Sprintf("%s: %s", m.Author.Username, m.DisplayContent())
}

// CompareIDs orders snowflake ids numerically without parsing them: a shorter
// decimal string is a smaller number. It returns -1, 0 or 1.
func CompareIDs(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return strings.Compare(a, b)
}

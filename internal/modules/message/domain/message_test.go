package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayContent(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"BUY NOW", "BUY NOW"},
		{"", AttachmentPlaceholder},
		{"   ", "   "},
	}
	for _, tt := range tests {
		msg := &Message{Content: tt.content}
		assert.Equal(t, tt.want, msg.DisplayContent())
	}
}

func TestAlertBody(t *testing.T) {
	msg := &Message{Content: "long BTC", Author: Author{Username: "trader", ID: "1"}}
	assert.Equal(t, "trader: long BTC", msg.AlertBody())

	msg.Content = ""
	assert.Equal(t, "trader: (Attachment/Image)", msg.AlertBody())
}

func TestCompareIDs(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"101", "102", -1},
		{"103", "102", 1},
		{"100", "100", 0},
		{"99", "100", -1},
		{"1000", "999", 1},
		{"0100", "100", 0},
		{"1234567890123456789", "1234567890123456790", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CompareIDs(tt.a, tt.b), "%s vs %s", tt.a, tt.b)
	}
}

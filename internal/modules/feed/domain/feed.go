package domain

// DefaultLimit is how many alerts a feed shows.
const DefaultLimit = 50

// FeedConfig describes the alert feed for the monitored channel
type FeedConfig struct {
	ChannelID string `json:"channel_id"`
	// GuildID enables links to the message in the Discord client.
	GuildID string `json:"guild_id,omitempty"`
	Title   string `json:"title"`
	Limit   int    `json:"limit"`
}

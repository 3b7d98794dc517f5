package feed

import (
	"fmt"
	"strings"
)

// Generator handles Atom, RSS and JSON feed generation for board items
type Generator struct {
	Title       string
	Description string
	Link        string
	Author      string

	// ItemBaseURL prefixes each item id to form its link
	ItemBaseURL string
}

// NewGenerator creates a new feed generator
func NewGenerator(title, description, link, author, itemBaseURL string) *Generator {
	return &Generator{
		Title:       title,
		Description: description,
		Link:        link,
		Author:      author,
		ItemBaseURL: strings.TrimRight(itemBaseURL, "/"),
	}
}

// FeedType represents the type of feed to generate
type FeedType string

const (
	RSS  FeedType = "rss"
	Atom FeedType = "atom"
	JSON FeedType = "json"
)

// ParseFeedType validates a feed type name
func ParseFeedType(s string) (FeedType, error) {
	switch t := FeedType(strings.ToLower(s)); t {
	case RSS, Atom, JSON:
		return t, nil
	default:
		return "", fmt.Errorf("unsupported feed type: %s", s)
	}
}

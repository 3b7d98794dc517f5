package feed

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/feeds"

	"github.com/lepinkainen/postboard/pkg/filesystem"
	"github.com/lepinkainen/postboard/pkg/viewmodel"
)

// Generate creates a feed from the board items. The feed is dated by its newest item.
func (g *Generator) Generate(items []viewmodel.DisplayItem) *feeds.Feed {
	updated := time.Time{}
	for _, item := range items {
		if item.CapturedAt.After(updated) {
			updated = item.CapturedAt
		}
	}
	if updated.IsZero() {
		updated = time.Now()
	}

	feed := &feeds.Feed{
		Title:       g.Title,
		Link:        &feeds.Link{Href: g.Link},
		Description: g.Description,
		Author:      &feeds.Author{Name: g.Author},
		Created:     updated,
		Updated:     updated,
	}

	for _, item := range items {
		link := g.ItemLink(item.ID)
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       item.Title,
			Link:        &feeds.Link{Href: link},
			Description: item.Description,
			Author:      &feeds.Author{Name: fmt.Sprintf("User %d", item.UserID)},
			Created:     item.CapturedAt,
			Id:          link,
		})
	}

	slog.Debug("Generated feed", "items", len(feed.Items))
	return feed
}

// ItemLink returns the canonical link of a post
func (g *Generator) ItemLink(id int) string {
	return g.ItemBaseURL + "/" + strconv.Itoa(id)
}

// Write serializes the feed in the requested format
func Write(feed *feeds.Feed, feedType FeedType, w io.Writer) error {
	var err error
	switch feedType {
	case RSS:
		err = feed.WriteRss(w)
	case Atom:
		err = feed.WriteAtom(w)
	case JSON:
		err = feed.WriteJSON(w)
	default:
		return fmt.Errorf("unsupported feed type: %s", feedType)
	}

	if err != nil {
		return fmt.Errorf("failed to write %s feed: %w", feedType, err)
	}
	return nil
}

// Render returns the serialized feed
func Render(feed *feeds.Feed, feedType FeedType) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(feed, feedType, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveToFile saves the generated feed to a specified file
func (g *Generator) SaveToFile(feed *feeds.Feed, feedType FeedType, outputPath string) (err error) {
	if err := filesystem.EnsureDirectoryExists(outputPath); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	if err := Write(feed, feedType, file); err != nil {
		return err
	}

	slog.Info("Feed saved successfully", "type", feedType, "path", outputPath)
	return nil
}

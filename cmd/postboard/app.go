package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/postboard/internal/config"
	"github.com/lepinkainen/postboard/internal/placeholder"
	"github.com/lepinkainen/postboard/pkg/agent"
	"github.com/lepinkainen/postboard/pkg/feed"
	"github.com/lepinkainen/postboard/pkg/filesystem"
	httputil "github.com/lepinkainen/postboard/pkg/http"
	"github.com/lepinkainen/postboard/pkg/preview"
	"github.com/lepinkainen/postboard/pkg/viewmodel"
)

// Output formats accepted by the fetch command
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatHTML     = "html"
	FormatAtom     = "atom"
	FormatRSS      = "rss"
	FormatJSONFeed = "jsonfeed"
)

// newViewModel wires the posts client, agent source and gallery from configuration
func newViewModel(cfg *config.Config, source viewmodel.PostSource) *viewmodel.FeedViewModel {
	if source == nil {
		source = placeholder.NewClient(cfg.API.PostsURL, &httputil.ClientConfig{
			Timeout:    cfg.API.Timeout,
			MaxRetries: cfg.API.MaxRetries,
			UserAgent:  cfg.API.UserAgent,
		})
	}

	return viewmodel.New(viewmodel.Options{
		Source:          source,
		Agent:           agent.Env(cfg.View.AgentEnv),
		TimestampLayout: cfg.View.TimestampLayout,
		CancelOnClose:   cfg.View.CancelOnClose,
		Gallery:         viewmodel.NewGallery(cfg.Gallery.Images, cfg.Gallery.Size),
	})
}

func newGenerator(cfg *config.Config) *feed.Generator {
	return feed.NewGenerator(cfg.Feed.Title, cfg.Feed.Description, cfg.Feed.Link, cfg.Feed.Author, cfg.API.PostsURL)
}

// render serializes the view state in one of the fetch output formats
func render(state viewmodel.ViewState, format string, gen *feed.Generator) ([]byte, error) {
	switch format {
	case FormatText, "":
		return []byte(preview.FormatCards(state.Items)), nil

	case FormatJSON:
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("error encoding state: %w", err)
		}
		return append(data, '\n'), nil

	case FormatYAML:
		data, err := yaml.Marshal(state)
		if err != nil {
			return nil, fmt.Errorf("error encoding state: %w", err)
		}
		return data, nil

	case FormatHTML:
		return preview.RenderCardsHTML(state.Items)

	case FormatAtom:
		return feed.Render(gen.Generate(state.Items), feed.Atom)

	case FormatRSS:
		return feed.Render(gen.Generate(state.Items), feed.RSS)

	case FormatJSONFeed:
		return feed.Render(gen.Generate(state.Items), feed.JSON)

	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// feedFormats maps fetch output formats onto feed types
var feedFormats = map[string]feed.FeedType{
	FormatAtom:     feed.Atom,
	FormatRSS:      feed.RSS,
	FormatJSONFeed: feed.JSON,
}

// writeOutput renders state to stdout, or to outfile when one is given.
// Feed formats are written through the generator.
func writeOutput(state viewmodel.ViewState, format, outfile string, gen *feed.Generator) error {
	if feedType, ok := feedFormats[format]; ok && outfile != "" {
		return gen.SaveToFile(gen.Generate(state.Items), feedType, outfile)
	}

	data, err := render(state, format, gen)
	if err != nil {
		return err
	}

	if outfile == "" {
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := filesystem.WriteOutput(outfile, data); err != nil {
		return err
	}
	slog.Info("Output saved", "format", format, "path", outfile, "items", len(state.Items))
	return nil
}

// Package preview renders board items for terminals and HTML, including the interactive Bubble Tea board.
package preview

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lepinkainen/postboard/pkg/feed"
	"github.com/lepinkainen/postboard/pkg/viewmodel"
)

const separator = "═══════════════════════════════════════════════════════════════════════\n"

// wrapText wraps text to the specified width, breaking at word boundaries when possible
func wrapText(text string, width int) string {
	if width <= 0 {
		width = 70
	}

	var result strings.Builder
	var line strings.Builder
	lineLen := 0

	words := strings.Fields(text)
	for i, word := range words {
		wordLen := utf8.RuneCountInString(word)

		if lineLen > 0 && lineLen+1+wordLen > width {
			result.WriteString(line.String())
			result.WriteString("\n")
			line.Reset()
			lineLen = 0
		}

		if lineLen > 0 {
			line.WriteString(" ")
			lineLen++
		}

		line.WriteString(word)
		lineLen += wordLen

		if i == len(words)-1 {
			result.WriteString(line.String())
		}
	}

	return result.String()
}

// FormatCompactListItem formats a single board item in compact list format
// Example: " 1. [#1   User 7 ] sunt aut facere repellat provident"
func FormatCompactListItem(index int, item viewmodel.DisplayItem) string {
	title := item.Title

	// limit counts runes so multibyte titles are never cut mid-character
	const maxTitleLength = 70
	if utf8.RuneCountInString(title) > maxTitleLength {
		title = string([]rune(title)[:maxTitleLength-3]) + "..."
	}

	return fmt.Sprintf("%2d. [#%-3d User %-2d] %s", index+1, item.ID, item.UserID, title)
}

// FormatDetailedItem formats a single board item with all of its fields
func FormatDetailedItem(item viewmodel.DisplayItem) string {
	var b strings.Builder

	b.WriteString(separator)
	fmt.Fprintf(&b, "Title: %s\n", item.Title)
	fmt.Fprintf(&b, "Post: #%d | User %d\n", item.ID, item.UserID)
	if item.Name != "" {
		fmt.Fprintf(&b, "Name: %s\n", item.Name)
	}
	fmt.Fprintf(&b, "Fetched: %s\n", item.Timestamp)

	if item.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", wrapText(item.Description, 70))
	}

	b.WriteString(separator)

	return b.String()
}

// FormatCards renders items as plain text cards separated by blank lines
func FormatCards(items []viewmodel.DisplayItem) string {
	if len(items) == 0 {
		return "No items\n"
	}

	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "#%d %s (User %d)\n", item.ID, item.Title, item.UserID)
		fmt.Fprintf(&b, "%s\n", wrapText(item.Description, 70))
		fmt.Fprintf(&b, "%s\n", item.Timestamp)
	}
	return b.String()
}

var entryRegex = regexp.MustCompile(`(?s)<entry>.*?</entry>`)

// FormatFeedEntry renders the Atom entry the feed export would produce for item
func FormatFeedEntry(item viewmodel.DisplayItem, gen *feed.Generator) string {
	if gen == nil {
		return "Feed export is not configured"
	}

	data, err := feed.Render(gen.Generate([]viewmodel.DisplayItem{item}), feed.Atom)
	if err != nil {
		return fmt.Sprintf("Error generating feed: %s", err)
	}

	match := entryRegex.FindString(string(data))
	if match == "" {
		return "No entry found in generated feed"
	}

	return wrapXMLContent(match, 80)
}

// wrapXMLContent wraps long lines, preferring breaks at spaces or tag ends
func wrapXMLContent(xml string, width int) string {
	var result strings.Builder

	for _, line := range strings.Split(xml, "\n") {
		remaining := line
		for len(remaining) > width {
			breakPoint := width
			for i := width - 1; i > width-20 && i > 0; i-- {
				if remaining[i] == ' ' || remaining[i] == '>' {
					breakPoint = i + 1
					break
				}
			}
			result.WriteString(remaining[:breakPoint])
			result.WriteString("\n")
			remaining = remaining[breakPoint:]
		}
		if remaining != "" {
			result.WriteString(remaining)
			result.WriteString("\n")
		}
	}

	return result.String()
}

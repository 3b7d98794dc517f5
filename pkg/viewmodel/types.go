package viewmodel

import (
	"context"
	"fmt"
	"time"
)

// RemotePost is a single record from the posts endpoint
type RemotePost struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// PostSource fetches the current list of posts
type PostSource interface {
	FetchPosts(ctx context.Context) ([]RemotePost, error)
}

// PostSourceFunc adapts a function to PostSource
type PostSourceFunc func(ctx context.Context) ([]RemotePost, error)

// FetchPosts implements PostSource
func (f PostSourceFunc) FetchPosts(ctx context.Context) ([]RemotePost, error) {
	return f(ctx)
}

// DisplayItem is the UI-ready projection of a RemotePost
type DisplayItem struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Title       string `json:"title" yaml:"title"`
	UserID      int    `json:"userId" yaml:"userId"`
	Description string `json:"description" yaml:"description"`
	Timestamp   string `json:"timestamp" yaml:"timestamp"`

	// CapturedAt is the instant Timestamp was formatted from
	CapturedAt time.Time `json:"-" yaml:"-"`
}

// FormSnapshot holds the contact form fields at submit time
type FormSnapshot struct {
	Name     string `json:"name" form:"name" yaml:"name"`
	Email    string `json:"email" form:"email" yaml:"email"`
	Comments string `json:"comments" form:"comments" yaml:"comments"`
}

// ViewState is everything needed to render the page at one instant
type ViewState struct {
	ClickCount int           `json:"clickCount" yaml:"clickCount"`
	Items      []DisplayItem `json:"items" yaml:"items"`
	Loading    bool          `json:"loading" yaml:"loading"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// HasError reports whether the last fetch failed
func (s ViewState) HasError() bool {
	return s.Error != ""
}

// GalleryImage is one entry of the static image gallery
type GalleryImage struct {
	Name   string `json:"name" yaml:"name"`
	Src    string `json:"src" yaml:"src"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// DefaultGalleryNames are the images shipped with the page
var DefaultGalleryNames = []string{"first_image", "second_image", "third_image"}

// DefaultGallerySize is the fixed display size in pixels
const DefaultGallerySize = 500

// NewGallery builds square gallery entries served from /images/<name>.jpg
func NewGallery(names []string, size int) []GalleryImage {
	if size <= 0 {
		size = DefaultGallerySize
	}

	images := make([]GalleryImage, len(names))
	for i, name := range names {
		images[i] = GalleryImage{
			Name:   name,
			Src:    fmt.Sprintf("/images/%s.jpg", name),
			Width:  size,
			Height: size,
		}
	}
	return images
}

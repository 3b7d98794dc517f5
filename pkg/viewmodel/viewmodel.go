// Package viewmodel owns the fetch, transform and render state of the post board.
//
// A FeedViewModel is shared by every rendering adapter (terminal UI, HTTP API, CLI).
// Adapters call its operations and render State(); they never mutate state directly.
package viewmodel

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/lepinkainen/postboard/pkg/agent"
)

// DefaultTimestampLayout mirrors the en-US locale string shape, e.g. "3/14/2025, 9:26:53 AM".
const DefaultTimestampLayout = "1/2/2006, 3:04:05 PM"

// Options configures a FeedViewModel
type Options struct {
	Source PostSource
	Agent  agent.Source

	// Clock defaults to time.Now
	Clock           func() time.Time
	TimestampLayout string

	// CancelOnClose cancels in-flight fetches on Close and discards their results
	CancelOnClose bool

	Gallery []GalleryImage
	Logger  *slog.Logger
}

// FeedViewModel holds the view state and the operations that change it
type FeedViewModel struct {
	mu             sync.RWMutex
	state          ViewState
	lastErr        error
	lastSubmission *FormSnapshot

	source        PostSource
	agent         agent.Source
	clock         func() time.Time
	layout        string
	gallery       []GalleryImage
	logger        *slog.Logger
	cancelOnClose bool

	closeCtx context.Context
	closeFn  context.CancelFunc
}

var errNoSource = errors.New("no post source configured")

// New creates a view model in the idle-empty state
func New(opts Options) *FeedViewModel {
	if opts.Source == nil {
		opts.Source = PostSourceFunc(func(context.Context) ([]RemotePost, error) {
			return nil, errNoSource
		})
	}
	if opts.Agent == nil {
		opts.Agent = agent.None()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.TimestampLayout == "" {
		opts.TimestampLayout = DefaultTimestampLayout
	}
	if opts.Gallery == nil {
		opts.Gallery = NewGallery(DefaultGalleryNames, DefaultGallerySize)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	closeCtx, closeFn := context.WithCancel(context.Background())

	return &FeedViewModel{
		state:         ViewState{Items: []DisplayItem{}},
		source:        opts.Source,
		agent:         opts.Agent,
		clock:         opts.Clock,
		layout:        opts.TimestampLayout,
		gallery:       opts.Gallery,
		logger:        opts.Logger,
		cancelOnClose: opts.CancelOnClose,
		closeCtx:      closeCtx,
		closeFn:       closeFn,
	}
}

// Load fetches the posts and replaces the item list.
// Failures are recorded in the state, never returned.
func (vm *FeedViewModel) Load(ctx context.Context) {
	vm.fetch(ctx, "load", false)
}

// Refresh behaves like Load and additionally resets the click counter after a success.
func (vm *FeedViewModel) Refresh(ctx context.Context) {
	vm.fetch(ctx, "refresh", true)
}

func (vm *FeedViewModel) fetch(ctx context.Context, op string, resetClicks bool) {
	if vm.cancelOnClose {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		stop := context.AfterFunc(vm.closeCtx, cancel)
		defer func() {
			stop()
			cancel()
		}()
	}

	vm.mu.Lock()
	vm.state.Error = ""
	vm.state.Loading = true
	vm.mu.Unlock()

	vm.logger.Debug("Fetching posts", "op", op)
	posts, err := vm.source.FetchPosts(ctx)

	if vm.abandoned() {
		// the result is discarded, only the loading flag is settled
		vm.logger.Debug("Discarding fetch result after close", "op", op)
		vm.mu.Lock()
		vm.state.Loading = false
		vm.mu.Unlock()
		return
	}

	if err != nil {
		vm.logger.Error("Error fetching data", "op", op, "error", err)

		vm.mu.Lock()
		vm.state.Error = FetchFailureMessage
		vm.state.Loading = false
		vm.lastErr = &FetchError{Op: op, Err: err}
		vm.mu.Unlock()
		return
	}

	items := Transform(posts, vm.clock, vm.layout)

	vm.mu.Lock()
	vm.state.Items = items
	vm.state.Loading = false
	if resetClicks {
		vm.state.ClickCount = 0
	}
	vm.lastErr = nil
	vm.mu.Unlock()

	vm.logger.Debug("Fetched posts", "op", op, "count", len(items))
}

// abandoned reports whether a finished fetch must not touch state
func (vm *FeedViewModel) abandoned() bool {
	return vm.cancelOnClose && vm.closeCtx.Err() != nil
}

// Transform maps posts to display items, stamping each with the clock at mapping time.
func Transform(posts []RemotePost, clock func() time.Time, layout string) []DisplayItem {
	items := make([]DisplayItem, len(posts))
	for i, post := range posts {
		captured := clock()
		items[i] = DisplayItem{
			ID:          post.ID,
			Name:        "",
			Title:       post.Title,
			UserID:      post.UserID,
			Description: post.Body,
			Timestamp:   captured.Format(layout),
			CapturedAt:  captured,
		}
	}
	return items
}

// IncrementClick bumps the click counter and returns the new value
func (vm *FeedViewModel) IncrementClick() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.state.ClickCount++
	return vm.state.ClickCount
}

// SubmitForm logs the snapshot and acknowledges it. Any field values are accepted.
func (vm *FeedViewModel) SubmitForm(form FormSnapshot) string {
	vm.logger.Info("Form submitted",
		"name", form.Name,
		"email", form.Email,
		"comments", form.Comments)

	vm.mu.Lock()
	vm.lastSubmission = &form
	vm.mu.Unlock()

	return SubmitAcknowledgement
}

// LastSubmission returns the most recently submitted form, if any
func (vm *FeedViewModel) LastSubmission() (FormSnapshot, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()

	if vm.lastSubmission == nil {
		return FormSnapshot{}, false
	}
	return *vm.lastSubmission, true
}

// DetectAgentLabel labels the ambient agent, see agent.Detect
func (vm *FeedViewModel) DetectAgentLabel() string {
	return agent.Detect(vm.agent)
}

// State returns a copy of the current view state
func (vm *FeedViewModel) State() ViewState {
	vm.mu.RLock()
	defer vm.mu.RUnlock()

	s := vm.state
	s.Items = slices.Clone(vm.state.Items)
	return s
}

// CanRefresh reports whether the refresh control should be enabled
func (vm *FeedViewModel) CanRefresh() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return !vm.state.Loading
}

// LastError returns the cause of the last failed fetch, or nil
func (vm *FeedViewModel) LastError() error {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.lastErr
}

// Gallery returns the static gallery images
func (vm *FeedViewModel) Gallery() []GalleryImage {
	return slices.Clone(vm.gallery)
}

// Close tears the view model down. With CancelOnClose, pending fetches are cancelled.
func (vm *FeedViewModel) Close() {
	if !vm.cancelOnClose {
		vm.logger.Debug("Closing view model, pending fetches keep running")
	}
	vm.closeFn()
}

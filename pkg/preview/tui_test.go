package preview

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lepinkainen/postboard/pkg/agent"
	"github.com/lepinkainen/postboard/pkg/viewmodel"
)

func newTestVM(t *testing.T, err error) *viewmodel.FeedViewModel {
	t.Helper()

	posts := []viewmodel.RemotePost{
		{ID: 1, UserID: 7, Title: "T", Body: "B"},
		{ID: 2, UserID: 1, Title: "qui est esse", Body: "est rerum"},
	}
	vm := viewmodel.New(viewmodel.Options{
		Source: viewmodel.PostSourceFunc(func(context.Context) ([]viewmodel.RemotePost, error) {
			if err != nil {
				return nil, err
			}
			return posts, nil
		}),
		Agent: agent.Static("Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0"),
		Clock: func() time.Time { return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC) },
	})
	t.Cleanup(vm.Close)
	return vm
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loaded runs the initial fetch synchronously and applies its result
func loaded(t *testing.T, vm *viewmodel.FeedViewModel) Model {
	t.Helper()

	m := NewModel(context.Background(), vm, nil)
	next, _ := m.Update(m.fetchCmd(false)())
	return next.(Model)
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestModel_InitialViewIsLoading(t *testing.T) {
	m := NewModel(context.Background(), newTestVM(t, nil), nil)

	if m.Init() == nil {
		t.Fatal("Init() should trigger the initial load")
	}

	view := m.View()
	if !strings.Contains(view, "Loading...") {
		t.Errorf("initial view should show Loading...:\n%s", view)
	}
	if !strings.Contains(view, "Postboard - Firefox") {
		t.Errorf("header should carry the agent label:\n%s", view)
	}
}

func TestModel_LoadShowsItems(t *testing.T) {
	m := loaded(t, newTestVM(t, nil))

	view := m.View()
	for _, want := range []string{"2 items", "[#1   User 7 ] T", "qui est esse", "Gallery: first_image, second_image, third_image (500x500)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "API Error") {
		t.Errorf("unexpected error banner:\n%s", view)
	}
}

func TestModel_ErrorBanner(t *testing.T) {
	m := loaded(t, newTestVM(t, errors.New("connection refused")))

	view := m.View()
	if !strings.Contains(view, "API Error: API request failed") {
		t.Errorf("view should show the error banner:\n%s", view)
	}
	if !strings.Contains(view, "0 items") {
		t.Errorf("view should show an empty list:\n%s", view)
	}
}

func TestModel_ClickAndRefresh(t *testing.T) {
	vm := newTestVM(t, nil)
	m := loaded(t, vm)

	for range 3 {
		m, _ = press(t, m, keyRunes("c"))
	}
	if got := vm.State().ClickCount; got != 3 {
		t.Fatalf("ClickCount = %d, want 3", got)
	}
	if !strings.Contains(m.View(), "Clicks: 3") {
		t.Errorf("view should show the click count:\n%s", m.View())
	}

	m, cmd := press(t, m, keyRunes("r"))
	if cmd == nil {
		t.Fatal("refresh should dispatch a fetch")
	}
	if !m.fetching {
		t.Error("model should be fetching after refresh")
	}

	// a second refresh while the first is pending is ignored
	if _, again := press(t, m, keyRunes("r")); again != nil {
		t.Error("refresh should be ignored while loading")
	}

	next, _ := m.Update(cmd())
	m = next.(Model)
	if m.fetching {
		t.Error("fetching should clear after the fetch completes")
	}
	if got := vm.State().ClickCount; got != 0 {
		t.Errorf("ClickCount after refresh = %d, want 0", got)
	}
}

func TestModel_RefreshIgnoredDuringInitialLoad(t *testing.T) {
	m := NewModel(context.Background(), newTestVM(t, nil), nil)

	if _, cmd := press(t, m, keyRunes("r")); cmd != nil {
		t.Error("refresh should be disabled until the initial load completes")
	}
}

func TestModel_NavigateAndDetail(t *testing.T) {
	m := loaded(t, newTestVM(t, nil))

	m, _ = press(t, m, keyRunes("j"))
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}
	m, _ = press(t, m, keyRunes("j"))
	if m.cursor != 1 {
		t.Errorf("cursor should stop at the last item, got %d", m.cursor)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.viewMode != DetailViewMode {
		t.Fatalf("viewMode = %v, want detail", m.viewMode)
	}
	if !strings.Contains(m.View(), "Title: qui est esse") {
		t.Errorf("detail view missing title:\n%s", m.View())
	}

	m, _ = press(t, m, keyRunes("x"))
	if m.viewMode != EntryViewMode {
		t.Errorf("x should toggle to the feed entry view")
	}
	if !strings.Contains(m.View(), "Feed export is not configured") {
		t.Errorf("entry view without a generator:\n%s", m.View())
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.viewMode != ListViewMode {
		t.Errorf("esc should return to the list")
	}
}

func TestModel_SubmitForm(t *testing.T) {
	vm := newTestVM(t, nil)
	m := loaded(t, vm)

	m, _ = press(t, m, keyRunes("f"))
	if m.viewMode != FormViewMode {
		t.Fatalf("viewMode = %v, want form", m.viewMode)
	}

	m, _ = press(t, m, keyRunes("Ann"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(t, m, keyRunes("ann@example.com"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(t, m, keyRunes("hello"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	got, ok := vm.LastSubmission()
	if !ok {
		t.Fatal("form was not submitted")
	}
	want := viewmodel.FormSnapshot{Name: "Ann", Email: "ann@example.com", Comments: "hello"}
	if got != want {
		t.Errorf("submission = %+v, want %+v", got, want)
	}

	if m.viewMode != ListViewMode {
		t.Error("submit should return to the list")
	}
	if !strings.Contains(m.View(), "Form submitted successfully!") {
		t.Errorf("view should show the acknowledgement:\n%s", m.View())
	}
	if !strings.Contains(m.View(), "Last submission: Ann <ann@example.com>") {
		t.Errorf("view should show the last submission:\n%s", m.View())
	}
}

func TestModel_NoSubmissionLine(t *testing.T) {
	m := loaded(t, newTestVM(t, nil))
	if strings.Contains(m.View(), "Last submission") {
		t.Errorf("view should not show a submission before one is made:\n%s", m.View())
	}
}

func TestModel_FormKeysDoNotQuit(t *testing.T) {
	m := loaded(t, newTestVM(t, nil))
	m, _ = press(t, m, keyRunes("f"))

	m, _ = press(t, m, keyRunes("q"))
	if m.viewMode != FormViewMode {
		t.Fatal("typing q in the form should not leave it")
	}
	if m.name.Value() != "q" {
		t.Errorf("name = %q, want q", m.name.Value())
	}
}

func TestModel_Quit(t *testing.T) {
	m := loaded(t, newTestVM(t, nil))

	_, cmd := press(t, m, keyRunes("q"))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit the program")
	}
}

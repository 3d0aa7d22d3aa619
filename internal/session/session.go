// Package session owns the per-browser CV document and UI state.
package session

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/cv-studio/internal/export"
	"github.com/jonathan/cv-studio/internal/i18n"
	"github.com/jonathan/cv-studio/internal/photo"
	"github.com/jonathan/cv-studio/internal/preview"
	"github.com/jonathan/cv-studio/internal/store"
	"github.com/jonathan/cv-studio/internal/themes"
	"github.com/jonathan/cv-studio/internal/types"
)

// Session is the single document/UI-state pair of one editor. The document is
// only ever changed through Store; UI state only through the setters below.
type Session struct {
	ID       uuid.UUID
	Store    *store.Store
	exporter *export.Exporter

	mu         sync.RWMutex
	ui         types.UiState
	uiVersion  uint64
	lastAccess time.Time
}

// View is a consistent pair of document and UI state.
type View struct {
	Doc     types.CvDocument
	UI      types.UiState
	Version uint64 // document version plus UI version
}

// New creates a session with an empty document.
func New(ui types.UiState, exporter *export.Exporter) *Session {
	return &Session{
		ID:         uuid.New(),
		Store:      store.Empty(),
		exporter:   exporter,
		ui:         ui,
		lastAccess: time.Now(),
	}
}

// UI returns the current presentational state.
func (s *Session) UI() types.UiState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ui
}

// Dispatch applies an editing command to the document.
func (s *Session) Dispatch(cmd store.Command) store.Result {
	s.Touch()
	return s.Store.Dispatch(cmd)
}

// SetTheme selects the preview theme.
func (s *Session) SetTheme(k themes.Key) {
	s.updateUI(func(ui *types.UiState) { ui.Theme = k })
}

// SetLanguage selects the label language.
func (s *Session) SetLanguage(l i18n.Language) {
	s.updateUI(func(ui *types.UiState) { ui.Language = l })
}

// SetDarkMode sets the editor chrome mode. The preview is not affected.
func (s *Session) SetDarkMode(on bool) {
	s.updateUI(func(ui *types.UiState) { ui.DarkMode = on })
}

// ToggleDarkMode flips the editor chrome mode.
func (s *Session) ToggleDarkMode() {
	s.updateUI(func(ui *types.UiState) { ui.DarkMode = !ui.DarkMode })
}

func (s *Session) updateUI(fn func(*types.UiState)) {
	s.mu.Lock()
	before := s.ui
	fn(&s.ui)
	changed := s.ui != before
	if changed {
		s.uiVersion++
	}
	s.lastAccess = time.Now()
	s.mu.Unlock()

	if changed {
		s.Store.Notify(s.Store.Version())
	}
}

// View returns the document and UI state as one consistent pair.
func (s *Session) View() View {
	s.mu.RLock()
	ui := s.ui
	uiVersion := s.uiVersion
	s.mu.RUnlock()
	doc, version := s.Store.Current()
	return View{Doc: doc, UI: ui, Version: version + uiVersion}
}

// Render projects a view into a preview tree.
func (v View) Render() *preview.Node {
	return preview.Render(v.Doc, themes.Resolve(v.UI.Theme), v.UI.Language)
}

// Preview renders the current state to an HTML fragment.
func (s *Session) Preview() (string, View, error) {
	s.Touch()
	v := s.View()
	out, err := preview.HTML(v.Render())
	if err != nil {
		return "", v, err
	}
	return out, v, nil
}

// Export captures the state as it is when Export is called. Edits made while
// the capture runs do not reach the image.
func (s *Session) Export(ctx context.Context) (*export.Result, error) {
	if s.exporter == nil {
		return nil, fmt.Errorf("session %s has no exporter", s.ID)
	}
	s.Touch()
	v := s.View()
	return s.exporter.Export(ctx, export.Request{
		Node:     v.Render(),
		Theme:    themes.Resolve(v.UI.Theme),
		Language: v.UI.Language,
	})
}

// ExportState reports whether this session's exporter is capturing.
func (s *Session) ExportState() export.State {
	if s.exporter == nil {
		return export.Idle
	}
	return s.exporter.State()
}

// LoadPhoto decodes an upload and stores it as the photo. On failure the
// photo field is left as it was.
func (s *Session) LoadPhoto(ctx context.Context, r io.Reader, maxBytes int64) error {
	s.Touch()
	res := <-photo.DecodeAsync(ctx, r, maxBytes)
	if res.Err != nil {
		log.Printf("[photo] session %s: upload rejected: %v", s.ID, res.Err)
		return res.Err
	}
	s.Store.Dispatch(store.SetScalar{Field: types.FieldPhoto, Value: res.DataURI})
	return nil
}

// ClearPhoto removes the photo.
func (s *Session) ClearPhoto() {
	s.Dispatch(store.SetScalar{Field: types.FieldPhoto, Value: ""})
}

// Touch marks the session as in use so idle expiry skips it.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastAccess = time.Now()
	s.mu.Unlock()
}

// LastAccess returns when the session was last used.
func (s *Session) LastAccess() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastAccess
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonathan/cv-studio/internal/documents"
	"github.com/jonathan/cv-studio/internal/export"
	"github.com/jonathan/cv-studio/internal/i18n"
	"github.com/jonathan/cv-studio/internal/photo"
	"github.com/jonathan/cv-studio/internal/server/middleware"
	"github.com/jonathan/cv-studio/internal/session"
	"github.com/jonathan/cv-studio/internal/store"
	"github.com/jonathan/cv-studio/internal/themes"
	"github.com/jonathan/cv-studio/internal/types"
)

// maxDocumentBytes bounds PUT /api/document bodies. A document may carry a
// photo as a base64 data URI.
const maxDocumentBytes = 16 << 20

// MutationResponse is the JSON answer to an editing request.
type MutationResponse struct {
	Version  uint64           `json:"version"`
	Index    int              `json:"index"`
	Changed  bool             `json:"changed"`
	Document types.CvDocument `json:"document"`
}

// DocumentResponse is the JSON form of a session view.
type DocumentResponse struct {
	Version  uint64           `json:"version"`
	Document types.CvDocument `json:"document"`
	UI       types.UiState    `json:"ui"`
}

// ThemeResponse describes one theme for selectors.
type ThemeResponse struct {
	themes.Definition
	Name string `json:"name"`
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := middleware.GetSession(r)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return sess, true
}

// fail answers a failed request. Browser form posts are redirected back to
// the editor with a label key so the page can show a localized message.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, label i18n.Key) {
	status := HTTPStatus(err)
	if wantsJSON(r) || label == "" {
		s.errorResponse(w, status, err.Error())
		return
	}
	http.Redirect(w, r, "/?error="+string(label), http.StatusSeeOther)
}

func (s *Server) respondMutation(w http.ResponseWriter, r *http.Request, res store.Result) {
	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.jsonResponse(w, http.StatusOK, MutationResponse{
		Version:  res.Version,
		Index:    res.Index,
		Changed:  res.Changed,
		Document: res.Doc,
	})
}

func (s *Server) respondUI(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	v := sess.View()
	s.jsonResponse(w, http.StatusOK, DocumentResponse{Version: v.Version, Document: v.Doc, UI: v.UI})
}

func parseIndex(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, &ErrValidation{Field: "index", Message: fmt.Sprintf("%q is not a record index", raw)}
	}
	return index, nil
}

// handlePreview returns the preview fragment of the session.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	out, view, err := sess.Preview()
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Preview-Version", strconv.FormatUint(view.Version, 10))
	io.WriteString(w, out) //nolint:errcheck
}

// handleEvents streams a preview event for every state change of the session.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	// The stream outlives the server write timeout.
	http.NewResponseController(w).SetWriteDeadline(time.Time{}) //nolint:errcheck

	updates, cancel := sess.Store.Subscribe()
	defer cancel()

	var sent uint64
	first := true
	push := func() error {
		out, view, err := sess.Preview()
		if err != nil {
			sse.WriteError(err.Error())
			return nil
		}
		if !first && view.Version == sent {
			return nil
		}
		first = false
		sent = view.Version
		return sse.WritePreview(PreviewEvent{
			Version:  view.Version,
			HTML:     out,
			Theme:    string(view.UI.Theme),
			Language: string(view.UI.Language),
			DarkMode: view.UI.DarkMode,
		})
	}

	if err := push(); err != nil {
		return
	}

	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			if err := push(); err != nil {
				log.Printf("[events] session %s: stream closed: %v", sess.ID, err)
				return
			}
		case <-ticker.C:
			// An open editor tab counts as activity even without edits.
			sess.Touch()
			if err := sse.WriteComment("ping"); err != nil {
				return
			}
		}
	}
}

// handleSetField sets one scalar field from the form value "value".
func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	field, err := types.ParseScalarField(chi.URLParam(r, "field"))
	if err != nil || field == types.FieldPhoto {
		if err == nil {
			err = &ErrValidation{Field: "field", Message: "photo is set through /photo"}
		}
		s.fail(w, r, err, "")
		return
	}
	res := sess.Dispatch(store.SetScalar{Field: field, Value: r.FormValue("value")})
	s.respondMutation(w, r, res)
}

// handleAdd appends a record. Skills take their value from the form value "value".
func (s *Server) handleAdd(name string) http.HandlerFunc {
	coll := collections[name]
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.session(w, r)
		if !ok {
			return
		}
		res := sess.Dispatch(coll.add(r.FormValue("value")))
		s.respondMutation(w, r, res)
	}
}

// handleUpdate applies every record field present in the form to the record
// at {index}.
func (s *Server) handleUpdate(name string) http.HandlerFunc {
	coll := collections[name]
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.session(w, r)
		if !ok {
			return
		}
		index, err := parseIndex(r)
		if err != nil {
			s.fail(w, r, err, "")
			return
		}
		if err := r.ParseForm(); err != nil {
			s.fail(w, r, &ErrValidation{Field: "form", Message: err.Error()}, "")
			return
		}

		res := store.Result{Index: -1, Version: sess.Store.Version()}
		applied := false
		for _, field := range coll.fields {
			if _, present := r.PostForm[field]; !present {
				continue
			}
			cmd, err := coll.update(index, field, r.PostForm.Get(field))
			if err != nil {
				s.fail(w, r, err, "")
				return
			}
			step := sess.Dispatch(cmd)
			step.Changed = step.Changed || res.Changed
			res = step
			applied = true
		}
		if !applied {
			s.fail(w, r, &ErrValidation{Field: "form", Message: fmt.Sprintf("no %s field given", name)}, "")
			return
		}
		s.respondMutation(w, r, res)
	}
}

// handleRemove removes the record at {index}.
func (s *Server) handleRemove(name string) http.HandlerFunc {
	coll := collections[name]
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.session(w, r)
		if !ok {
			return
		}
		index, err := parseIndex(r)
		if err != nil {
			s.fail(w, r, err, "")
			return
		}
		s.respondMutation(w, r, sess.Dispatch(coll.remove(index)))
	}
}

// handleUploadPhoto reads the multipart file "photo" into the photo field.
func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxPhotoBytes+1<<20)
	file, _, err := r.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Printf("[photo] session %s: upload over %d bytes", sess.ID, tooLarge.Limit)
			s.fail(w, r, &photo.DecodeError{Message: "request body", Cause: photo.ErrTooLarge}, i18n.PhotoRejected)
			return
		}
		log.Printf("[photo] session %s: no upload: %v", sess.ID, err)
		s.fail(w, r, &ErrValidation{Field: "photo", Message: "a file is required"}, i18n.PhotoRejected)
		return
	}
	defer file.Close()

	if err := sess.LoadPhoto(r.Context(), file, s.maxPhotoBytes); err != nil {
		s.fail(w, r, err, i18n.PhotoRejected)
		return
	}
	s.respondUI(w, r, sess)
}

// handleRemovePhoto clears the photo field.
func (s *Server) handleRemovePhoto(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.ClearPhoto()
	s.respondUI(w, r, sess)
}

// handleSetTheme selects the theme from the form value "theme".
func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	key, err := themes.ParseKey(r.FormValue("theme"))
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	sess.SetTheme(key)
	s.respondUI(w, r, sess)
}

// handleSetLanguage selects the label language from the form value "language".
func (s *Server) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	lang, err := i18n.ParseLanguage(r.FormValue("language"))
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	sess.SetLanguage(lang)
	s.respondUI(w, r, sess)
}

// handleSetDarkMode sets dark mode from the form value "enabled", or toggles
// it when the value is absent.
func (s *Server) handleSetDarkMode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	raw := r.FormValue("enabled")
	if raw == "" {
		sess.ToggleDarkMode()
		s.respondUI(w, r, sess)
		return
	}
	on, err := strconv.ParseBool(raw)
	if err != nil {
		s.fail(w, r, &ErrValidation{Field: "enabled", Message: "must be a boolean"}, "")
		return
	}
	sess.SetDarkMode(on)
	s.respondUI(w, r, sess)
}

// handleExport captures the session's preview and sends it as cv.png.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	res, err := sess.Export(r.Context())
	if err != nil {
		status := HTTPStatus(err)
		label := i18n.ExportFailed
		if status == http.StatusConflict {
			label = i18n.ExportBusy
		}
		log.Printf("[export] session %s: %v", sess.ID, err)
		s.jsonResponse(w, status, map[string]string{
			"error":  i18n.Label(sess.UI().Language, label),
			"detail": err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, res.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.PNG)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(res.PNG) //nolint:errcheck
}

// handleGetDocument returns the session's document and UI state.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	v := sess.View()
	s.jsonResponse(w, http.StatusOK, DocumentResponse{Version: v.Version, Document: v.Doc, UI: v.UI})
}

// handlePutDocument replaces the whole document with a validated JSON body.
func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	doc, err := documents.Decode(body, documents.FormatJSON)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	res := sess.Dispatch(store.Replace{Doc: doc})
	s.jsonResponse(w, http.StatusOK, MutationResponse{
		Version:  res.Version,
		Index:    res.Index,
		Changed:  res.Changed,
		Document: res.Doc,
	})
}

// handleCommand dispatches one JSON command.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req CommandRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid command: %v", err))
		return
	}

	cmd, err := req.Build()
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	res := sess.Dispatch(cmd)
	s.jsonResponse(w, http.StatusOK, MutationResponse{
		Version:  res.Version,
		Index:    res.Index,
		Changed:  res.Changed,
		Document: res.Doc,
	})
}

// handleThemes lists the themes with names in the session language.
func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	lang := sess.UI().Language
	out := make([]ThemeResponse, 0, len(themes.All()))
	for _, def := range themes.All() {
		out = append(out, ThemeResponse{Definition: def, Name: def.DisplayName(lang)})
	}
	s.jsonResponse(w, http.StatusOK, out)
}

package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/jonathan/cv-studio/internal/export"
	"github.com/jonathan/cv-studio/internal/i18n"
	"github.com/jonathan/cv-studio/internal/themes"
	"github.com/jonathan/cv-studio/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

type option struct {
	Value    string
	Caption  string
	Selected bool
}

type record struct {
	Index  int
	Number int
	Fields []recordField
}

type recordField struct {
	Name  string
	Label string
	Value string
	Long  bool
}

type recordList struct {
	Name     string // URL segment
	Title    string
	Singular string
	AddLabel string
	Records  []record
}

type editorPage struct {
	L         i18n.Labeler
	UI        types.UiState
	Doc       types.CvDocument
	Preview   template.HTML
	Version   uint64
	Themes    []option
	Languages []option
	Lists     []recordList
	Error     string
	ExportURL string
}

func parseEditorTemplate() (*template.Template, error) {
	tmpl, err := template.New("editor.html").ParseFS(templateFS, "templates/editor.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse editor template: %w", err)
	}
	return tmpl, nil
}

// handleEditor renders the form and the live preview.
func (s *Server) handleEditor(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	preview, view, err := sess.Preview()
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	lang := view.UI.Language
	page := editorPage{
		L:         i18n.Labeler{Lang: lang},
		UI:        view.UI,
		Doc:       view.Doc,
		Preview:   template.HTML(preview), //nolint:gosec // escaped by preview.HTML
		Version:   view.Version,
		Lists:     recordLists(view.Doc, lang),
		ExportURL: "/export/" + export.Filename,
	}
	for _, def := range themes.All() {
		page.Themes = append(page.Themes, option{
			Value:    string(def.Key),
			Caption:  def.DisplayName(lang),
			Selected: def.Key == view.UI.Theme,
		})
	}
	for _, l := range i18n.Languages {
		page.Languages = append(page.Languages, option{
			Value:    string(l),
			Caption:  l.Code(),
			Selected: l == lang,
		})
	}
	if key := r.URL.Query().Get("error"); key != "" {
		switch i18n.Key(key) {
		case i18n.PhotoRejected, i18n.ExportBusy, i18n.ExportFailed:
			page.Error = i18n.Label(lang, i18n.Key(key))
		}
	}

	var buf bytes.Buffer
	if err := s.editor.Execute(&buf, page); err != nil {
		log.Printf("[editor] template error: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to render editor")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes()) //nolint:errcheck
}

func recordLists(doc types.CvDocument, lang i18n.Language) []recordList {
	label := func(k i18n.Key) string { return i18n.Label(lang, k) }

	education := recordList{
		Name: "education", Title: label(i18n.Education), Singular: label(i18n.Education), AddLabel: label(i18n.AddEducation),
	}
	for i, e := range doc.Education {
		education.Records = append(education.Records, record{Index: i, Number: i + 1, Fields: []recordField{
			{Name: string(types.EducationSchool), Label: label(i18n.School), Value: e.School},
			{Name: string(types.EducationDegree), Label: label(i18n.Degree), Value: e.Degree},
			{Name: string(types.EducationYear), Label: label(i18n.Year), Value: e.Year},
		}})
	}

	experience := recordList{
		Name: "experience", Title: label(i18n.Experience), Singular: label(i18n.Experience), AddLabel: label(i18n.AddExperience),
	}
	for i, e := range doc.Experience {
		experience.Records = append(experience.Records, record{Index: i, Number: i + 1, Fields: []recordField{
			{Name: string(types.ExperienceCompany), Label: label(i18n.Company), Value: e.Company},
			{Name: string(types.ExperiencePosition), Label: label(i18n.Position), Value: e.Position},
			{Name: string(types.ExperienceYear), Label: label(i18n.Year), Value: e.Year},
			{Name: string(types.ExperienceDescription), Label: label(i18n.Description), Value: e.Description, Long: true},
		}})
	}

	references := recordList{
		Name: "references", Title: label(i18n.References), Singular: label(i18n.Reference), AddLabel: label(i18n.AddReference),
	}
	for i, ref := range doc.References {
		references.Records = append(references.Records, record{Index: i, Number: i + 1, Fields: []recordField{
			{Name: string(types.ReferenceName), Label: label(i18n.Name), Value: ref.Name},
			{Name: string(types.ReferencePosition), Label: label(i18n.Position), Value: ref.Position},
			{Name: string(types.ReferenceContact), Label: label(i18n.Contact), Value: ref.Contact},
		}})
	}

	return []recordList{education, experience, references}
}

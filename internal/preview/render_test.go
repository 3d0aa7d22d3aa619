package preview

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/cv-studio/internal/i18n"
	"github.com/jonathan/cv-studio/internal/themes"
	"github.com/jonathan/cv-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPhoto = "data:image/png;base64,iVBORw0KGgo="

func sampleDocument() types.CvDocument {
	doc := types.NewCvDocument()
	doc.FullName = "Ada Lovelace"
	doc.Job = "Analyst"
	doc.Email = "ada@example.com"
	doc.Phone = "+44 20 0000"
	doc.Profile = "First line\nSecond line"
	doc.Skills = []string{"Mathematics", "Poetry"}
	doc.Education = []types.Education{{School: "Home", Degree: "Private tutoring", Year: "1830"}}
	doc.Experience = []types.Experience{{Company: "Analytical Engine", Position: "Programmer", Year: "1843", Description: "Note G\nBernoulli numbers"}}
	doc.References = []types.Reference{{Name: "Charles Babbage", Position: "Inventor", Contact: "cb@example.com"}}
	return doc
}

func parse(t *testing.T, n *Node) *goquery.Document {
	t.Helper()
	out, err := HTML(n)
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	return doc
}

func TestRender_IsDeterministic(t *testing.T) {
	doc := sampleDocument()
	doc.Photo = testPhoto

	for _, def := range themes.All() {
		for _, lang := range i18n.Languages {
			a, err := HTML(Render(doc, def, lang))
			require.NoError(t, err)
			b, err := HTML(Render(doc, def, lang))
			require.NoError(t, err)
			assert.Equal(t, a, b, "theme=%s lang=%s", def.Key, lang)
			assert.Equal(t, Render(doc, def, lang), Render(doc, def, lang))
		}
	}
}

func TestRender_TwoColumnLayout(t *testing.T) {
	doc := sampleDocument()
	doc.Photo = testPhoto
	q := parse(t, Render(doc, themes.Resolve(themes.Modern), i18n.EN))

	left := q.Find(".cv-left")
	right := q.Find(".cv-right")
	require.Equal(t, 1, left.Length())
	require.Equal(t, 1, right.Length())

	var leftSections, rightSections []string
	left.Find("[data-section]").Each(func(_ int, s *goquery.Selection) {
		leftSections = append(leftSections, s.AttrOr(AttrSection, ""))
	})
	right.Find("[data-section]").Each(func(_ int, s *goquery.Selection) {
		rightSections = append(rightSections, s.AttrOr(AttrSection, ""))
	})

	assert.Equal(t, []string{SectionPhoto, SectionContact, SectionSkills, SectionEducation}, leftSections)
	assert.Equal(t, []string{SectionHeader, SectionProfile, SectionExperience, SectionReferences}, rightSections)

	divider := q.Find(".cv-divider")
	require.Equal(t, 1, divider.Length())
	assert.Contains(t, divider.AttrOr("style", ""), "width: 2px")
	assert.Contains(t, q.Find(".cv-grid").AttrOr("style", ""), "grid-template-columns: 1fr 2px 1fr")
}

func TestRender_OneColumnLayout(t *testing.T) {
	doc := sampleDocument()
	doc.Photo = testPhoto
	q := parse(t, Render(doc, themes.Resolve(themes.Minimal), i18n.EN))

	assert.Equal(t, 0, q.Find(".cv-grid").Length())
	assert.Equal(t, 0, q.Find(".cv-divider").Length())

	var order []string
	q.Find("#cv > [data-section]").Each(func(_ int, s *goquery.Selection) {
		order = append(order, s.AttrOr(AttrSection, ""))
	})
	assert.Equal(t, []string{
		SectionHeader, SectionPhoto, SectionContact, SectionProfile,
		SectionSkills, SectionEducation, SectionExperience, SectionReferences,
	}, order)
}

func TestRender_PreservesLineBreaks(t *testing.T) {
	doc := sampleDocument()
	tree := Render(doc, themes.Resolve(themes.Modern), i18n.TR)

	profile := tree.Section(SectionProfile)
	require.NotNil(t, profile)
	assert.Contains(t, profile.TextContent(), "First line\nSecond line")

	q := parse(t, tree)
	p := q.Find(`[data-section="profile"] p`)
	assert.Contains(t, p.AttrOr("style", ""), "white-space: pre-wrap")
	assert.Equal(t, "First line\nSecond line", p.Text())

	desc := q.Find(`[data-section="experience"] .cv-entry p`).Last()
	assert.Equal(t, "Note G\nBernoulli numbers", desc.Text())
	assert.Contains(t, desc.AttrOr("style", ""), "white-space: pre-wrap")
}

func TestRender_EscapesText(t *testing.T) {
	doc := types.NewCvDocument()
	doc.FullName = `<script>alert("x")</script>`

	out, err := HTML(Render(doc, themes.Resolve(themes.Minimal), i18n.EN))
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestRender_EmptyCollectionsRenderEmptySections(t *testing.T) {
	doc := types.NewCvDocument()
	q := parse(t, Render(doc, themes.Resolve(themes.Professional), i18n.EN))

	for _, name := range []string{SectionSkills, SectionEducation, SectionExperience, SectionReferences} {
		section := q.Find(`[data-section="` + name + `"]`)
		require.Equal(t, 1, section.Length(), name)
		assert.Equal(t, 0, section.Find(".cv-entry, .cv-skill").Length(), name)
	}
	assert.Equal(t, "Skills", q.Find(`[data-section="skills"] h2`).Text())
}

func TestRender_PhotoSectionFollowsPhoto(t *testing.T) {
	doc := sampleDocument()
	def := themes.Resolve(themes.Modern)

	assert.Nil(t, Render(doc, def, i18n.EN).Section(SectionPhoto))

	doc.Photo = testPhoto
	photo := Render(doc, def, i18n.EN).Section(SectionPhoto)
	require.NotNil(t, photo)
	require.Len(t, photo.Children, 1)
	src, _ := photo.Children[0].Attr("src")
	assert.Equal(t, testPhoto, src)

	doc.Photo = ""
	assert.Nil(t, Render(doc, def, i18n.EN).Section(SectionPhoto))
}

func TestRender_PhotoShapeIsThemeToken(t *testing.T) {
	doc := sampleDocument()
	doc.Photo = testPhoto

	tests := []struct {
		key    themes.Key
		radius string
	}{
		{themes.Modern, "50%"},
		{themes.Minimal, "0.5rem"},
		{themes.Professional, "50%"},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			img := Render(doc, themes.Resolve(tt.key), i18n.EN).Section(SectionPhoto).Children[0]
			radius, _ := img.StyleValue("border-radius")
			fit, _ := img.StyleValue("object-fit")
			w, _ := img.StyleValue("width")
			h, _ := img.StyleValue("height")
			assert.Equal(t, tt.radius, radius)
			assert.Equal(t, "cover", fit)
			assert.Equal(t, w, h)
		})
	}
}

func TestRender_LanguageChangesOnlyLabels(t *testing.T) {
	doc := sampleDocument()
	def := themes.Resolve(themes.Modern)

	tr := parse(t, Render(doc, def, i18n.TR))
	en := parse(t, Render(doc, def, i18n.EN))

	assert.Equal(t, "Yetenekler", tr.Find(`[data-section="skills"] h2`).Text())
	assert.Equal(t, "Skills", en.Find(`[data-section="skills"] h2`).Text())

	// Every non-title text is identical across languages.
	values := func(q *goquery.Document) []string {
		var out []string
		q.Find("h1, h3, p, span").Each(func(_ int, s *goquery.Selection) {
			out = append(out, s.Text())
		})
		return out
	}
	assert.Equal(t, values(tr), values(en))
}

func TestRender_ThemeColors(t *testing.T) {
	doc := sampleDocument()
	for _, def := range themes.All() {
		root := Render(doc, def, i18n.EN)
		bg, ok := root.StyleValue("background-color")
		require.True(t, ok)
		assert.Equal(t, def.Colors.Primary, bg)
		assert.Equal(t, RootID, root.ID)
	}
}

func TestRender_DoesNotMutateDocument(t *testing.T) {
	doc := sampleDocument()
	before := doc.Clone()
	Render(doc, themes.Resolve(themes.Minimal), i18n.TR)
	assert.Equal(t, before, doc)
}

func TestHTML_NilTree(t *testing.T) {
	_, err := HTML(nil)
	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)
}

func TestPage_Standalone(t *testing.T) {
	def := themes.Resolve(themes.Professional)
	out, err := Page(Render(sampleDocument(), def, i18n.EN), def, i18n.EN)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, `<html lang="en">`)
	assert.Contains(t, out, "background-color:"+def.Colors.Primary)
	assert.Contains(t, out, `id="cv"`)
}

package preview

import (
	"github.com/jonathan/cv-studio/internal/i18n"
	"github.com/jonathan/cv-studio/internal/themes"
	"github.com/jonathan/cv-studio/internal/types"
)

// RootID is the element id of the capture root.
const RootID = "cv"

// AttrSection marks section containers in the tree and in the emitted HTML.
const AttrSection = "data-section"

// Section names.
const (
	SectionHeader     = "header"
	SectionPhoto      = "photo"
	SectionContact    = "contact"
	SectionSkills     = "skills"
	SectionEducation  = "education"
	SectionProfile    = "profile"
	SectionExperience = "experience"
	SectionReferences = "references"
	SectionDivider    = "divider"
)

// Page geometry shared with the exporter.
const (
	PageWidth   = "210mm"
	PageHeight  = "297mm"
	PhotoSize   = "192px"
	DividerSize = "2px"
)

// Render projects doc into a visual tree using the tokens of def and the labels
// of lang. It reads nothing else, so equal inputs give equal trees.
func Render(doc types.CvDocument, def themes.Definition, lang i18n.Language) *Node {
	r := renderer{doc: doc, def: def, c: def.Colors, lang: lang}

	root := el("div").with(
		Attr{"data-theme", string(def.Key)},
		Attr{"data-layout", string(def.Layout)},
		Attr{"lang", string(lang)},
	).styled(
		Attr{"box-sizing", "border-box"},
		Attr{"width", PageWidth},
		Attr{"min-height", PageHeight},
		Attr{"padding", "2rem"},
		Attr{"overflow", "hidden"},
		Attr{"background-color", r.c.Primary},
		Attr{"color", r.c.Text},
		Attr{"font-family", "ui-sans-serif, system-ui, sans-serif"},
	)
	root.ID = RootID

	if def.TwoColumn() {
		root.Children = []*Node{r.twoColumns()}
	} else {
		root.Children = r.oneColumn()
	}
	return root
}

type renderer struct {
	doc  types.CvDocument
	def  themes.Definition
	c    themes.Colors
	lang i18n.Language
}

func (r renderer) twoColumns() *Node {
	left := el("div",
		r.photo(),
		r.contact(),
		r.skills(),
		r.education(),
	).class("cv-column cv-left").styled(stack("1.5rem")...)

	divider := el("div").class("cv-divider").with(
		Attr{AttrSection, SectionDivider},
	).styled(
		Attr{"width", DividerSize},
		Attr{"background-color", r.c.Divider},
	)

	right := el("div",
		r.header(),
		r.profile(),
		r.experience(),
		r.references(),
	).class("cv-column cv-right").styled(append(stack("1.5rem"), Attr{"overflow", "hidden"})...)

	return el("div", left, divider, right).class("cv-grid").styled(
		Attr{"display", "grid"},
		Attr{"grid-template-columns", "1fr " + DividerSize + " 1fr"},
		Attr{"gap", "2rem"},
	)
}

func (r renderer) oneColumn() []*Node {
	return compact([]*Node{
		r.header(),
		r.photo(),
		r.contact(),
		r.profile(),
		r.skills(),
		r.education(),
		r.experience(),
		r.references(),
	})
}

func stack(gap string) []Attr {
	return []Attr{
		{"display", "flex"},
		{"flex-direction", "column"},
		{"gap", gap},
	}
}

func (r renderer) section(name string, children ...*Node) *Node {
	return el("section", children...).with(Attr{AttrSection, name})
}

func (r renderer) title(key i18n.Key) *Node {
	return el("h2", text(i18n.Label(r.lang, key))).styled(
		Attr{"font-size", "1.25rem"},
		Attr{"font-weight", "600"},
		Attr{"margin", "0 0 0.75rem 0"},
		Attr{"color", r.c.Secondary},
	)
}

func line(tag, value, color, size string) *Node {
	return el(tag, text(value)).styled(
		Attr{"margin", "0"},
		Attr{"font-size", size},
		Attr{"color", color},
		Attr{"overflow-wrap", "anywhere"},
	)
}

func longText(value, color string) *Node {
	return el("p", text(value)).styled(
		Attr{"margin", "0"},
		Attr{"font-size", "1rem"},
		Attr{"color", color},
		Attr{"white-space", "pre-wrap"},
		Attr{"overflow-wrap", "anywhere"},
	)
}

func (r renderer) photo() *Node {
	if !r.doc.HasPhoto() {
		return nil
	}
	radius := "0.5rem"
	if r.def.PhotoShape == themes.Circle {
		radius = "50%"
	}
	img := el("img").with(
		Attr{"src", r.doc.Photo},
		Attr{"alt", i18n.Label(r.lang, i18n.PhotoAlt)},
		Attr{"width", "192"},
		Attr{"height", "192"},
	).styled(
		Attr{"display", "block"},
		Attr{"width", PhotoSize},
		Attr{"height", PhotoSize},
		Attr{"aspect-ratio", "1 / 1"},
		Attr{"object-fit", "cover"},
		Attr{"border-radius", radius},
		Attr{"margin", "0 auto"},
	)
	return r.section(SectionPhoto, img)
}

func (r renderer) header() *Node {
	name := el("h1", text(r.doc.FullName)).styled(
		Attr{"margin", "0 0 0.5rem 0"},
		Attr{"font-size", "2.25rem"},
		Attr{"font-weight", "700"},
		Attr{"color", r.headingColor()},
		Attr{"overflow-wrap", "anywhere"},
	)
	job := line("p", r.doc.Job, r.c.Secondary, "1.25rem")
	return r.section(SectionHeader, name, job).styled(Attr{"margin-bottom", "2rem"})
}

// headingColor is the name color: the theme text color for dark themes and a
// near-black for the light theme.
func (r renderer) headingColor() string {
	if r.def.TwoColumn() {
		return r.c.Text
	}
	return r.c.Muted
}

func (r renderer) contact() *Node {
	return r.section(SectionContact,
		r.title(i18n.Contact),
		line("p", r.doc.Email, r.c.Muted, "1rem"),
		line("p", r.doc.Phone, r.c.Muted, "1rem"),
	)
}

func (r renderer) skills() *Node {
	chips := el("div").styled(
		Attr{"display", "flex"},
		Attr{"flex-wrap", "wrap"},
		Attr{"gap", "0.5rem"},
	)
	for _, skill := range r.doc.Skills {
		chips.Children = append(chips.Children, el("span", text(skill)).class("cv-skill").styled(
			Attr{"padding", "0.375rem 0.75rem"},
			Attr{"border-radius", "9999px"},
			Attr{"background-color", r.c.Accent},
			Attr{"color", r.c.AccentFg},
		))
	}
	return r.section(SectionSkills, r.title(i18n.Skills), chips)
}

func (r renderer) education() *Node {
	s := r.section(SectionEducation, r.title(i18n.Education))
	for _, e := range r.doc.Education {
		s.Children = append(s.Children, el("div",
			line("h3", e.School, r.c.Muted, "1rem"),
			line("p", e.Degree, r.c.Subtle, "0.875rem"),
			line("p", e.Year, r.c.Faint, "0.875rem"),
		).class("cv-entry").styled(Attr{"margin-bottom", "1rem"}))
	}
	return s
}

func (r renderer) profile() *Node {
	return r.section(SectionProfile,
		r.title(i18n.Profile),
		longText(r.doc.Profile, r.c.Subtle),
	)
}

func (r renderer) experience() *Node {
	s := r.section(SectionExperience, r.title(i18n.Experience))
	for _, e := range r.doc.Experience {
		s.Children = append(s.Children, el("div",
			line("h3", e.Company, r.c.Muted, "1.125rem"),
			line("p", e.Position, r.c.Subtle, "1rem"),
			line("p", e.Year, r.c.Faint, "0.875rem"),
			longText(e.Description, r.c.Subtle),
		).class("cv-entry").styled(Attr{"margin-bottom", "1.5rem"}))
	}
	return s
}

func (r renderer) references() *Node {
	s := r.section(SectionReferences, r.title(i18n.References))
	for _, ref := range r.doc.References {
		s.Children = append(s.Children, el("div",
			line("h3", ref.Name, r.c.Secondary, "1rem"),
			line("p", ref.Position, r.c.Secondary, "0.875rem"),
			line("p", ref.Contact, r.c.Secondary, "0.875rem"),
		).class("cv-entry").styled(Attr{"margin-bottom", "1rem"}))
	}
	return s
}

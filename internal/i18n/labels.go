// Package i18n provides the two-language label table used by the editor and the CV preview.
package i18n

import (
	"errors"
	"fmt"
)

// Language selects the label set. Field values are never translated.
type Language string

// Supported languages.
const (
	TR Language = "tr"
	EN Language = "en"
)

// Default is the language of a new session when nothing better is known.
const Default = TR

// ErrUnknownLanguage is returned by ParseLanguage for codes outside the supported set.
var ErrUnknownLanguage = errors.New("unknown language")

// Languages lists the supported languages in selector order.
var Languages = []Language{TR, EN}

// ParseLanguage converts a language code into a Language.
func ParseLanguage(code string) (Language, error) {
	switch l := Language(code); l {
	case TR, EN:
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
}

// Code returns the upper-case selector caption (TR, EN).
func (l Language) Code() string {
	switch l {
	case TR:
		return "TR"
	case EN:
		return "EN"
	}
	return string(l)
}

// Key identifies a static label.
type Key string

// Label keys.
const (
	CVInformation   Key = "cv_information"
	FullName        Key = "full_name"
	JobTitle        Key = "job_title"
	Email           Key = "email"
	Phone           Key = "phone"
	Profile         Key = "profile"
	Skills          Key = "skills"
	AddNewSkill     Key = "add_new_skill"
	Add             Key = "add"
	Education       Key = "education"
	AddEducation    Key = "add_education"
	School          Key = "school"
	Degree          Key = "degree"
	Year            Key = "year"
	Experience      Key = "experience"
	AddExperience   Key = "add_experience"
	Company         Key = "company"
	Position        Key = "position"
	Description     Key = "description"
	References      Key = "references"
	Reference       Key = "reference"
	AddReference    Key = "add_reference"
	Name            Key = "name"
	Contact         Key = "contact"
	Photo           Key = "photo"
	PhotoAlt        Key = "photo_alt"
	RemovePhoto     Key = "remove_photo"
	Download        Key = "download"
	DarkMode        Key = "dark_mode"
	LightMode       Key = "light_mode"
	ExportBusy      Key = "export_busy"
	ExportFailed    Key = "export_failed"
	PhotoRejected   Key = "photo_rejected"
	ThemeSelector   Key = "theme_selector"
	LanguageToggler Key = "language_toggler"
)

var labels = map[Key][2]string{
	// {tr, en}
	CVInformation:   {"CV Bilgileri", "CV Information"},
	FullName:        {"Ad Soyad", "Full Name"},
	JobTitle:        {"Meslek", "Job Title"},
	Email:           {"E-posta", "Email"},
	Phone:           {"Telefon", "Phone"},
	Profile:         {"Profil", "Profile"},
	Skills:          {"Yetenekler", "Skills"},
	AddNewSkill:     {"Yeni yetenek ekle", "Add new skill"},
	Add:             {"Ekle", "Add"},
	Education:       {"Eğitim", "Education"},
	AddEducation:    {"Eğitim Ekle", "Add Education"},
	School:          {"Okul/Üniversite", "School/University"},
	Degree:          {"Derece", "Degree"},
	Year:            {"Yıl", "Year"},
	Experience:      {"Deneyim", "Experience"},
	AddExperience:   {"Deneyim Ekle", "Add Experience"},
	Company:         {"Şirket", "Company"},
	Position:        {"Pozisyon", "Position"},
	Description:     {"Açıklama", "Description"},
	References:      {"Referanslar", "References"},
	Reference:       {"Referans", "Reference"},
	AddReference:    {"Referans Ekle", "Add Reference"},
	Name:            {"İsim", "Name"},
	Contact:         {"İletişim", "Contact"},
	Photo:           {"Fotoğraf", "Photo"},
	PhotoAlt:        {"Profil", "Profile"},
	RemovePhoto:     {"Fotoğrafı Kaldır", "Remove Photo"},
	Download:        {"İndir", "Download"},
	DarkMode:        {"Karanlık Mod", "Dark Mode"},
	LightMode:       {"Aydınlık Mod", "Light Mode"},
	ExportBusy:      {"Dışa aktarma zaten sürüyor", "An export is already running"},
	ExportFailed:    {"Görüntü oluşturulamadı", "Could not generate the image"},
	PhotoRejected:   {"Fotoğraf okunamadı", "The photo could not be read"},
	ThemeSelector:   {"Tema", "Theme"},
	LanguageToggler: {"Dil", "Language"},
}

// Label returns the caption for key in lang. Unknown keys return the key itself
// so that a missing entry is visible rather than blank.
func Label(lang Language, key Key) string {
	pair, ok := labels[key]
	if !ok {
		return string(key)
	}
	if lang == EN {
		return pair[1]
	}
	return pair[0]
}

// Labeler binds Label to a single language, for use from templates.
type Labeler struct {
	Lang Language
}

// T returns the caption for key in the bound language.
func (l Labeler) T(key string) string {
	return Label(l.Lang, Key(key))
}

package types

import (
	"github.com/jonathan/cv-studio/internal/i18n"
	"github.com/jonathan/cv-studio/internal/themes"
)

// UiState is the presentational state of a session. It never affects CvDocument.
type UiState struct {
	DarkMode bool          `json:"isDarkMode"`
	Theme    themes.Key    `json:"selectedTheme"`
	Language i18n.Language `json:"language"`
}

// DefaultUiState returns the state of a fresh session.
func DefaultUiState() UiState {
	return UiState{
		DarkMode: false,
		Theme:    themes.Default,
		Language: i18n.Default,
	}
}

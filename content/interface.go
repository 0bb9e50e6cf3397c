// content/interface.go
package content

import (
	"context"
	"fmt"
)

// WordEntry is one drawable item of a theme's word pool.
type WordEntry struct {
	Word     string `json:"word"`
	Category string `json:"category,omitempty"`
}

// Theme is a named word pool. Custom themes carry an access code that
// players type in to unlock them.
type Theme struct {
	Name       string      `json:"name"`
	AccessCode string      `json:"accessCode,omitempty"`
	Entries    []WordEntry `json:"entries"`
}

// Location is one entry of the location/role mode pool.
type Location struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// QuestionPair holds the crew question and the thematically adjacent one
// handed to impostors in the different-questions mode.
type QuestionPair struct {
	Crew     string `json:"crew"`
	Impostor string `json:"impostor"`
}

// Store looks up custom themes by access code. Rooms consume it read-only;
// SaveCustomTheme exists for the theme-provisioning endpoint.
type Store interface {
	CustomTheme(ctx context.Context, accessCode string) (*Theme, error)
	SaveCustomTheme(ctx context.Context, theme *Theme) error
	Close() error
}

var (
	ErrThemeNotFound = fmt.Errorf("theme not found")
	ErrEmptyTheme    = fmt.Errorf("theme has no entries")
)

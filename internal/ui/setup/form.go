// Package setup holds the interactive first-run form that collects the
// Trello credentials and the list to browse.
package setup

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/nhle/pocketboard/internal/credential"
	"github.com/nhle/pocketboard/internal/model"
)

// Values holds the form fields. huh binds to these through pointers, so
// a Values must outlive the form built over it.
type Values struct {
	APIKey  string
	Token   string
	ListID  string
	BaseURL string
}

// FromConfig pre-fills the non-secret fields from cfg and the secrets
// from creds, which may be nil.
func FromConfig(cfg *model.AppConfig, creds *credential.Credentials) *Values {
	v := &Values{
		ListID:  cfg.Trello.ListID,
		BaseURL: cfg.Trello.BaseURL,
	}
	if creds != nil {
		v.APIKey = creds.APIKey
		v.Token = creds.Token
	}
	return v
}

// NewForm builds the setup form over v.
func NewForm(v *Values, width int) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("pocketboard setup").
				Description("Keys come from https://trello.com/power-ups/admin.\nThey are stored in the system keyring."),
			huh.NewInput().
				Title("API key").
				EchoMode(huh.EchoModePassword).
				Value(&v.APIKey).
				Validate(validateRequired("API key")),
			huh.NewInput().
				Title("API token").
				EchoMode(huh.EchoModePassword).
				Value(&v.Token).
				Validate(validateRequired("API token")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("List ID").
				Description("The list to browse and create cards in").
				Value(&v.ListID).
				Validate(validateRequired("List ID")),
			huh.NewInput().
				Title("API base URL").
				Placeholder("https://api.trello.com/1").
				Value(&v.BaseURL).
				Validate(validateURL),
		),
	).WithWidth(formWidth(width))
}

// Apply copies the form result into cfg and returns the credentials to
// store.
func (v *Values) Apply(cfg *model.AppConfig) credential.Credentials {
	cfg.Trello.ListID = strings.TrimSpace(v.ListID)
	cfg.Trello.BaseURL = strings.TrimRight(strings.TrimSpace(v.BaseURL), "/")
	return credential.Credentials{
		APIKey: strings.TrimSpace(v.APIKey),
		Token:  strings.TrimSpace(v.Token),
	}
}

func formWidth(w int) int {
	return min(max(w-4, 40), 100)
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("URL must include scheme and host (e.g., https://api.trello.com/1)")
	}
	return nil
}

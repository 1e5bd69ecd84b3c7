package modals

import (
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/travelchat/internal/config"
)

const optionNotifications = "notifications"

// SettingsState edits the persisted client settings.
type SettingsState struct {
	// Bound form values
	apiURL               string
	selectedTheme        string
	OriginalTheme        string // To detect if theme changed
	OriginalAPIURL       string // To detect if the backend changed
	NotificationsEnabled bool

	generalOptions []string

	form *huh.Form

	availableWidth int
}

func (*SettingsState) modalState() {}

func (s *SettingsState) PreferredWidth() int { return ModalWidthWide }

// SetSize updates the available width for rendering content.
func (s *SettingsState) SetSize(width, height int) {
	s.availableWidth = width
	s.form.WithWidth(s.contentWidth())
}

func (s *SettingsState) contentWidth() int {
	if s.availableWidth > 0 {
		return s.availableWidth - 10
	}
	return ModalWidthWide - 10
}

func (s *SettingsState) Title() string { return "Settings" }

func (s *SettingsState) Help() string {
	return "Tab: next field  Enter: save  Esc: cancel"
}

func (s *SettingsState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, s.form.View(), help)
}

func (s *SettingsState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	s.NotificationsEnabled = slices.Contains(s.generalOptions, optionNotifications)
	return s, cmd
}

// GetAPIURL returns the entered backend URL with surrounding space and
// trailing slashes removed. Empty means "use the default".
func (s *SettingsState) GetAPIURL() string {
	return strings.TrimRight(strings.TrimSpace(s.apiURL), "/")
}

// SetAPIURL replaces the API URL value. huh binds via pointer, so the form
// picks the change up on its next render.
func (s *SettingsState) SetAPIURL(v string) {
	s.apiURL = v
}

// APIURLChanged reports whether the backend URL differs from the one the
// modal was opened with.
func (s *SettingsState) APIURLChanged() bool {
	return s.GetAPIURL() != s.OriginalAPIURL
}

// Validate checks the entered values before they are saved.
func (s *SettingsState) Validate() error {
	if u := s.GetAPIURL(); u != "" {
		return config.ValidateAPIURL(u)
	}
	return nil
}

// GetSelectedTheme returns the selected theme key.
func (s *SettingsState) GetSelectedTheme() string {
	return s.selectedTheme
}

// ThemeChanged returns true if the selected theme differs from the original.
func (s *SettingsState) ThemeChanged() bool {
	return s.selectedTheme != s.OriginalTheme
}

// GetNotificationsEnabled returns whether notifications are enabled
func (s *SettingsState) GetNotificationsEnabled() bool {
	return s.NotificationsEnabled
}

// NewSettingsState creates the settings modal. themes and themeDisplayNames
// are parallel slices.
func NewSettingsState(themes, themeDisplayNames []string, currentTheme, apiURL string, notificationsEnabled bool) *SettingsState {
	s := &SettingsState{
		apiURL:               apiURL,
		selectedTheme:        currentTheme,
		OriginalTheme:        currentTheme,
		OriginalAPIURL:       strings.TrimRight(strings.TrimSpace(apiURL), "/"),
		NotificationsEnabled: notificationsEnabled,
		availableWidth:       ModalWidthWide,
	}

	themeOptions := make([]huh.Option[string], len(themes))
	for i := range themes {
		themeOptions[i] = huh.NewOption(themeDisplayNames[i], themes[i])
	}

	generalOpts := []huh.Option[string]{
		huh.NewOption("Desktop notification when a reply arrives", optionNotifications).
			Selected(notificationsEnabled),
	}
	if notificationsEnabled {
		s.generalOptions = append(s.generalOptions, optionNotifications)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Description("Leave empty for " + config.DefaultAPIURL).
				Placeholder(config.DefaultAPIURL).
				CharLimit(ModalInputCharLimit).
				Validate(func(v string) error {
					if v = strings.TrimSpace(v); v != "" {
						return config.ValidateAPIURL(v)
					}
					return nil
				}).
				Value(&s.apiURL),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOptions...).
				Value(&s.selectedTheme),
			huh.NewMultiSelect[string]().
				Title("Options").
				Options(generalOpts...).
				Height(len(generalOpts)).
				Value(&s.generalOptions),
		),
	).
		WithTheme(ModalTheme()).
		WithShowHelp(false).
		WithWidth(s.contentWidth()).
		WithLayout(huh.LayoutStack)
	initHuhForm(s.form)

	return s
}

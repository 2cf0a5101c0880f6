package application

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/ericfisherdev/placementpanel/internal/domain/model"
	"github.com/ericfisherdev/placementpanel/internal/domain/port/driven"
)

// ErrUnknownTheme is returned when selecting a theme the catalog lacks.
var ErrUnknownTheme = errors.New("unknown theme")

const themeSettingKey = "theme"

//go:embed themes.yaml
var themesYAML []byte

// ThemeCatalog lists the selectable themes.
type ThemeCatalog struct {
	Standard []model.Theme `yaml:"standard"`
	Premium  []model.Theme `yaml:"premium"`
}

// LoadThemeCatalog parses the built-in catalog.
func LoadThemeCatalog() (*ThemeCatalog, error) {
	return ParseThemeCatalog(themesYAML)
}

// ParseThemeCatalog parses a catalog document. Both sections must be non-empty.
func ParseThemeCatalog(data []byte) (*ThemeCatalog, error) {
	var c ThemeCatalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse theme catalog: %w", err)
	}
	if len(c.Standard) == 0 || len(c.Premium) == 0 {
		return nil, errors.New("theme catalog needs standard and premium themes")
	}
	return &c, nil
}

// Default returns the selection used before anything was saved.
func (c *ThemeCatalog) Default() model.ThemeSelection {
	return model.ThemeSelection{Kind: model.ThemeKindStandard, ID: c.Standard[0].ID}
}

// Find looks up the theme for a selection.
func (c *ThemeCatalog) Find(sel model.ThemeSelection) (model.Theme, bool) {
	var list []model.Theme
	switch sel.Kind {
	case model.ThemeKindStandard:
		list = c.Standard
	case model.ThemeKindPremium:
		list = c.Premium
	}
	for _, t := range list {
		if t.ID == sel.ID {
			return t, true
		}
	}
	return model.Theme{}, false
}

// ThemeStyle maps a selection to the CSS custom properties the layout applies.
// Standard themes set only the accent; premium themes replace the palette and
// fonts. Unknown standard selections fall back to the first standard theme;
// unknown premium selections produce no properties.
func ThemeStyle(c *ThemeCatalog, sel model.ThemeSelection) model.StyleDeclaration {
	t, ok := c.Find(sel)
	if !ok {
		if sel.Kind == model.ThemeKindPremium {
			return nil
		}
		t = c.Standard[0]
		sel.Kind = model.ThemeKindStandard
	}

	if sel.Kind == model.ThemeKindStandard {
		return model.StyleDeclaration{
			{Name: "--primary", Value: t.Colors.Primary},
			{Name: "--ring", Value: t.Colors.Ring},
			{Name: "--sidebar-primary", Value: t.Colors.Ring},
		}
	}

	col := t.Colors
	return model.StyleDeclaration{
		{Name: "--font-sans", Value: t.Fonts.Body},
		{Name: "--font-heading", Value: t.Fonts.Heading},
		{Name: "--background", Value: col.Background},
		{Name: "--foreground", Value: col.Foreground},
		{Name: "--primary", Value: col.Primary},
		{Name: "--card", Value: col.Card},
		{Name: "--popover", Value: col.Card},
		{Name: "--muted", Value: col.Muted},
		{Name: "--border", Value: col.Border},
		{Name: "--input", Value: col.Border},
		{Name: "--ring", Value: col.Primary},
		{Name: "--card-foreground", Value: col.Foreground},
		{Name: "--popover-foreground", Value: col.Foreground},
		{Name: "--sidebar-background", Value: col.Background},
		{Name: "--sidebar-foreground", Value: col.Foreground},
		{Name: "--sidebar-primary", Value: col.Primary},
		{Name: "--sidebar-border", Value: col.Border},
	}
}

// ThemeService persists the theme selection in the settings store.
type ThemeService struct {
	catalog  *ThemeCatalog
	settings driven.SettingsStore
}

// NewThemeService creates a new ThemeService.
func NewThemeService(catalog *ThemeCatalog, settings driven.SettingsStore) *ThemeService {
	return &ThemeService{catalog: catalog, settings: settings}
}

// Catalog returns the theme catalog.
func (s *ThemeService) Catalog() *ThemeCatalog {
	return s.catalog
}

// Current returns the saved selection, or the default when none is saved or
// the saved one no longer exists.
func (s *ThemeService) Current(ctx context.Context) (model.ThemeSelection, error) {
	raw, err := s.settings.Get(ctx, themeSettingKey)
	if err != nil {
		return s.catalog.Default(), fmt.Errorf("read theme setting: %w", err)
	}
	if raw == "" {
		return s.catalog.Default(), nil
	}

	var sel model.ThemeSelection
	if err := json.Unmarshal([]byte(raw), &sel); err != nil {
		return s.catalog.Default(), nil
	}
	if _, ok := s.catalog.Find(sel); !ok {
		def := s.catalog.Default()
		def.Dark = sel.Dark
		return def, nil
	}
	return sel, nil
}

// Select validates and saves a selection.
func (s *ThemeService) Select(ctx context.Context, sel model.ThemeSelection) error {
	if _, ok := s.catalog.Find(sel); !ok {
		return fmt.Errorf("select theme %s/%s: %w", sel.Kind, sel.ID, ErrUnknownTheme)
	}

	raw, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("marshal theme selection: %w", err)
	}
	if err := s.settings.Set(ctx, themeSettingKey, string(raw)); err != nil {
		return fmt.Errorf("save theme selection: %w", err)
	}
	return nil
}

// Style returns the current selection and its style declaration.
func (s *ThemeService) Style(ctx context.Context) (model.ThemeSelection, model.StyleDeclaration, error) {
	sel, err := s.Current(ctx)
	return sel, ThemeStyle(s.catalog, sel), err
}

package model

import "strings"

// ThemeSelection is the persisted choice of theme.
type ThemeSelection struct {
	Kind ThemeKind `json:"kind"`
	ID   string    `json:"id"`
	Dark bool      `json:"dark"`
}

// ThemeColors holds HSL colour tokens ("222 47% 31%").
type ThemeColors struct {
	Background string `yaml:"background"`
	Foreground string `yaml:"foreground"`
	Primary    string `yaml:"primary"`
	Ring       string `yaml:"ring"`
	Card       string `yaml:"card"`
	Muted      string `yaml:"muted"`
	Border     string `yaml:"border"`
}

// ThemeFonts holds CSS font-family values.
type ThemeFonts struct {
	Heading string `yaml:"heading"`
	Body    string `yaml:"body"`
}

// Theme is one entry of the theme catalog. Standard themes only carry
// Primary and Ring; premium themes carry a full palette and fonts.
type Theme struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Colors      ThemeColors `yaml:"colors"`
	Fonts       ThemeFonts  `yaml:"fonts"`
}

// StyleProperty is a single CSS custom property.
type StyleProperty struct {
	Name  string
	Value string
}

// StyleDeclaration is an ordered list of CSS custom properties for :root.
type StyleDeclaration []StyleProperty

// CSS renders the declaration as a :root rule.
func (d StyleDeclaration) CSS() string {
	if len(d) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(":root{")
	for _, p := range d {
		b.WriteString(p.Name)
		b.WriteByte(':')
		b.WriteString(p.Value)
		b.WriteByte(';')
	}
	b.WriteByte('}')
	return b.String()
}

package customer

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Theme controls how a public profile page is rendered
type Theme struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	PrimaryColor string `json:"primary_color"`
	AccentColor  string `json:"accent_color"`
	Background   string `json:"background"`
	Font         string `json:"font"`
	Layout       string `json:"layout"`
}

// DefaultThemeKey is used for unknown professions
const DefaultThemeKey = "classic"

var themes = map[string]Theme{
	"classic":   {Key: "classic", Name: "Classic", PrimaryColor: "#111827", AccentColor: "#2563EB", Background: "#FFFFFF", Font: "Inter", Layout: "centered"},
	"clinical":  {Key: "clinical", Name: "Clinical", PrimaryColor: "#0F766E", AccentColor: "#14B8A6", Background: "#F0FDFA", Font: "Inter", Layout: "centered"},
	"counsel":   {Key: "counsel", Name: "Counsel", PrimaryColor: "#1E293B", AccentColor: "#B45309", Background: "#F8FAFC", Font: "Merriweather", Layout: "left"},
	"estate":    {Key: "estate", Name: "Estate", PrimaryColor: "#14532D", AccentColor: "#CA8A04", Background: "#FEFCE8", Font: "Poppins", Layout: "hero"},
	"studio":    {Key: "studio", Name: "Studio", PrimaryColor: "#000000", AccentColor: "#F43F5E", Background: "#FAFAFA", Font: "Playfair Display", Layout: "gallery"},
	"terminal":  {Key: "terminal", Name: "Terminal", PrimaryColor: "#22C55E", AccentColor: "#A3E635", Background: "#0A0A0A", Font: "JetBrains Mono", Layout: "left"},
	"energetic": {Key: "energetic", Name: "Energetic", PrimaryColor: "#EA580C", AccentColor: "#FACC15", Background: "#FFF7ED", Font: "Montserrat", Layout: "hero"},
	"boutique":  {Key: "boutique", Name: "Boutique", PrimaryColor: "#831843", AccentColor: "#F9A8D4", Background: "#FDF2F8", Font: "Lora", Layout: "centered"},
}

// professionThemes maps a profession key to its theme
var professionThemes = map[string]string{
	"doctor":               "clinical",
	"dentist":              "clinical",
	"lawyer":               "counsel",
	"chartered_accountant": "counsel",
	"consultant":           "counsel",
	"real_estate":          "estate",
	"photographer":         "studio",
	"designer":             "studio",
	"architect":            "studio",
	"developer":            "terminal",
	"fitness_trainer":      "energetic",
	"chef":                 "energetic",
	"salon":                "boutique",
	"makeup_artist":        "boutique",
}

// NormalizeProfession turns "Real Estate" into "real_estate"
func NormalizeProfession(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	p = strings.NewReplacer(" ", "_", "-", "_").Replace(p)
	return p
}

// ThemeFor resolves the theme for a profession, falling back to the default theme
func ThemeFor(profession string) Theme {
	if key, ok := professionThemes[NormalizeProfession(profession)]; ok {
		return themes[key]
	}
	return themes[DefaultThemeKey]
}

// ThemeByKey returns a theme by key
func ThemeByKey(key string) (Theme, bool) {
	t, ok := themes[key]
	return t, ok
}

// Profession is an entry of the funnel's profession picker
type Profession struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
	Theme       Theme  `json:"theme"`
}

// Professions lists the known professions sorted by key
func Professions() []Profession {
	title := cases.Title(language.English)
	out := make([]Profession, 0, len(professionThemes))
	for key, theme := range professionThemes {
		out = append(out, Profession{
			Key:         key,
			DisplayName: title.String(strings.ReplaceAll(key, "_", " ")),
			Theme:       themes[theme],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

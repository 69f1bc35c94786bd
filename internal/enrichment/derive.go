package enrichment

import (
	"strings"

	"github.com/jonathan/smile-fortune/internal/pokeapi"
	"github.com/jonathan/smile-fortune/internal/types"
)

// DefaultLanguage is the PokeAPI language code used for names and flavor text.
const DefaultLanguage = "ja"

// flavorTextCleaner turns form feeds, newlines and carriage returns into spaces,
// one for one.
var flavorTextCleaner = strings.NewReplacer("\f", " ", "\n", " ", "\r", " ")

// Derive builds EntityAttributes from the two upstream resources.
func Derive(p *pokeapi.Pokemon, s *pokeapi.Species, lang string) types.EntityAttributes {
	if lang == "" {
		lang = DefaultLanguage
	}

	typeNames := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		typeNames = append(typeNames, t.Type.Name)
	}

	return types.EntityAttributes{
		ID:         p.ID,
		Name:       localizedName(p, s, lang),
		Image:      imageURL(p.Sprites),
		Types:      typeNames,
		Height:     float64(p.Height) / 10,
		Weight:     float64(p.Weight) / 10,
		FlavorText: flavorText(s, lang),
		Stats: types.CoreStats{
			HP:      baseStat(p.Stats, "hp"),
			Attack:  baseStat(p.Stats, "attack"),
			Defense: baseStat(p.Stats, "defense"),
			Speed:   baseStat(p.Stats, "speed"),
		},
	}
}

func localizedName(p *pokeapi.Pokemon, s *pokeapi.Species, lang string) string {
	if s != nil {
		for _, n := range s.Names {
			if n.Language.Name == lang && n.Name != "" {
				return n.Name
			}
		}
	}
	return p.Name
}

// imageURL prefers official artwork, then the HOME render, then the default sprite.
func imageURL(sp pokeapi.Sprites) string {
	if other := sp.Other; other != nil {
		if a := other.OfficialArtwork; a != nil && nonEmpty(a.FrontDefault) {
			return *a.FrontDefault
		}
		if a := other.Home; a != nil && nonEmpty(a.FrontDefault) {
			return *a.FrontDefault
		}
	}
	if nonEmpty(sp.FrontDefault) {
		return *sp.FrontDefault
	}
	return ""
}

func flavorText(s *pokeapi.Species, lang string) string {
	if s == nil {
		return ""
	}
	for _, e := range s.FlavorTextEntries {
		if e.Language.Name == lang {
			return flavorTextCleaner.Replace(e.FlavorText)
		}
	}
	return ""
}

func baseStat(stats []pokeapi.StatEntry, name string) int {
	for _, st := range stats {
		if st.Stat.Name == name {
			return st.BaseStat
		}
	}
	return 0
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}

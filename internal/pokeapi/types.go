// Package pokeapi is a read-only client for the public PokeAPI v2 REST API.
// Only the fields the enrichment step consumes are modeled.
package pokeapi

// NamedResource is PokeAPI's {name, url} reference.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Pokemon is the /pokemon/{id} resource.
type Pokemon struct {
	ID      int         `json:"id"`
	Name    string      `json:"name"`
	Height  int         `json:"height"` // decimeters
	Weight  int         `json:"weight"` // hectograms
	Sprites Sprites     `json:"sprites"`
	Types   []TypeSlot  `json:"types"`
	Stats   []StatEntry `json:"stats"`
}

// Sprites holds the image URLs; any of them may be null.
type Sprites struct {
	FrontDefault *string       `json:"front_default"`
	Other        *OtherSprites `json:"other"`
}

// OtherSprites holds the high-resolution artwork variants.
type OtherSprites struct {
	OfficialArtwork *Artwork `json:"official-artwork"`
	Home            *Artwork `json:"home"`
}

// Artwork is a single image variant.
type Artwork struct {
	FrontDefault *string `json:"front_default"`
}

// TypeSlot is one entry in a Pokemon's type list.
type TypeSlot struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// StatEntry is one base stat record.
type StatEntry struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     NamedResource `json:"stat"`
}

// Species is the /pokemon-species/{id} resource.
type Species struct {
	ID                int               `json:"id"`
	Name              string            `json:"name"`
	Names             []LocalizedName   `json:"names"`
	FlavorTextEntries []FlavorTextEntry `json:"flavor_text_entries"`
}

// LocalizedName is a species name in one language.
type LocalizedName struct {
	Name     string        `json:"name"`
	Language NamedResource `json:"language"`
}

// FlavorTextEntry is a Pokedex description in one language and game version.
type FlavorTextEntry struct {
	FlavorText string        `json:"flavor_text"`
	Language   NamedResource `json:"language"`
	Version    NamedResource `json:"version"`
}

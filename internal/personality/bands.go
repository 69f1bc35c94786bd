// Package personality maps a smile score onto one of ten personality bands and
// picks a candidate Pokemon from the matched band.
package personality

// Band is one personality bucket. A percentage p matches when Lower <= p < Upper;
// the top band also absorbs anything at or above its Upper bound.
type Band struct {
	Key         string   `json:"key"`
	Lower       float64  `json:"lower"`
	Upper       float64  `json:"upper"`
	Candidates  []string `json:"candidates"`
	Description string   `json:"description"`
}

// Contains reports whether the percentage falls inside [Lower, Upper).
func (b Band) Contains(pct float64) bool {
	return pct >= b.Lower && pct < b.Upper
}

// Band keys, highest threshold first.
const (
	KeyCheerful   = "CHEERFUL"
	KeyEnergetic  = "ENERGETIC"
	KeyFriendly   = "FRIENDLY"
	KeyPlayful    = "PLAYFUL"
	KeyGentle     = "GENTLE"
	KeyCalm       = "CALM"
	KeyProud      = "PROUD"
	KeyCool       = "COOL"
	KeyMysterious = "MYSTERIOUS"
	KeyPowerful   = "POWERFUL"
)

// defaultBands holds the Gen-1 roster split into ten bands, ordered by
// descending threshold. Candidates may repeat across bands.
var defaultBands = []Band{
	{
		Key: KeyCheerful, Lower: 90, Upper: 100,
		Candidates: []string{
			"pikachu", "raichu", "clefairy", "clefable", "jigglypuff", "wigglytuff",
			"chansey", "magikarp", "meowth", "persian", "psyduck", "golduck",
			"poliwag", "poliwhirl", "poliwrath", "farfetchd", "ditto",
			"butterfree", "pidgey", "pidgeotto", "eevee", "vaporeon", "jolteon",
			"flareon", "charmander", "squirtle", "bulbasaur", "oddish", "gloom",
			"bellsprout", "weepinbell", "victreebel", "ponyta", "rapidash",
		},
		Description: "陽気で人なつっこい性格のポケモン",
	},
	{
		Key: KeyEnergetic, Lower: 80, Upper: 90,
		Candidates: []string{
			"charmander", "charmeleon", "squirtle", "wartortle", "bulbasaur", "ivysaur",
			"pidgey", "pidgeotto", "spearow", "fearow", "mankey", "primeape",
			"growlithe", "ponyta", "rapidash", "tauros", "flareon", "jolteon",
			"sandshrew", "sandslash", "nidoran-m", "nidorino", "nidoran-f", "nidorina",
			"vulpix", "ninetales", "zubat", "golbat", "diglett", "dugtrio",
			"poliwag", "poliwhirl", "machop", "machoke", "geodude", "graveler",
		},
		Description: "活発で明るい性格のポケモン",
	},
	{
		Key: KeyFriendly, Lower: 70, Upper: 80,
		Candidates: []string{
			"butterfree", "vulpix", "ninetales", "oddish", "gloom", "vileplume",
			"bellsprout", "weepinbell", "victreebel", "slowpoke", "slowbro",
			"seel", "dewgong", "lickitung", "tangela", "horsea", "seadra",
			"pidgey", "pidgeotto", "pikachu", "clefairy", "jigglypuff",
			"meowth", "psyduck", "growlithe", "poliwag", "abra", "kadabra",
			"ponyta", "slowpoke", "magnemite", "farfetchd", "ditto", "eevee",
		},
		Description: "優しくて友好的な性格のポケモン",
	},
	{
		Key: KeyPlayful, Lower: 60, Upper: 70,
		Candidates: []string{
			"caterpie", "metapod", "weedle", "kakuna", "rattata", "raticate",
			"sandshrew", "sandslash", "diglett", "dugtrio", "venonat", "venomoth",
			"krabby", "kingler", "exeggcute", "cubone", "marowak", "staryu",
			"meowth", "psyduck", "mankey", "poliwag", "slowpoke", "magnemite",
			"voltorb", "electrode", "ditto", "eevee", "porygon", "magikarp",
			"jigglypuff", "clefairy", "paras", "venonat", "grimer", "krabby",
		},
		Description: "遊び好きでユーモアのある性格のポケモン",
	},
	{
		Key: KeyGentle, Lower: 50, Upper: 60,
		Candidates: []string{
			"nidoran-f", "nidorina", "nidoran-m", "nidorino", "paras", "parasect",
			"tentacool", "tentacruel", "grimer", "muk", "shellder", "cloyster",
			"drowzee", "hypno", "goldeen", "seaking", "starmie", "mr-mime",
			"oddish", "gloom", "vileplume", "bellsprout", "weepinbell",
			"slowpoke", "slowbro", "chansey", "tangela", "ditto", "porygon",
			"seel", "dewgong", "horsea", "seadra", "magikarp", "eevee",
		},
		Description: "おだやかで穏やかな性格のポケモン",
	},
	{
		Key: KeyCalm, Lower: 40, Upper: 50,
		Candidates: []string{
			"kadabra", "alakazam", "abra", "machop", "machoke", "geodude",
			"graveler", "golem", "magnemite", "magneton", "voltorb", "electrode",
			"porygon", "omanyte", "omastar", "kabuto", "kabutops", "starmie",
			"slowbro", "hypno", "chansey", "mr-mime", "scyther", "ditto",
			"vaporeon", "articuno", "mewtwo", "mew", "exeggutor", "tangela",
			"dewgong", "cloyster", "tentacruel", "golduck", "blastoise",
		},
		Description: "冷静で落ち着いた性格のポケモン",
	},
	{
		Key: KeyProud, Lower: 30, Upper: 40,
		Candidates: []string{
			"pidgeot", "arcanine", "gyarados", "vaporeon", "nidoqueen", "nidoking",
			"venusaur", "blastoise", "dragonair", "kangaskhan", "scyther",
			"pinsir", "dratini", "dragonite", "charizard", "ninetales",
			"rapidash", "persian", "golduck", "arbok", "sandslash", "fearow",
			"raichu", "clefable", "wigglytuff", "vileplume", "poliwrath",
			"alakazam", "machamp", "victreebel", "tentacruel", "starmie",
		},
		Description: "誇り高く気高い性格のポケモン",
	},
	{
		Key: KeyCool, Lower: 20, Upper: 30,
		Candidates: []string{
			"charizard", "beedrill", "ekans", "arbok", "rhydon", "electabuzz",
			"magmar", "jynx", "lapras", "aerodactyl", "snorlax", "hitmonlee",
			"hitmonchan", "rhyhorn", "scyther", "pinsir", "gyarados", "dragonair",
			"dragonite", "kabutops", "omastar", "sandslash", "nidoking",
			"nidoqueen", "arcanine", "alakazam", "machamp", "rapidash",
			"marowak", "starmie", "tauros", "vaporeon", "jolteon", "flareon",
		},
		Description: "クールでかっこいい性格のポケモン",
	},
	{
		Key: KeyMysterious, Lower: 10, Upper: 20,
		Candidates: []string{
			"gengar", "haunter", "gastly", "mew", "articuno", "zapdos",
			"moltres", "exeggutor", "starmie", "dewgong", "cloyster",
			"hypno", "kadabra", "alakazam", "mr-mime", "jynx", "porygon",
			"ditto", "dragonair", "dragonite", "mewtwo", "slowbro",
			"slowking", "golduck", "venomoth", "butterfree", "vileplume",
			"victreebel", "tentacruel", "clefable", "wigglytuff", "chansey",
		},
		Description: "神秘的で不思議な性格のポケモン",
	},
	{
		Key: KeyPowerful, Lower: 0, Upper: 10,
		Candidates: []string{
			"mewtwo", "machamp", "onix", "gyarados", "dragonite", "kabutops",
			"omastar", "aerodactyl", "snorlax", "rhydon", "nidoking",
			"charizard", "blastoise", "venusaur", "arcanine", "alakazam",
			"gengar", "tauros", "pinsir", "scyther", "electabuzz", "magmar",
			"lapras", "articuno", "zapdos", "moltres", "kangaskhan",
			"golem", "poliwrath", "sandslash", "cloyster", "mew",
		},
		Description: "強大な力を持つ威厳のある性格のポケモン",
	},
}

// Bands returns a copy of the built-in band table.
func Bands() []Band {
	out := make([]Band, len(defaultBands))
	for i, b := range defaultBands {
		b.Candidates = append([]string(nil), b.Candidates...)
		out[i] = b
	}
	return out
}

// Lookup finds a built-in band by key.
func Lookup(key string) (Band, bool) {
	for _, b := range defaultBands {
		if b.Key == key {
			return b, true
		}
	}
	return Band{}, false
}

// CandidateUniverse returns every distinct candidate id across the built-in table.
func CandidateUniverse() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, b := range defaultBands {
		for _, id := range b.Candidates {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

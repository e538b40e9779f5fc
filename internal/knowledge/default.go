package knowledge

import "fmt"

// DefaultDocument returns the built-in reference data. Callers get a fresh
// copy and may modify it.
func DefaultDocument() Document {
	return Document{
		Entities: []EntityDocument{
			{
				Name:          "BTS",
				Genres:        []string{"K-Pop", "Hip-Hop", "R&B"},
				Organization:  "HYBE",
				Collaborators: []string{"Halsey", "Ed Sheeran", "Steve Aoki"},
			},
			{
				Name:          "BLACKPINK",
				Genres:        []string{"K-Pop", "Pop", "EDM"},
				Organization:  "YG Entertainment",
				Collaborators: []string{"Dua Lipa", "Selena Gomez"},
			},
			{
				Name:         "NewJeans",
				Genres:       []string{"K-Pop", "Y2K", "R&B"},
				Organization: "HYBE",
			},
			{
				Name:          "IVE",
				Genres:        []string{"K-Pop", "Pop", "Dance"},
				Organization:  "Starship Entertainment",
				Collaborators: []string{"SEVENTEEN"},
			},
			{
				Name:         "aespa",
				Genres:       []string{"K-Pop", "Experimental", "Pop"},
				Organization: "SM Entertainment",
			},
		},
		Genres: map[string][]string{
			"K-Pop":   {"ITZY", "i-dle", "TWICE", "Red Velvet", "SEVENTEEN", "Stray Kids"},
			"Hip-Hop": {"MAMAMOO", "CL", "Jay Park"},
			"R&B":     {"IU", "Taeyeon", "Heize"},
			"Pop":     {"TWICE", "Red Velvet", "Girls' Generation"},
			"EDM":     {"ITZY", "i-dle"},
		},
		Organizations: map[string][]string{
			"HYBE":                   {"TXT", "ENHYPEN", "LE SSERAFIM", "FROMIS_9"},
			"YG Entertainment":       {"WINNER", "iKON", "TREASURE"},
			"SM Entertainment":       {"Red Velvet", "NCT", "Girls' Generation", "SHINee"},
			"Starship Entertainment": {"MONSTA X", "CRAVITY"},
		},
		Trending: map[string][]string{
			"albums":   {"LE SSERAFIM", "NMIXX", "KARD", "SEVENTEEN", "Stray Kids", "ATEEZ"},
			"concerts": {"i-dle", "ITZY", "EVERGLOW"},
			"merch":    {"TWICE", "Red Velvet", "MAMAMOO"},
		},
	}
}

// Default returns the knowledge base built from DefaultDocument.
// It panics if the built-in data is invalid.
func Default() *KnowledgeBase {
	kb, err := Build(DefaultDocument())
	if err != nil {
		panic(fmt.Sprintf("built-in knowledge base is invalid: %v", err))
	}
	return kb
}

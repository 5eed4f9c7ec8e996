package reconcile

import (
	"strings"
	"unicode"
)

// leagueDefaults are the attributes given to a league on first sighting.
type leagueDefaults struct {
	ShortName string
	Country   string
	Color     string
}

// knownLeagues is keyed by canonical league name.
var knownLeagues = map[string]leagueDefaults{
	"NBA":                         {ShortName: "NBA", Country: "USA", Color: "#1D428A"},
	"WNBA":                        {ShortName: "WNBA", Country: "USA", Color: "#FA4616"},
	"NCAA":                        {ShortName: "NCAA", Country: "USA", Color: "#005EB8"},
	"G League":                    {ShortName: "GL", Country: "USA", Color: "#C8102E"},
	"EuroLeague":                  {ShortName: "EL", Country: "Europe", Color: "#F56F1F"},
	"EuroCup":                     {ShortName: "EC", Country: "Europe", Color: "#0B3D91"},
	"Basketball Champions League": {ShortName: "BCL", Country: "Europe", Color: "#FFB81C"},
	"FIBA Europe Cup":             {ShortName: "FEC", Country: "Europe", Color: "#00A3E0"},
	"Betclic ELITE":               {ShortName: "BCE", Country: "France", Color: "#E4003A"},
	"ELITE 2":                     {ShortName: "EL2", Country: "France", Color: "#2E3192"},
	"LFB":                         {ShortName: "LFB", Country: "France", Color: "#7A1F5C"},
	"Coupe de France":             {ShortName: "CDF", Country: "France", Color: "#002395"},
	"Liga ACB":                    {ShortName: "ACB", Country: "Spain", Color: "#FF6600"},
	"Lega Basket Serie A":         {ShortName: "LBA", Country: "Italy", Color: "#009246"},
	"Basketball Bundesliga":       {ShortName: "BBL", Country: "Germany", Color: "#000000"},
	"FIBA World Cup":              {ShortName: "WC", Country: "International", Color: "#0057B8"},
	"Olympics":                    {ShortName: "OLY", Country: "International", Color: "#0081C8"},
}

// defaultsForLeague returns the known defaults of a league, or a short name
// derived from its first letters.
func defaultsForLeague(name string) leagueDefaults {
	if d, ok := knownLeagues[name]; ok {
		return d
	}
	return leagueDefaults{ShortName: shortNameFallback(name)}
}

// shortNameFallback returns the first three letters or digits of name, uppercased.
func shortNameFallback(name string) string {
	var b strings.Builder
	n := 0
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		n++
		if n == 3 {
			break
		}
	}
	return b.String()
}

// Package directory holds the static league team directory: the set of
// active franchise codes, their display names and logo asset locations.
package directory

import "fmt"

const logoURLFormat = "https://assets.nhle.com/logos/nhl/svg/%s_light.svg"

// Team describes a single franchise.
type Team struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	LogoURL  string `json:"logo_url"`
	Division string `json:"division"`
}

var teams = []Team{
	{Code: "ANA", Name: "Anaheim Ducks", Division: "Pacific"},
	{Code: "BOS", Name: "Boston Bruins", Division: "Atlantic"},
	{Code: "BUF", Name: "Buffalo Sabres", Division: "Atlantic"},
	{Code: "CAR", Name: "Carolina Hurricanes", Division: "Metropolitan"},
	{Code: "CBJ", Name: "Columbus Blue Jackets", Division: "Metropolitan"},
	{Code: "CGY", Name: "Calgary Flames", Division: "Pacific"},
	{Code: "CHI", Name: "Chicago Blackhawks", Division: "Central"},
	{Code: "COL", Name: "Colorado Avalanche", Division: "Central"},
	{Code: "DAL", Name: "Dallas Stars", Division: "Central"},
	{Code: "DET", Name: "Detroit Red Wings", Division: "Atlantic"},
	{Code: "EDM", Name: "Edmonton Oilers", Division: "Pacific"},
	{Code: "FLA", Name: "Florida Panthers", Division: "Atlantic"},
	{Code: "LAK", Name: "Los Angeles Kings", Division: "Pacific"},
	{Code: "MIN", Name: "Minnesota Wild", Division: "Central"},
	{Code: "MTL", Name: "Montreal Canadiens", Division: "Atlantic"},
	{Code: "NJD", Name: "New Jersey Devils", Division: "Metropolitan"},
	{Code: "NSH", Name: "Nashville Predators", Division: "Central"},
	{Code: "NYI", Name: "New York Islanders", Division: "Metropolitan"},
	{Code: "NYR", Name: "New York Rangers", Division: "Metropolitan"},
	{Code: "OTT", Name: "Ottawa Senators", Division: "Atlantic"},
	{Code: "PHI", Name: "Philadelphia Flyers", Division: "Metropolitan"},
	{Code: "PIT", Name: "Pittsburgh Penguins", Division: "Metropolitan"},
	{Code: "SEA", Name: "Seattle Kraken", Division: "Pacific"},
	{Code: "SJS", Name: "San Jose Sharks", Division: "Pacific"},
	{Code: "STL", Name: "St. Louis Blues", Division: "Central"},
	{Code: "TBL", Name: "Tampa Bay Lightning", Division: "Atlantic"},
	{Code: "TOR", Name: "Toronto Maple Leafs", Division: "Atlantic"},
	{Code: "UTA", Name: "Utah Mammoth", Division: "Central"},
	{Code: "VAN", Name: "Vancouver Canucks", Division: "Pacific"},
	{Code: "VGK", Name: "Vegas Golden Knights", Division: "Pacific"},
	{Code: "WPG", Name: "Winnipeg Jets", Division: "Central"},
	{Code: "WSH", Name: "Washington Capitals", Division: "Metropolitan"},
}

var byCode map[string]Team

func init() {
	byCode = make(map[string]Team, len(teams))
	for i := range teams {
		teams[i].LogoURL = fmt.Sprintf(logoURLFormat, teams[i].Code)
		byCode[teams[i].Code] = teams[i]
	}
}

// All returns every franchise in the directory, ordered by code.
func All() []Team {
	out := make([]Team, len(teams))
	copy(out, teams)
	return out
}

// Codes returns the franchise codes in directory order.
func Codes() []string {
	out := make([]string, len(teams))
	for i, t := range teams {
		out[i] = t.Code
	}
	return out
}

// Lookup resolves a franchise code.
func Lookup(code string) (Team, error) {
	t, ok := byCode[code]
	if !ok {
		return Team{}, fmt.Errorf("%w: %q", ErrUnknownTeam, code)
	}
	return t, nil
}

// Name returns the display name for a code, or the code itself when the
// team is not in the directory.
func Name(code string) string {
	if t, ok := byCode[code]; ok {
		return t.Name
	}
	return code
}

// LogoURL returns the logo asset location for a code.
func LogoURL(code string) string {
	if t, ok := byCode[code]; ok {
		return t.LogoURL
	}
	return fmt.Sprintf(logoURLFormat, code)
}

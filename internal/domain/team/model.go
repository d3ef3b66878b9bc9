package team

import "strings"

// Club is one of the AFL clubs known to the registry.
type Club struct {
	Code     string
	Name     string
	Nickname string
	Aliases  []string
}

var clubs = []Club{
	{Code: "ADEL", Name: "Adelaide Crows", Nickname: "Crows", Aliases: []string{"Adelaide", "AD", "ADE"}},
	{Code: "BL", Name: "Brisbane Lions", Nickname: "Lions", Aliases: []string{"Brisbane", "BRIS", "BRL", "Brisbane Bears"}},
	{Code: "CARL", Name: "Carlton", Nickname: "Blues", Aliases: []string{"CA", "CAR"}},
	{Code: "COLL", Name: "Collingwood", Nickname: "Magpies", Aliases: []string{"CW", "COL"}},
	{Code: "ESS", Name: "Essendon", Nickname: "Bombers", Aliases: []string{"ES"}},
	{Code: "FRE", Name: "Fremantle", Nickname: "Dockers", Aliases: []string{"FR"}},
	{Code: "GEEL", Name: "Geelong Cats", Nickname: "Cats", Aliases: []string{"Geelong", "GE", "GEE"}},
	{Code: "GCFC", Name: "Gold Coast SUNS", Nickname: "Suns", Aliases: []string{"Gold Coast", "GC", "GCS"}},
	{Code: "GWS", Name: "GWS GIANTS", Nickname: "Giants", Aliases: []string{"Greater Western Sydney", "GW"}},
	{Code: "HAW", Name: "Hawthorn", Nickname: "Hawks", Aliases: []string{"HW"}},
	{Code: "MELB", Name: "Melbourne", Nickname: "Demons", Aliases: []string{"ME", "MEL"}},
	{Code: "NMFC", Name: "North Melbourne", Nickname: "Kangaroos", Aliases: []string{"North", "NM", "NTH"}},
	{Code: "PORT", Name: "Port Adelaide", Nickname: "Power", Aliases: []string{"PA", "PTA"}},
	{Code: "RICH", Name: "Richmond", Nickname: "Tigers", Aliases: []string{"RI", "RIC"}},
	{Code: "STK", Name: "St Kilda", Nickname: "Saints", Aliases: []string{"St. Kilda", "SK"}},
	{Code: "SYD", Name: "Sydney Swans", Nickname: "Swans", Aliases: []string{"Sydney", "SY", "South Melbourne"}},
	{Code: "WCE", Name: "West Coast Eagles", Nickname: "Eagles", Aliases: []string{"West Coast", "WC"}},
	{Code: "WB", Name: "Western Bulldogs", Nickname: "Bulldogs", Aliases: []string{"Footscray", "WBD"}},
}

var index = buildIndex()

func buildIndex() map[string]Club {
	out := make(map[string]Club, len(clubs)*5)
	for _, c := range clubs {
		out[foldKey(c.Code)] = c
		out[foldKey(c.Name)] = c
		out[foldKey(c.Nickname)] = c
		for _, alias := range c.Aliases {
			out[foldKey(alias)] = c
		}
	}
	return out
}

func foldKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Lookup resolves a club code, official name, nickname or alias.
func Lookup(name string) (Club, bool) {
	c, ok := index[foldKey(name)]
	return c, ok
}

// Canonical returns the official club name for any known spelling.
// Unknown names are returned trimmed with inner whitespace collapsed.
func Canonical(name string) string {
	if c, ok := Lookup(name); ok {
		return c.Name
	}
	return strings.Join(strings.Fields(name), " ")
}

// IsNickname reports whether s is exactly a club nickname, as used on
// SuperCoach price pages.
func IsNickname(s string) bool {
	c, ok := index[foldKey(s)]
	return ok && strings.EqualFold(c.Nickname, strings.TrimSpace(s))
}

// Same reports whether two team spellings refer to the same club.
func Same(a, b string) bool {
	return strings.EqualFold(Canonical(a), Canonical(b))
}

// All returns the registry in code order.
func All() []Club {
	out := make([]Club, len(clubs))
	copy(out, clubs)
	return out
}

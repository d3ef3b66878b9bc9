package player

import "strings"

var firstNameVariants = map[string][]string{
	"thomas":      {"tom"},
	"tom":         {"thomas"},
	"timothy":     {"tim"},
	"tim":         {"timothy"},
	"nicholas":    {"nick"},
	"nic":         {"nick"},
	"nick":        {"nicholas", "nic"},
	"joshua":      {"josh"},
	"josh":        {"joshua"},
	"oliver":      {"ollie"},
	"ollie":       {"oliver"},
	"cameron":     {"cam"},
	"cam":         {"cameron"},
	"zachary":     {"zac", "zach"},
	"zac":         {"zachary"},
	"zach":        {"zachary"},
	"mitchell":    {"mitch"},
	"mitchito":    {"mitch"},
	"mitch":       {"mitchell", "mitchito"},
	"jackson":     {"jack"},
	"anthony":     {"tony"},
	"william":     {"will"},
	"christopher": {"chris"},
	"benjamin":    {"ben"},
	"matthew":     {"matt"},
	"jonathan":    {"jon"},
	"alexander":   {"alex"},
	"michael":     {"mick"},
	"bradley":     {"brad"},
	"brad":        {"bradley"},
	"samuel":      {"sam"},
	"sam":         {"samuel"},
	"dominic":     {"dom"},
	"nikolas":     {"nik"},
	"nik":         {"nikolas"},
	"joseph":      {"joe"},
	"joe":         {"joseph"},
	"daniel":      {"dan"},
	"dan":         {"daniel"},
}

// NameVariants returns alternative normalized spellings of a full name,
// swapping common first-name short forms. The input itself is not included.
func NameVariants(fullName string) []string {
	parts := strings.Fields(NormalizeName(fullName))
	if len(parts) < 2 {
		return nil
	}

	rest := strings.Join(parts[1:], " ")
	out := make([]string, 0, len(firstNameVariants[parts[0]]))
	for _, alt := range firstNameVariants[parts[0]] {
		out = append(out, alt+" "+rest)
	}

	return out
}

package rules

import "sort"

// Catalog holds every shared rule by the key of the holiday it produces.
var Catalog = map[string]Rule{
	"newYearsDay":             NewYearsDay,
	"newYearsEve":             NewYearsEve,
	"internationalWorkersDay": InternationalWorkersDay,
	"easter":                  Easter,
	"maundyThursday":          MaundyThursday,
	"goodFriday":              GoodFriday,
	"holySaturday":            HolySaturday,
	"easterMonday":            EasterMonday,
	"ascensionDay":            AscensionDay,
	"pentecost":               Pentecost,
	"pentecostMonday":         PentecostMonday,
	"corpusChristi":           CorpusChristi,
	"stPeterPaulsDay":         StPeterPaul,
	"assumptionOfMary":        AssumptionOfMary,
	"allSaintsDay":            AllSaintsDay,
	"immaculateConception":    ImmaculateConception,
	"christmasEve":            ChristmasEve,
	"christmasDay":            ChristmasDay,
	"secondChristmasDay":      SecondChristmasDay,
}

// Lookup returns the shared rule for key.
func Lookup(key string) (Rule, bool) {
	r, ok := Catalog[key]
	return r, ok
}

// Keys returns the catalog keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(Catalog))
	for k := range Catalog {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

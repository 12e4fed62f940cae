package crawler

// MainCategory pairs a faction name with its category listing path.
type MainCategory struct {
	Name string
	Path string
}

// MainCategories returns the main faction category listings, in the order
// they are crawled.
func MainCategories() []MainCategory {
	return []MainCategory{
		{"Space Marines", "/wiki/Category:Space_Marines"},
		{"Chaos", "/wiki/Category:Chaos"},
		{"Eldar", "/wiki/Category:Eldar"},
		{"Orks", "/wiki/Category:Orks"},
		{"Tau", "/wiki/Category:Tau"},
		{"Imperial Guard", "/wiki/Category:Imperial_Guard"},
		{"Adeptus Mechanicus", "/wiki/Category:Adeptus_Mechanicus"},
		{"Inquisition", "/wiki/Category:Inquisition"},
	}
}

// KeyPages returns the seed articles for an initial knowledge-base
// collection.
func KeyPages() []string {
	return []string{
		"https://wh40k.lexicanum.com/wiki/Space_Marines",
		"https://wh40k.lexicanum.com/wiki/Chaos_Space_Marines",
		"https://wh40k.lexicanum.com/wiki/Eldar",
		"https://wh40k.lexicanum.com/wiki/Orks",
		"https://wh40k.lexicanum.com/wiki/Tau_Empire",
		"https://wh40k.lexicanum.com/wiki/Imperial_Guard",
		"https://wh40k.lexicanum.com/wiki/Adeptus_Mechanicus",
		"https://wh40k.lexicanum.com/wiki/Inquisition",
		"https://wh40k.lexicanum.com/wiki/Emperor_of_Mankind",
		"https://wh40k.lexicanum.com/wiki/Horus_Heresy",
		"https://wh40k.lexicanum.com/wiki/Primarch",
		"https://wh40k.lexicanum.com/wiki/Warp",
		"https://wh40k.lexicanum.com/wiki/Psyker",
		"https://wh40k.lexicanum.com/wiki/Astartes",
		"https://wh40k.lexicanum.com/wiki/Chapter",
		"https://wh40k.lexicanum.com/wiki/Legion",
		"https://wh40k.lexicanum.com/wiki/Titan",
		"https://wh40k.lexicanum.com/wiki/Knight",
		"https://wh40k.lexicanum.com/wiki/Dreadnought",
		"https://wh40k.lexicanum.com/wiki/Terminator_Armour",
	}
}

package usecase

// CompetitionTarget names one competition the graph builder should walk. A
// zero CompetitionID means the target is resolved against the provider
// catalogue by name, then by alias, then fuzzily.
type CompetitionTarget struct {
	Name          string
	Category      string
	CompetitionID int64
	Aliases       []string
	MaxSeasons    int
	SeasonLabels  []string
}

const (
	categoryLeague = "league"
	categoryCup    = "cup"
)

// DefaultSeasonLabels is the season coverage a tracked competition gets when
// its ingestion config lists no explicit seasons, newest first.
var DefaultSeasonLabels = []string{"2025/2026", "2024/2025", "2023/2024", "2022/2023"}

// priorityTargets seeds automatic competition selection. Aliases cover the
// country-prefixed and sponsor spellings the catalogue has shipped under.
var priorityTargets = []CompetitionTarget{
	{Name: "Premier League", Category: categoryLeague, Aliases: []string{"england premier league"}, MaxSeasons: 4},
	{Name: "La Liga", Category: categoryLeague, Aliases: []string{"laliga", "la liga santander"}, MaxSeasons: 4},
	{Name: "Bundesliga", Category: categoryLeague, Aliases: []string{"germany bundesliga"}, MaxSeasons: 4},
	{Name: "Serie A", Category: categoryLeague, Aliases: []string{"italy serie a"}, MaxSeasons: 4},
	{Name: "Ligue 1", Category: categoryLeague, Aliases: []string{"france ligue 1"}, MaxSeasons: 4},
	{Name: "Eredivisie", Category: categoryLeague, Aliases: []string{"netherlands eredivisie"}, MaxSeasons: 3},
	{Name: "Primeira Liga", Category: categoryLeague, Aliases: []string{"portugal primeira liga", "liga portugal"}, MaxSeasons: 3},
	{Name: "Jupiler Pro League", Category: categoryLeague, Aliases: []string{"belgium pro league", "belgian pro league"}, MaxSeasons: 3},
	{Name: "Championship", Category: categoryLeague, Aliases: []string{"efl championship", "english championship"}, MaxSeasons: 3},
	{Name: "Major League Soccer", Category: categoryLeague, Aliases: []string{"mls"}, MaxSeasons: 3},
	{Name: "UEFA Champions League", Category: categoryCup, Aliases: []string{"champions league"}, MaxSeasons: 3},
	{Name: "UEFA Europa League", Category: categoryCup, Aliases: []string{"europa league"}, MaxSeasons: 3},
	{Name: "UEFA Europa Conference League", Category: categoryCup, Aliases: []string{"europa conference league"}, MaxSeasons: 3},
	{Name: "EFL Cup", Category: categoryCup, Aliases: []string{"carabao cup", "english league cup", "football league cup"}, MaxSeasons: 2},
}

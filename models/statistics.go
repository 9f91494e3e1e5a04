package models

// DTO статистики турнира, отдаются сервисом как есть.

type TournamentStatistics struct {
	Basic       BasicStats       `json:"basic"`
	Results     ResultStats      `json:"results"`
	Performance PerformanceStats `json:"performance"`
	Rounds      []RoundStats     `json:"rounds"`
}

type BasicStats struct {
	Name            string  `json:"name"`
	Participants    int     `json:"participants"`
	RoundsScheduled int     `json:"rounds_scheduled"`
	RoundsPlayed    int     `json:"rounds_played"`
	TotalMatches    int     `json:"total_matches"`
	FinishedMatches int     `json:"finished_matches"`
	CompletionRate  float64 `json:"completion_rate"`
	Status          string  `json:"status"`
}

type ResultStats struct {
	FinishedMatches int     `json:"finished_matches"`
	DecisiveGames   int     `json:"decisive_games"`
	Draws           int     `json:"draws"`
	DrawRate        float64 `json:"draw_rate"`
	DecisiveRate    float64 `json:"decisive_rate"`
}

type PerformanceStats struct {
	AverageScore float64        `json:"average_score"`
	HighestScore float64        `json:"highest_score"`
	LowestScore  float64        `json:"lowest_score"`
	ScoreSpread  float64        `json:"score_spread"`
	LeadersCount int            `json:"leaders_count"`
	Distribution map[string]int `json:"distribution"`
}

type RoundStats struct {
	Ordinal         int     `json:"ordinal"`
	Name            string  `json:"name"`
	TieBreak        bool    `json:"tie_break"`
	Matches         int     `json:"matches"`
	FinishedMatches int     `json:"finished_matches"`
	CompletionRate  float64 `json:"completion_rate"`
	Wins            int     `json:"wins"`
	Draws           int     `json:"draws"`
	DurationMinutes float64 `json:"duration_minutes"`
	Closed          bool    `json:"closed"`
}

// TieBreakStatus — сводка по равенству на первом месте.
type TieBreakStatus struct {
	Needed  bool     `json:"needed"`
	Tied    []string `json:"tied,omitempty"`
	CanPair bool     `json:"can_pair"`
}

package domain

// AuthoredScore is an editorially supplied score for one product on one criterion
type AuthoredScore struct {
	ProductID     string `json:"productId" validate:"required"`
	Criterion     string `json:"criterion" validate:"required"`
	Score         int    `json:"score" validate:"gte=0,lte=100"`
	Justification string `json:"justification"`
}

// RankedEntry is one row of a criterion leaderboard
type RankedEntry struct {
	Position      int    `json:"position"`
	ProductID     string `json:"productId"`
	Score         int    `json:"score"`
	Justification string `json:"justification"`
}

// OverallStanding is a product's combined placement across all criteria
type OverallStanding struct {
	ProductID string         `json:"productId"`
	RankSum   int            `json:"rankSum"`
	Positions map[string]int `json:"positions"`
}

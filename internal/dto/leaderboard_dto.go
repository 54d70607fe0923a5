package dto

// LeaderboardEntry is one row of a leaderboard page. Rank is dense and
// 1-based within its partition.
type LeaderboardEntry struct {
	UserID    string  `json:"user_id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Headline  *string `json:"headline,omitempty"`
	Score     int     `json:"score"`
	Rank      int     `json:"rank"`
}

// UserRanks groups a single user's rows across every partition they appear in.
type UserRanks struct {
	General   *RankedScore  `json:"general,omitempty"`
	TechStack []RankedScore `json:"tech_stack,omitempty"`
	Domain    []RankedScore `json:"domain,omitempty"`
}

type RankedScore struct {
	Partition string `json:"partition"`
	Score     int    `json:"score"`
	Rank      int    `json:"rank"`
}

package models

import "time"

// RankingEntry is one row of the rankings table. ID, CreatedAt and
// UpdatedAt are assigned by the database; inserts go through RankingRow.
type RankingEntry struct {
	ID         int64     `json:"id"`
	PlayerName string    `json:"player_name"`
	Score      int       `json:"score"`
	Accuracy   float64   `json:"accuracy"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (e RankingEntry) CreatedTime() time.Time { return e.CreatedAt }
func (e RankingEntry) UpdatedTime() time.Time { return e.UpdatedAt }

// RankingRow is the insert payload: only the columns the client owns.
type RankingRow struct {
	PlayerName string  `json:"player_name"`
	Score      int     `json:"score"`
	Accuracy   float64 `json:"accuracy"`
}

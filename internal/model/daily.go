package model

import "time"

// DailyQuiz is the one quiz authored per day key. CorrectIndex is never
// serialized; members only ever see the public projection.
type DailyQuiz struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DayKey       string    `gorm:"size:10;uniqueIndex;not null" json:"day_key"`
	Question     string    `gorm:"type:text;not null" json:"question"`
	Options      []string  `gorm:"serializer:json;not null" json:"options"`
	CorrectIndex int       `gorm:"not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// QuizPublic is the member-facing view of a DailyQuiz.
type QuizPublic struct {
	DayKey   string   `json:"day_key"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

func (q *DailyQuiz) Public() QuizPublic {
	return QuizPublic{
		DayKey:   q.DayKey,
		Question: q.Question,
		Options:  q.Options,
	}
}

// DailyVerse caches one fetched verse per day key.
type DailyVerse struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DayKey    string    `gorm:"size:10;uniqueIndex;not null" json:"day_key"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Reference string    `gorm:"size:100" json:"reference"`
	Version   string    `gorm:"size:50" json:"version"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

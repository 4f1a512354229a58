package models

import (
	"hash/fnv"
	"strconv"
	"time"
)

type Question struct {
	ID                 string   `bson:"id,omitempty" json:"id,omitempty"`
	Text               string   `bson:"text" json:"text"`
	Options            []string `bson:"options" json:"options"`
	CorrectOptionIndex int      `bson:"correct_option_index" json:"correct_option_index"`
}

// Key returns the identifier answers are keyed by. Questions stored without
// an explicit id fall back to a hash of their text, so answer keys keep
// matching as long as the text itself is unchanged.
func (q Question) Key() string {
	if q.ID != "" {
		return q.ID
	}
	h := fnv.New32a()
	h.Write([]byte(q.Text))
	return strconv.FormatUint(uint64(h.Sum32()), 10)
}

type Quiz struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description" json:"description"`
	Category    string     `bson:"category" json:"category"`
	CreatorID   string     `bson:"creator_id" json:"creator_id"`
	Questions   []Question `bson:"questions" json:"questions"`
	TimeLimit   int        `bson:"time_limit" json:"time_limit"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

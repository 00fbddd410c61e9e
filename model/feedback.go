package model

import "time"

// Feedback content kinds a vote may reference.
const (
	FeedbackNews    = "news"
	FeedbackInsight = "insight"
	FeedbackMeme    = "meme"
	FeedbackPrice   = "price"
)

// ValidFeedbackTypes lists the content kinds a vote may reference.
var ValidFeedbackTypes = []string{FeedbackNews, FeedbackInsight, FeedbackMeme, FeedbackPrice}

// Feedback records a thumbs up/down vote on one piece of dashboard content.
// At most one row exists per (user, content type, content hash); repeat votes
// overwrite the vote and timestamp.
type Feedback struct {
	ID          int64     `gorm:"primaryKey" json:"-"`
	UserID      int64     `gorm:"uniqueIndex:idx_user_content;not null" json:"-"`
	ContentType string    `gorm:"uniqueIndex:idx_user_content;size:16;not null" json:"content_type"`
	ContentHash string    `gorm:"uniqueIndex:idx_user_content;size:64;not null" json:"content_hash"`
	Vote        int       `gorm:"not null" json:"vote"`
	Timestamp   time.Time `json:"timestamp"`
}

// IsValidFeedbackType reports whether ct is a votable content kind.
func IsValidFeedbackType(ct string) bool {
	for _, v := range ValidFeedbackTypes {
		if ct == v {
			return true
		}
	}
	return false
}

// IsValidVote reports whether v is a thumbs up (+1) or thumbs down (-1).
func IsValidVote(v int) bool {
	return v == 1 || v == -1
}

package models

import "time"

// Like references the user who liked a post.
type Like struct {
	User string `json:"user"`
}

// Post is a feed entry. Name and Avatar are a snapshot of the author taken
// at creation and are never refreshed.
type Post struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Likes     []Like    `json:"likes"`
	CreatedAt time.Time `json:"date"`
}

// LikedBy reports whether userID is among the post's likes.
func (p *Post) LikedBy(userID string) bool {
	for _, l := range p.Likes {
		if l.User == userID {
			return true
		}
	}
	return false
}

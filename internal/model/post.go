package model

import "time"

type PostID string

const MaxPostContentLength = 200

type CreatePostParams struct {
	Content string `json:"content"`
}

// Author is a snapshot of the posting identity taken at creation time. It
// does not track later username changes.
type Author struct {
	UserID   UserID `db:"userid" json:"userId"`
	Username string `db:"username" json:"username"`
}

type Post struct {
	ID        PostID    `db:"ID" json:"id"`
	CreatedAt time.Time `db:"CreatedAt" json:"createdAt"`
	UpdatedAt time.Time `db:"UpdatedAt" json:"updatedAt"`
	Content   string    `db:"Content" json:"content"`
	Author    Author    `db:"author" json:"author"`
}

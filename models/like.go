package models

// Like is a (userId, postId) membership record. At most one may exist per
// pair; the store itself does not enforce this, the engagement package does.
type Like struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	PostID string `json:"postId"`
}

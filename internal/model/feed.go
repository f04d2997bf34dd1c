package model

// Post is a community feed post.
type Post struct {
	Username string   `json:"username"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
}

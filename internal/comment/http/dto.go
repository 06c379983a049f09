package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/comment"
)

type CommentResponse struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"item_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewCommentResponse(c *comment.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		ItemID:     c.ItemID,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		Text:       c.Text,
		CreatedAt:  c.CreatedAt,
	}
}

// NewCommentResponses never returns nil so lists encode as [].
func NewCommentResponses(comments []*comment.Comment) []CommentResponse {
	resp := make([]CommentResponse, len(comments))
	for i, c := range comments {
		resp[i] = NewCommentResponse(c)
	}
	return resp
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

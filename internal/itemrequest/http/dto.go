package http

import (
	"time"

	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

type RequestResponse struct {
	ID          string                  `json:"id"`
	RequesterID string                  `json:"requester_id"`
	Description string                  `json:"description"`
	CreatedAt   time.Time               `json:"created_at"`
	Items       []itemHttp.ItemResponse `json:"items"`
}

func NewRequestResponse(r *itemrequest.ItemRequest) RequestResponse {
	return RequestResponse{
		ID:          r.ID,
		RequesterID: r.RequesterID,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		Items:       itemHttp.NewItemResponses(r.Items),
	}
}

type CreateRequestRequest struct {
	Description string `json:"description" binding:"required"`
}

type ListRequestsRequest struct {
	request.ListParams
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ComplaintCreateRequest is the payload for filing a complaint. The photo
// travels base64-encoded with its file extension.
type ComplaintCreateRequest struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	EncodedPhoto string          `json:"encoded_photo"`
	Extension    string          `json:"extension"`
}

// ComplaintResponse is the public representation of a complaint.
type ComplaintResponse struct {
	ID           string                 `json:"id"`
	ComplainerID string                 `json:"complainer_id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Amount       decimal.Decimal        `json:"amount"`
	PhotoURL     string                 `json:"photo_url"`
	Status       domain.ComplaintStatus `json:"status"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// NewComplaintResponse maps a domain complaint.
func NewComplaintResponse(c *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:           c.ID,
		ComplainerID: c.ComplainerID,
		Title:        c.Title,
		Description:  c.Description,
		Amount:       c.Amount,
		PhotoURL:     c.PhotoURL,
		Status:       c.Status,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// NewComplaintListResponse maps a slice of domain complaints.
func NewComplaintListResponse(complaints []domain.Complaint) []ComplaintResponse {
	out := make([]ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		out = append(out, NewComplaintResponse(&complaints[i]))
	}
	return out
}

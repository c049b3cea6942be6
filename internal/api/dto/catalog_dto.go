package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// CatalogRegisterRequest is the payload for catalog account creation.
type CatalogRegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// CatalogLoginRequest is the payload for catalog authentication.
type CatalogLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CatalogUserResponse is the public representation of a catalog account.
type CatalogUserResponse struct {
	ID        string             `json:"id"`
	Email     string             `json:"email"`
	FullName  string             `json:"full_name"`
	Phone     string             `json:"phone,omitempty"`
	Role      domain.CatalogRole `json:"role"`
	CreatedAt time.Time          `json:"created_at"`
}

// NewCatalogUserResponse maps a catalog user.
func NewCatalogUserResponse(user *domain.CatalogUser) CatalogUserResponse {
	return CatalogUserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Phone:     user.Phone,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// ClothingCreateRequest is the payload for adding a catalog entry.
type ClothingCreateRequest struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Size     string `json:"size"`
	PhotoURL string `json:"photo_url"`
}

// ClothingResponse is the public representation of a catalog entry.
type ClothingResponse struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Color     domain.ClothingColor `json:"color"`
	Size      domain.ClothingSize  `json:"size"`
	PhotoURL  string               `json:"photo_url,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// NewClothingResponse maps a catalog entry.
func NewClothingResponse(item *domain.ClothingItem) ClothingResponse {
	return ClothingResponse{
		ID:        item.ID,
		Name:      item.Name,
		Color:     item.Color,
		Size:      item.Size,
		PhotoURL:  item.PhotoURL,
		CreatedAt: item.CreatedAt,
	}
}

// NewClothingListResponse maps a slice of catalog entries.
func NewClothingListResponse(items []domain.ClothingItem) []ClothingResponse {
	out := make([]ClothingResponse, 0, len(items))
	for i := range items {
		out = append(out, NewClothingResponse(&items[i]))
	}
	return out
}

package domain

import "time"

// CatalogRole enumerates roles for the clothing-catalog module, which
// keeps its own account table separate from complaint-system users.
type CatalogRole string

const (
	CatalogRoleUser       CatalogRole = "USER"
	CatalogRoleAdmin      CatalogRole = "ADMIN"
	CatalogRoleSuperAdmin CatalogRole = "SUPER_ADMIN"
)

// CanManageItems reports whether the role may create catalog entries.
func (r CatalogRole) CanManageItems() bool {
	return r == CatalogRoleAdmin || r == CatalogRoleSuperAdmin
}

// CatalogUser is an account in the clothing-catalog module.
type CatalogUser struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	Role         CatalogRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ClothingColor enumerates supported item colors.
type ClothingColor string

const (
	ColorPink   ClothingColor = "pink"
	ColorBlack  ClothingColor = "black"
	ColorWhite  ClothingColor = "white"
	ColorYellow ClothingColor = "yellow"
)

// Valid reports whether the color is supported.
func (c ClothingColor) Valid() bool {
	switch c {
	case ColorPink, ColorBlack, ColorWhite, ColorYellow:
		return true
	}
	return false
}

// ClothingSize enumerates supported item sizes.
type ClothingSize string

const (
	SizeXS  ClothingSize = "xs"
	SizeS   ClothingSize = "s"
	SizeM   ClothingSize = "m"
	SizeL   ClothingSize = "l"
	SizeXL  ClothingSize = "xl"
	SizeXXL ClothingSize = "xxl"
)

// Valid reports whether the size is supported.
func (s ClothingSize) Valid() bool {
	switch s {
	case SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL:
		return true
	}
	return false
}

// ClothingItem is a catalog entry. Names are unique across the catalog.
type ClothingItem struct {
	ID        string
	Name      string
	Color     ClothingColor
	Size      ClothingSize
	PhotoURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

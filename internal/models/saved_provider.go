package models

import "time"

// Saved-provider categories form a closed set.
const (
	CategoryFavorites     = "Favorites"
	CategoryToContact     = "To Contact"
	CategoryCurrentlySeen = "Currently Seeing"
	CategoryPastProviders = "Past Providers"
)

func IsValidSavedCategory(category string) bool {
	switch category {
	case CategoryFavorites, CategoryToContact, CategoryCurrentlySeen, CategoryPastProviders:
		return true
	}
	return false
}

type SavedProvider struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint `gorm:"uniqueIndex:idx_client_provider;not null" json:"clientId"`

	ProviderID uint     `gorm:"uniqueIndex:idx_client_provider;not null" json:"providerId"`
	Provider   Provider `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"provider"`

	Category string `gorm:"size:50;default:'Favorites'" json:"category"`
	Notes    string `gorm:"size:255" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

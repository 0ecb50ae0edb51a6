package models

import "time"

// Category classifies transactions. Predefined categories have IsDefault=true
// and a nil UserID; user-created ones carry the owning user id. Name is
// unique per user.
type Category struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	Name             string          `gorm:"uniqueIndex:idx_categories_name_user" json:"name"`
	Color            string          `json:"color"`
	IsDefault        bool            `json:"isDefault"`
	TransactionType  TransactionType `gorm:"default:debit" json:"transactionType"`
	UserID           *uint           `gorm:"uniqueIndex:idx_categories_name_user" json:"userId,omitempty"`
	Icon             string          `json:"icon,omitempty"`
	ParentCategoryID *uint           `json:"parentCategory,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

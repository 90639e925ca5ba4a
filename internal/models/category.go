package models

// Category is the categories table.
type Category struct {
	Base
	Name        string    `gorm:"not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	ImageURL    string    `json:"image_url"`
	Products    []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

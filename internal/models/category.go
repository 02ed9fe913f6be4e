// internal/models/category.go
package models

type Category struct {
	BaseModel
	CategoryName string `json:"category_name" gorm:"uniqueIndex;size:50;not null"`

	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	Price       int            `json:"price" binding:"required"`
	SalePrice   *int           `json:"salePrice"`
	Category    string         `json:"category" binding:"required"`
	Stock       int            `json:"stock"`
	Images      datatypes.JSON `json:"images"`
	ReviewCount int            `json:"reviewCount"`
}

// EffectivePrice is the unit price used for all order-time calculations:
// the sale price when one is set, the list price otherwise.
func (p Product) EffectivePrice() int {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

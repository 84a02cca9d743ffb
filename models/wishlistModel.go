package models

import "gorm.io/gorm"

type WishlistItem struct {
	gorm.Model
	UserID    int     `json:"userId"`
	ProductID int     `json:"productId"`
	Product   Product `json:"product" gorm:"foreignKey:ProductID"`
}

package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Review struct {
	gorm.Model
	ProductID int            `json:"productId"`
	UserID    int            `json:"userId"`
	UserName  string         `json:"userName"`
	Content   string         `json:"content"`
	Images    datatypes.JSON `json:"images"`
}

package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	LoginID         string `json:"loginId" gorm:"uniqueIndex"`
	Password        string `json:"-"`
	Name            string `json:"name"`
	Email           string `json:"email" gorm:"uniqueIndex"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	Role            string `json:"role"`
	MarketingAgreed bool   `json:"marketingAgreed"`
	BenefitsAgreed  bool   `json:"benefitsAgreed"`
}

type LoginData struct {
	LoginID  string `json:"loginId" binding:"required"`
	Password string `json:"password" binding:"required"`
}

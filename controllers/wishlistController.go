package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/minjae-dev/kshop-api/initializers"
	"github.com/minjae-dev/kshop-api/models"
	"gorm.io/gorm"
)

func GetWishlist(ctx *gin.Context) {
	userID, ok := CurrentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "UNAUTHORIZED", msgLoginRequired)
		return
	}

	var items []models.WishlistItem
	result := initializers.DB.
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&items)
	if result.Error != nil {
		log.Println("Wishlist fetch error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "FETCH_ERROR", "Failed to fetch wishlist.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"data": items})
}

func AddWishlistItem(ctx *gin.Context) {
	userID, ok := CurrentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "UNAUTHORIZED", msgLoginRequired)
		return
	}

	type AddBody struct {
		ProductID int `json:"product_id"`
	}

	var addData AddBody
	if err := ctx.ShouldBindJSON(&addData); err != nil || addData.ProductID == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "A product ID is required.")
		return
	}

	var existing models.WishlistItem
	err := initializers.DB.
		Where("user_id = ? AND product_id = ?", userID, addData.ProductID).
		First(&existing).Error
	if err == nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "ALREADY_EXISTS", "This product is already in your wishlist.")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("Wishlist lookup error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "FETCH_ERROR", "Failed to fetch wishlist.")
		return
	}

	item := models.WishlistItem{
		UserID:    userID,
		ProductID: addData.ProductID,
	}

	if err := initializers.DB.Create(&item).Error; err != nil {
		log.Println("Wishlist insert error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "INSERT_ERROR", "Failed to add to wishlist.")
		return
	}

	ctx.JSON(http.StatusCreated, item)
}

func DeleteWishlistItem(ctx *gin.Context) {
	userID, ok := CurrentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "UNAUTHORIZED", msgLoginRequired)
		return
	}

	itemID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "Failed to parse wishlist item id.")
		return
	}

	var item models.WishlistItem
	if err := initializers.DB.First(&item, itemID).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "NOT_FOUND", "Wishlist item not found.")
		return
	}

	if item.UserID != userID {
		sendErrorResponse(ctx, http.StatusForbidden, "FORBIDDEN", "You do not have access to this wishlist item.")
		return
	}

	if err := initializers.DB.Delete(&item).Error; err != nil {
		log.Println("Wishlist delete error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "DELETE_FAILED", "Failed to remove wishlist item.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product removed from wishlist."})
}

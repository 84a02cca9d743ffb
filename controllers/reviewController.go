package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/minjae-dev/kshop-api/initializers"
	"github.com/minjae-dev/kshop-api/models"
)

// GetProductReviews lists a product's reviews, newest first
func GetProductReviews(ctx *gin.Context) {
	productID, err := strconv.Atoi(ctx.Param("productId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "Invalid product ID.")
		return
	}

	var reviews []models.Review
	result := initializers.DB.
		Where("product_id = ?", productID).
		Order("created_at desc").
		Find(&reviews)
	if result.Error != nil {
		log.Println("Reviews fetch error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "FETCH_ERROR", "Failed to fetch reviews.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"data":  reviews,
		"total": len(reviews),
	})
}

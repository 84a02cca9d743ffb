package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/minjae-dev/kshop-api/initializers"
	"github.com/minjae-dev/kshop-api/models"
	"gorm.io/gorm"
)

const msgLoginRequired = "Authentication required."

// GetCart returns the user's cart items with product details, newest first
func GetCart(ctx *gin.Context) {
	userID, ok := CurrentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "UNAUTHORIZED", msgLoginRequired)
		return
	}

	var cartItems []models.CartItem
	result := initializers.DB.
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&cartItems)
	if result.Error != nil {
		log.Println("Cart fetch error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "FETCH_FAILED", "Failed to fetch cart.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"data": cartItems})
}

// AddCartItem adds a product to the cart, merging into an existing row when
// the product is already there. Both paths are gated on current stock.
func AddCartItem(ctx *gin.Context) {
	userID, ok := CurrentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "UNAUTHORIZED", msgLoginRequired)
		return
	}

	type AddBody struct {
		ProductID int `json:"product_id"`
		Quantity  int `json:"quantity"`
	}

	var addData AddBody
	if err := ctx.ShouldBindJSON(&addData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body.")
		return
	}

	if addData.ProductID == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "A product ID is required.")
		return
	}

	if addData.Quantity == 0 {
		addData.Quantity = 1
	}
	if addData.Quantity < 1 {
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_QUANTITY", "Quantity must be at least 1.")
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, addData.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found.")
		} else {
			log.Println("Product fetch error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "FETCH_FAILED", "Failed to fetch product.")
		}
		return
	}

	if product.Stock < addData.Quantity {
		sendErrorResponse(ctx, http.StatusBadRequest, "INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock. (current stock: %d)", product.Stock))
		return
	}

	var existingItem models.CartItem
	err := initializers.DB.
		Where("user_id = ? AND product_id = ?", userID, addData.ProductID).
		First(&existingItem).Error

	if err == nil {
		newQuantity := existingItem.Quantity + addData.Quantity

		if product.Stock < newQuantity {
			sendErrorResponse(ctx, http.StatusBadRequest, "INSUFFICIENT_STOCK",
				fmt.Sprintf("Insufficient stock. (current stock: %d, in cart: %d)", product.Stock, existingItem.Quantity))
			return
		}

		existingItem.Quantity = newQuantity
		if err := initializers.DB.Save(&existingItem).Error; err != nil {
			log.Println("Cart update error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update cart item quantity.")
			return
		}

		sendJSONResponse(ctx, http.StatusOK, gin.H{
			"message": "Product added to cart.",
			"data":    existingItem,
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("Database error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "FETCH_FAILED", "Failed to fetch cart item.")
		return
	}

	cartItem := models.CartItem{
		UserID:    userID,
		ProductID: addData.ProductID,
		Quantity:  addData.Quantity,
	}

	if err := initializers.DB.Create(&cartItem).Error; err != nil {
		log.Println("Cart create error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "INSERT_FAILED", "Failed to add product to cart.")
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": "Product added to cart.",
		"data":    cartItem,
	})
}

// UpdateCartItem changes an item's quantity, stock permitting
func UpdateCartItem(ctx *gin.Context) {
	userID, ok := CurrentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "UNAUTHORIZED", msgLoginRequired)
		return
	}

	itemID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "Failed to parse cart item id.")
		return
	}

	type UpdateBody struct {
		Quantity int `json:"quantity"`
	}

	var updateData UpdateBody
	if err := ctx.ShouldBindJSON(&updateData); err != nil || updateData.Quantity < 1 {
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_QUANTITY", "Quantity must be at least 1.")
		return
	}

	var cartItem models.CartItem
	if err := initializers.DB.First(&cartItem, itemID).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "CART_ITEM_NOT_FOUND", "Cart item not found.")
		return
	}

	if cartItem.UserID != userID {
		sendErrorResponse(ctx, http.StatusForbidden, "FORBIDDEN", "You do not have access to this cart item.")
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, cartItem.ProductID).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found.")
		return
	}

	if product.Stock < updateData.Quantity {
		sendErrorResponse(ctx, http.StatusBadRequest, "INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock. (current stock: %d)", product.Stock))
		return
	}

	cartItem.Quantity = updateData.Quantity
	if err := initializers.DB.Save(&cartItem).Error; err != nil {
		log.Println("Cart update error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update quantity.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Quantity updated.",
		"data":    cartItem,
	})
}

// DeleteCartItem removes a single item from the user's cart
func DeleteCartItem(ctx *gin.Context) {
	userID, ok := CurrentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "UNAUTHORIZED", msgLoginRequired)
		return
	}

	itemID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "Failed to parse cart item id.")
		return
	}

	var cartItem models.CartItem
	if err := initializers.DB.First(&cartItem, itemID).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "CART_ITEM_NOT_FOUND", "Cart item not found.")
		return
	}

	if cartItem.UserID != userID {
		sendErrorResponse(ctx, http.StatusForbidden, "FORBIDDEN", "You do not have access to this cart item.")
		return
	}

	if err := initializers.DB.Delete(&cartItem).Error; err != nil {
		log.Println("Cart delete error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "DELETE_FAILED", "Failed to remove cart item.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product removed from cart."})
}

// ClearCart removes every item in the user's cart
func ClearCart(ctx *gin.Context) {
	userID, ok := CurrentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "UNAUTHORIZED", msgLoginRequired)
		return
	}

	if err := initializers.DB.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		log.Println("Cart clear error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "DELETE_FAILED", "Failed to clear cart.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart cleared."})
}

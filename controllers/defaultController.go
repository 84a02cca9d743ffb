package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the KShop API.

The following are the endpoints for this API:

AUTH
- POST "/auth/register" - Create user account
- POST "/auth/login" - Access user account
- GET "/auth/me" - Get current user profile
- PUT "/auth/update" - Update account details
- POST "/auth/verify-password" - Re-verify password
- DELETE "/auth/delete-account" - Delete account

PRODUCT
- GET "/products" - List products
- GET "/products/:id" - Get product by ID
- GET "/reviews/:productId" - List product reviews
- POST "/products" - Create product (admin)
- POST "/products/:id/images" - Upload product images (admin)

CART
- GET "/cart" - Get cart items
- POST "/cart" - Add product to cart
- PATCH "/cart/:id" - Change item quantity
- DELETE "/cart/:id" - Remove item
- DELETE "/cart" - Clear cart

WISHLIST
- GET "/wishlist" - Get wishlist
- POST "/wishlist" - Add product to wishlist
- DELETE "/wishlist/:id" - Remove wishlist item

ORDER
- POST "/orders" - Create a new order
- GET "/orders" - List my orders
- GET "/orders/:id" - Get order by ID
- PATCH "/orders/:id" - Update my order

PAYMENT
- POST "/payments/confirm" - Confirm a payment`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

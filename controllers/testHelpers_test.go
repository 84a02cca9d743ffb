package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/minjae-dev/kshop-api/initializers"
	"github.com/minjae-dev/kshop-api/middlewares"
	"github.com/minjae-dev/kshop-api/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.WishlistItem{},
		&models.Review{},
	))

	initializers.DB = db
}

// newTestRouter registers the same routes main.go does, without the import
// cycle a routes-package dependency would create in these tests.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	server := gin.New()

	server.POST("/auth/register", Register)
	server.POST("/auth/login", Login)
	account := server.Group("/auth", middlewares.RequireAuth())
	{
		account.GET("/me", GetMe)
		account.PUT("/update", UpdateAccount)
		account.POST("/verify-password", VerifyPassword)
		account.DELETE("/delete-account", DeleteAccount)
	}

	server.GET("/products", GetProducts)
	server.GET("/products/:id", GetProduct)
	server.GET("/reviews/:productId", GetProductReviews)

	cart := server.Group("/cart", middlewares.RequireAuth())
	{
		cart.GET("", GetCart)
		cart.POST("", AddCartItem)
		cart.PATCH("/:id", UpdateCartItem)
		cart.DELETE("/:id", DeleteCartItem)
		cart.DELETE("", ClearCart)
	}

	orders := server.Group("/orders", middlewares.RequireAuth())
	{
		orders.POST("", CreateOrder)
		orders.GET("", GetMyOrders)
		orders.GET("/:id", GetOrderByID)
		orders.PATCH("/:id", UpdateOrder)
	}

	admin := server.Group("/admin/orders", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.GET("", GetOrders)
		admin.GET("/undelivered-count", GetUndeliveredOrders)
		admin.PATCH("/:orderId", UpdateOrderStatus)
		admin.DELETE("/:orderId", DeleteOrder)
	}

	server.POST("/payments/confirm", middlewares.RequireAuth(), ConfirmPayment)

	wishlist := server.Group("/wishlist", middlewares.RequireAuth())
	{
		wishlist.GET("", GetWishlist)
		wishlist.POST("", AddWishlistItem)
		wishlist.DELETE("/:id", DeleteWishlistItem)
	}

	return server
}

func createTestUser(t *testing.T, loginID string) models.User {
	t.Helper()
	hashed, err := hashPassword("password123")
	require.NoError(t, err)

	user := models.User{
		LoginID:  loginID,
		Password: hashed,
		Name:     "Test User",
		Email:    loginID + "@example.com",
		Phone:    "010-1234-5678",
		Address:  "123 Teheran-ro, Gangnam-gu, Seoul",
		Role:     "user",
	}
	require.NoError(t, initializers.DB.Create(&user).Error)
	return user
}

func createTestAdmin(t *testing.T, loginID string) models.User {
	t.Helper()
	admin := createTestUser(t, loginID)
	require.NoError(t, initializers.DB.Model(&admin).Update("role", "admin").Error)
	admin.Role = "admin"
	return admin
}

func authToken(t *testing.T, user models.User) string {
	t.Helper()
	token, err := generateJWT(user)
	require.NoError(t, err)
	return token
}

func performRequest(t *testing.T, router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func createTestProduct(t *testing.T, name string, price int, salePrice *int, stock int) models.Product {
	t.Helper()
	product := models.Product{
		Name:      name,
		Price:     price,
		SalePrice: salePrice,
		Category:  "electronics",
		Stock:     stock,
	}
	require.NoError(t, initializers.DB.Create(&product).Error)
	return product
}

func intPtr(v int) *int {
	return &v
}

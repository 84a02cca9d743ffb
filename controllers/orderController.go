package controllers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/minjae-dev/kshop-api/initializers"
	"github.com/minjae-dev/kshop-api/models"
	"github.com/minjae-dev/kshop-api/utils"
	"gorm.io/gorm"
)

const (
	// Orders at or above the threshold ship free, everything below pays the
	// flat fee. Amounts are integer KRW.
	freeShippingThreshold = 30000
	flatShippingFee       = 3000
)

type CartLine struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type CreateOrderRequest struct {
	CartItems        []CartLine `json:"cart_items"`
	CustomerName     string     `json:"customer_name"`
	CustomerEmail    string     `json:"customer_email"`
	CustomerPhone    string     `json:"customer_phone"`
	ShippingAddress  string     `json:"shipping_address"`
	ShippingPostcode string     `json:"shipping_postcode"`
	PaymentMethod    string     `json:"payment_method"`
	OrderID          string     `json:"order_id"`
}

// ShippingFee returns 0 for subtotals at or above the free-shipping threshold
// and the flat fee otherwise.
func ShippingFee(subtotal int) int {
	if subtotal >= freeShippingThreshold {
		return 0
	}
	return flatShippingFee
}

// CreateOrder validates a cart selection, re-prices it from the product table,
// and persists the order, its items and the stock decrements in a single
// transaction. Each decrement is conditional on sufficient stock, so a
// concurrent order racing past the initial check aborts the whole transaction
// instead of overselling.
func CreateOrder(ctx *gin.Context) {
	userID, ok := CurrentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required.")
		return
	}

	var req CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Printf("JSON binding error: %v", err)
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body.")
		return
	}

	if len(req.CartItems) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "There are no items to order.")
		return
	}

	if req.CustomerName == "" || req.CustomerEmail == "" || req.CustomerPhone == "" || req.ShippingAddress == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "Customer name, email, phone and shipping address are required.")
		return
	}

	orderReference := req.OrderID
	if orderReference == "" {
		// Checkout normally generates the reference client-side; fall back to
		// a server-generated one so a bare API call still gets a usable order.
		code, err := utils.GenerateCode(8)
		if err != nil {
			log.Println("Order reference generation error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "CREATE_ERROR", "Failed to create order.")
			return
		}
		orderReference = "ORD-" + code
	}

	productIDs := make([]int, 0, len(req.CartItems))
	for _, line := range req.CartItems {
		productIDs = append(productIDs, line.ProductID)
	}

	var products []models.Product
	if result := initializers.DB.Where("id IN ?", productIDs).Find(&products); result.Error != nil {
		log.Println("Product lookup error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "FETCH_ERROR", "Failed to look up products.")
		return
	}

	productsByID := make(map[int]models.Product, len(products))
	for _, product := range products {
		productsByID[int(product.ID)] = product
	}

	subtotal := 0
	orderItems := make([]models.OrderItem, 0, len(req.CartItems))
	for _, line := range req.CartItems {
		product, found := productsByID[line.ProductID]
		if !found {
			sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_PRODUCT", fmt.Sprintf("Product not found: %d", line.ProductID))
			return
		}

		if product.Stock < line.Quantity {
			sendErrorResponse(ctx, http.StatusBadRequest, "OUT_OF_STOCK", fmt.Sprintf("Insufficient stock: %s", product.Name))
			return
		}

		price := product.EffectivePrice()
		subtotal += price * line.Quantity
		orderItems = append(orderItems, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     price,
		})
	}

	totalAmount := subtotal + ShippingFee(subtotal)

	order := models.Order{
		UserID:           userID,
		Status:           models.OrderStatusPending,
		PaymentStatus:    models.PaymentStatusPending,
		OrderReference:   orderReference,
		TotalAmount:      totalAmount,
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerPhone:    req.CustomerPhone,
		ShippingAddress:  req.ShippingAddress,
		ShippingPostcode: req.ShippingPostcode,
		PaymentMethod:    req.PaymentMethod,
	}

	tx := initializers.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		log.Println("Order creation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "CREATE_ERROR", "Failed to create order.")
		return
	}

	for i := range orderItems {
		orderItems[i].OrderID = int(order.ID)
		if err := tx.Create(&orderItems[i]).Error; err != nil {
			tx.Rollback()
			log.Println("Order items creation error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "CREATE_ERROR", "Failed to create order items.")
			return
		}
	}

	for _, item := range orderItems {
		result := tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
			UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
		if result.Error != nil {
			tx.Rollback()
			log.Println("Stock decrement error:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, "CREATE_ERROR", "Failed to update stock.")
			return
		}
		if result.RowsAffected == 0 {
			// Lost a race against a concurrent order for this product.
			tx.Rollback()
			product := productsByID[item.ProductID]
			sendErrorResponse(ctx, http.StatusBadRequest, "OUT_OF_STOCK", fmt.Sprintf("Insufficient stock: %s", product.Name))
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Println("Order commit error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "CREATE_ERROR", "Failed to save order.")
		return
	}

	ctx.JSON(http.StatusCreated, order)
}

// GetMyOrders lists the authenticated user's orders, newest first
func GetMyOrders(ctx *gin.Context) {
	userID, ok := CurrentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required.")
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	var orders []models.Order
	result := initializers.DB.
		Preload("OrderItems").
		Preload("OrderItems.Product").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&orders)
	if result.Error != nil {
		log.Println("Orders fetch error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "FETCH_ERROR", "Failed to fetch orders.")
		return
	}

	var count int64
	initializers.DB.Model(&models.Order{}).Where("user_id = ?", userID).Count(&count)

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"data":       orders,
		"total":      count,
		"page":       page,
		"limit":      limit,
		"totalPages": int(math.Ceil(float64(count) / float64(limit))),
	})
}

// GetOrderByID returns one of the authenticated user's orders with its items
func GetOrderByID(ctx *gin.Context) {
	userID, ok := CurrentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required.")
		return
	}

	orderID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "Failed to parse order id.")
		return
	}

	var order models.Order
	result := initializers.DB.
		Preload("OrderItems").
		Preload("OrderItems.Product").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "NOT_FOUND", "Order not found.")
		} else {
			log.Println("Order fetch error:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, "FETCH_ERROR", "Failed to fetch order.")
		}
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// UpdateOrder lets the owner patch status, payment status or payment key.
// The checkout fail page uses this to mark an abandoned payment.
func UpdateOrder(ctx *gin.Context) {
	userID, ok := CurrentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required.")
		return
	}

	orderID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "Failed to parse order id.")
		return
	}

	type UpdateBody struct {
		Status        string `json:"status"`
		PaymentStatus string `json:"payment_status"`
		PaymentKey    string `json:"payment_key"`
	}

	var updateData UpdateBody
	if err := ctx.ShouldBindJSON(&updateData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "Failed to parse request body.")
		return
	}

	var order models.Order
	if result := initializers.DB.Where("id = ? AND user_id = ?", orderID, userID).First(&order); result.Error != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "NOT_FOUND", "Order not found.")
		return
	}

	updates := map[string]any{}
	if updateData.Status != "" {
		updates["status"] = updateData.Status
	}
	if updateData.PaymentStatus != "" {
		updates["payment_status"] = updateData.PaymentStatus
	}
	if updateData.PaymentKey != "" {
		updates["payment_key"] = updateData.PaymentKey
	}

	if len(updates) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "No fields to update.")
		return
	}

	if result := initializers.DB.Model(&order).Updates(updates); result.Error != nil {
		log.Println("Order update error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "UPDATE_ERROR", "Failed to update order.")
		return
	}

	initializers.DB.First(&order, order.ID)
	ctx.JSON(http.StatusOK, order)
}

// GetOrders lists all orders for the admin dashboard
func GetOrders(ctx *gin.Context) {
	var orders []models.Order

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	offset := (page - 1) * limit

	sortOrder := ctx.DefaultQuery("sort", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	query := initializers.DB.Preload("OrderItems")

	if search := ctx.Query("search"); search != "" {
		query = query.Where("order_reference LIKE ?", "%"+search+"%")
	}

	query = query.Order("created_at " + sortOrder)

	result := query.Limit(limit).Offset(offset).Find(&orders)
	if result.Error != nil {
		log.Println("Orders fetch error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "FETCH_ERROR", "Unable to fetch orders.")
		return
	}

	var count int64
	countQuery := initializers.DB.Model(&models.Order{})
	if search := ctx.Query("search"); search != "" {
		countQuery = countQuery.Where("order_reference LIKE ?", "%"+search+"%")
	}
	countQuery.Count(&count)

	previousPage := page - 1
	nextPage := page + 1
	totalPages := math.Ceil(float64(count) / float64(limit))

	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"metadata": gin.H{
			"total":        count,
			"currentPage":  page,
			"limit":        limit,
			"hasPrevPage":  previousPage > 0,
			"hasNextPage":  int(totalPages) > page,
			"previousPage": previousPage,
			"nextPage":     nextPage,
		},
	})
}

// UpdateOrderStatus is the admin fulfilment-status update
func UpdateOrderStatus(ctx *gin.Context) {
	var orderStatusData struct {
		Status string `json:"status"`
	}
	if err := ctx.ShouldBindJSON(&orderStatusData); err != nil {
		log.Println(err)
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "Failed to parse request body.")
		return
	}

	orderID, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		log.Println(err)
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "Failed to parse order id.")
		return
	}

	if result := initializers.DB.Model(&models.Order{}).Where("id = ?", orderID).Update("status", orderStatusData.Status); result.Error != nil {
		log.Println(result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "UPDATE_ERROR", "Failed to update order status.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully.",
	})
}

func DeleteOrder(ctx *gin.Context) {
	orderID, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		log.Println(err)
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "Failed to parse order id.")
		return
	}

	if result := initializers.DB.Delete(&models.Order{}, orderID); result.Error != nil {
		log.Println(result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete order.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order deleted successfully."})
}

func GetUndeliveredOrders(ctx *gin.Context) {
	var count int64

	result := initializers.DB.
		Model(&models.Order{}).
		Where("status != ?", models.OrderStatusCompleted).
		Count(&count)

	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "FETCH_ERROR", "Failed to count undelivered orders.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"undeliveredOrderCount": count})
}

package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/minjae-dev/kshop-api/initializers"
	"github.com/minjae-dev/kshop-api/models"
	"github.com/minjae-dev/kshop-api/utils"
	"gorm.io/gorm"
)

type ConfirmPaymentRequest struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Amount     int    `json:"amount"`
}

func paymentGatewayBaseURL() string {
	if url := os.Getenv("TOSS_API_URL"); url != "" {
		return url
	}
	return "https://api.tosspayments.com"
}

// confirmWithGateway posts the confirmation to the payment gateway. The
// secret key is sent as Basic auth with an empty password, per the gateway's
// server-to-server API.
func confirmWithGateway(req ConfirmPaymentRequest) (*resty.Response, error) {
	secretKey := os.Getenv("TOSS_SECRET_KEY")
	if secretKey == "" {
		return nil, errors.New("payment gateway secret key is not set")
	}

	client := resty.New().SetTimeout(30 * time.Second)
	return client.R().
		SetBasicAuth(secretKey, "").
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"paymentKey": req.PaymentKey,
			"orderId":    req.OrderID,
			"amount":     req.Amount,
		}).
		Post(paymentGatewayBaseURL() + "/v1/payments/confirm")
}

// ConfirmPayment verifies a payment callback against the pending order,
// confirms the charge with the gateway and finalizes the order. The order is
// atomically moved pending -> confirming before the gateway is called, so a
// duplicated redirect or client retry short-circuits instead of confirming
// twice.
func ConfirmPayment(ctx *gin.Context) {
	var req ConfirmPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "Required parameters are missing.")
		return
	}

	if req.PaymentKey == "" || req.OrderID == "" || req.Amount == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "Required parameters are missing.")
		return
	}

	userID, ok := CurrentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required.")
		return
	}

	var order models.Order
	result := initializers.DB.
		Where("order_reference = ? AND user_id = ?", req.OrderID, userID).
		First(&order)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found.")
		} else {
			log.Println("Order lookup error:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An error occurred while confirming the payment.")
		}
		return
	}

	if order.TotalAmount != req.Amount {
		sendErrorResponse(ctx, http.StatusBadRequest, "AMOUNT_MISMATCH", "Order amount does not match.")
		return
	}

	// Idempotency gate: only the call that wins this transition talks to the
	// gateway. Everyone else sees a non-pending payment status.
	claim := initializers.DB.Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", order.ID, models.PaymentStatusPending).
		Update("payment_status", models.PaymentStatusConfirming)
	if claim.Error != nil {
		log.Println("Order claim error:", claim.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An error occurred while confirming the payment.")
		return
	}
	if claim.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusConflict, "ALREADY_PROCESSED", "This payment has already been processed.")
		return
	}

	resp, err := confirmWithGateway(req)
	if err != nil {
		log.Println("Payment gateway request error:", err)
		// Release the claim so the client can retry.
		initializers.DB.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("payment_status", models.PaymentStatusPending)
		sendErrorResponse(ctx, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An error occurred while confirming the payment.")
		return
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		log.Printf("Payment confirmation rejected: status=%d body=%s", resp.StatusCode(), resp.Body())
		if err := initializers.DB.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("payment_status", models.PaymentStatusFailed).Error; err != nil {
			log.Println("Order status update error:", err)
		}
		// Pass the gateway's error payload and status through verbatim so the
		// client can distinguish declines by the gateway's own codes.
		ctx.Data(resp.StatusCode(), "application/json", resp.Body())
		return
	}

	var gatewayResult map[string]any
	if err := json.Unmarshal(resp.Body(), &gatewayResult); err != nil {
		log.Println("Payment gateway response parse error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Invalid response from payment gateway.")
		return
	}

	receiptNumber := uuid.NewString()
	if err := initializers.DB.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"payment_status": models.PaymentStatusPaid,
			"status":         models.OrderStatusConfirmed,
			"payment_key":    req.PaymentKey,
			"receipt_number": receiptNumber,
		}).Error; err != nil {
		log.Println("Order status update error:", err)
	}

	// Checkout settles the whole cart, not just the ordered lines.
	if err := initializers.DB.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		log.Println("Cart clearing error:", err)
	}

	sendOrderConfirmationEmail(order, receiptNumber)

	gatewayResult["orderDbId"] = order.ID
	ctx.JSON(http.StatusOK, gatewayResult)
}

// Best effort, failures are logged and do not affect the response.
func sendOrderConfirmationEmail(order models.Order, receiptNumber string) {
	emailData := utils.EmailData{
		Name:          order.CustomerName,
		Message:       "Your payment has been confirmed. Thank you for your order!",
		OrderRef:      order.OrderReference,
		ReceiptNumber: receiptNumber,
		TotalAmount:   order.TotalAmount,
		LogoURL:       os.Getenv("FRONTEND_URL") + "/images/logo.png",
	}

	templatePath := filepath.Join("templates", "order_confirmation.html")
	if err := utils.SendEmail(order.CustomerEmail, "Order Confirmation", emailData, templatePath); err != nil {
		log.Println("Error sending order confirmation email:", err)
	} else {
		log.Println("Order confirmation email sent successfully to:", order.CustomerEmail)
	}
}

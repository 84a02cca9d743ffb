package controllers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/minjae-dev/kshop-api/initializers"
	"github.com/minjae-dev/kshop-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// Default cost for bcrypt password hashing
	bcryptCost = 10

	// Standard response messages
	msgInvalidInput          = "Required fields are missing or malformed."
	msgUserAlreadyExists     = "This login ID is already taken."
	msgEmailAlreadyExists    = "This email is already registered."
	msgFailedToHashPassword  = "Failed to hash password."
	msgInvalidCredentials    = "Login ID or password is incorrect."
	msgFailedToGenerateToken = "Failed to generate token."
	msgInternalServerError   = "Internal server error."
	msgUserNotFound          = "User not found."
	msgPasswordMismatch      = "Password does not match."
	msgAccountDeleted        = "Account deleted successfully."
)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, code string, message string) {
	sendJSONResponse(ctx, status, gin.H{"code": code, "message": message})
}

// CurrentUserID resolves the authenticated user from the claims RequireAuth
// placed on the context. This is the only identity seam the order, payment,
// cart and wishlist handlers rely on.
func CurrentUserID(ctx *gin.Context) (int, bool) {
	userClaims, exists := ctx.Get("user")
	if !exists {
		return 0, false
	}
	claims, ok := userClaims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, false
	}
	return int(id), true
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func generateJWT(user models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"login_id": user.LoginID,
		"email":    user.Email,
		"role":     user.Role,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(time.Hour * 24 * 30).Unix(),
	})

	jwtSecret := os.Getenv("JWT_SECRET")
	return token.SignedString([]byte(jwtSecret))
}

func findUserByLoginID(loginID string) (models.User, error) {
	var user models.User
	result := initializers.DB.Where("login_id = ?", loginID).First(&user)
	return user, result.Error
}

// Register handles account creation
func Register(ctx *gin.Context) {
	type RegisterBody struct {
		LoginID         string `json:"loginId" binding:"required"`
		Password        string `json:"password" binding:"required,min=8"`
		Name            string `json:"name" binding:"required"`
		Email           string `json:"email" binding:"required,email"`
		Phone           string `json:"phone" binding:"required"`
		Address         string `json:"address" binding:"required"`
		MarketingAgreed bool   `json:"marketingAgreed"`
		BenefitsAgreed  bool   `json:"benefitsAgreed"`
	}

	var registerData RegisterBody
	if err := ctx.ShouldBindJSON(&registerData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", msgInvalidInput)
		return
	}

	var existing models.User
	if result := initializers.DB.Where("login_id = ?", registerData.LoginID).Find(&existing); result.Error != nil {
		log.Println("Database error during user check:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "SERVER_ERROR", msgInternalServerError)
		return
	} else if result.RowsAffected > 0 {
		sendErrorResponse(ctx, http.StatusConflict, "USER_EXISTS", msgUserAlreadyExists)
		return
	}

	if result := initializers.DB.Where("email = ?", registerData.Email).Find(&existing); result.Error != nil {
		log.Println("Database error during email check:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "SERVER_ERROR", msgInternalServerError)
		return
	} else if result.RowsAffected > 0 {
		sendErrorResponse(ctx, http.StatusConflict, "EMAIL_EXISTS", msgEmailAlreadyExists)
		return
	}

	hashedPassword, err := hashPassword(registerData.Password)
	if err != nil {
		log.Println("Password hashing error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "SERVER_ERROR", msgFailedToHashPassword)
		return
	}

	user := models.User{
		LoginID:         registerData.LoginID,
		Password:        hashedPassword,
		Name:            registerData.Name,
		Email:           registerData.Email,
		Phone:           registerData.Phone,
		Address:         registerData.Address,
		Role:            "user",
		MarketingAgreed: registerData.MarketingAgreed,
		BenefitsAgreed:  registerData.BenefitsAgreed,
	}

	if result := initializers.DB.Create(&user); result.Error != nil {
		log.Println("User creation error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "REGISTRATION_FAILED", msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": "Account created successfully.",
		"user":    user,
	})
}

// Login handles user authentication
func Login(ctx *gin.Context) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", msgInvalidInput)
		return
	}

	user, err := findUserByLoginID(loginData.LoginID)
	if err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, "INVALID_CREDENTIALS", msgInvalidCredentials)
		return
	}

	if err := comparePasswords(user.Password, loginData.Password); err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, "INVALID_CREDENTIALS", msgInvalidCredentials)
		return
	}

	tokenString, err := generateJWT(user)
	if err != nil {
		log.Println("JWT generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "SERVER_ERROR", msgFailedToGenerateToken)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"token": tokenString,
		"user":  user,
	})
}

// GetMe returns the profile of the authenticated user
func GetMe(ctx *gin.Context) {
	userID, ok := CurrentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required.")
		return
	}

	var user models.User
	if err := initializers.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "USER_NOT_FOUND", msgUserNotFound)
		} else {
			log.Println("User fetch error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "SERVER_ERROR", msgInternalServerError)
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"user": user})
}

// UpdateAccount updates the authenticated user's profile fields
func UpdateAccount(ctx *gin.Context) {
	userID, ok := CurrentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required.")
		return
	}

	type UpdateBody struct {
		Name            string `json:"name"`
		Phone           string `json:"phone"`
		Address         string `json:"address"`
		Password        string `json:"password"`
		MarketingAgreed *bool  `json:"marketingAgreed"`
		BenefitsAgreed  *bool  `json:"benefitsAgreed"`
	}

	var updateData UpdateBody
	if err := ctx.ShouldBindJSON(&updateData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", msgInvalidInput)
		return
	}

	updates := map[string]any{}
	if updateData.Name != "" {
		updates["name"] = updateData.Name
	}
	if updateData.Phone != "" {
		updates["phone"] = updateData.Phone
	}
	if updateData.Address != "" {
		updates["address"] = updateData.Address
	}
	if updateData.MarketingAgreed != nil {
		updates["marketing_agreed"] = *updateData.MarketingAgreed
	}
	if updateData.BenefitsAgreed != nil {
		updates["benefits_agreed"] = *updateData.BenefitsAgreed
	}
	if updateData.Password != "" {
		hashedPassword, err := hashPassword(updateData.Password)
		if err != nil {
			log.Println("Password hashing error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "SERVER_ERROR", msgFailedToHashPassword)
			return
		}
		updates["password"] = hashedPassword
	}

	if len(updates) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "No fields to update.")
		return
	}

	if result := initializers.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates); result.Error != nil {
		log.Println("User update error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "UPDATE_FAILED", msgInternalServerError)
		return
	}

	var user models.User
	initializers.DB.First(&user, userID)
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Account updated successfully.",
		"user":    user,
	})
}

// VerifyPassword re-checks the user's password before sensitive account pages
func VerifyPassword(ctx *gin.Context) {
	userID, ok := CurrentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required.")
		return
	}

	type VerifyBody struct {
		Password string `json:"password" binding:"required"`
	}

	var verifyData VerifyBody
	if err := ctx.ShouldBindJSON(&verifyData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", msgInvalidInput)
		return
	}

	var user models.User
	if err := initializers.DB.First(&user, userID).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "USER_NOT_FOUND", msgUserNotFound)
		return
	}

	if err := comparePasswords(user.Password, verifyData.Password); err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, "INVALID_PASSWORD", msgPasswordMismatch)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Password verified."})
}

// DeleteAccount removes the user and their cart and wishlist rows. Orders are
// kept for record keeping.
func DeleteAccount(ctx *gin.Context) {
	userID, ok := CurrentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required.")
		return
	}

	if err := initializers.DB.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		log.Println("Cart cleanup error:", err)
	}
	if err := initializers.DB.Where("user_id = ?", userID).Delete(&models.WishlistItem{}).Error; err != nil {
		log.Println("Wishlist cleanup error:", err)
	}

	if result := initializers.DB.Delete(&models.User{}, userID); result.Error != nil {
		log.Println("Account deletion error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "DELETE_FAILED", msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgAccountDeleted})
}

package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/minjae-dev/kshop-api/initializers"
	"github.com/minjae-dev/kshop-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerBody(loginID string) gin.H {
	return gin.H{
		"loginId":  loginID,
		"password": "password123",
		"name":     "Test User",
		"email":    loginID + "@example.com",
		"phone":    "010-1234-5678",
		"address":  "123 Teheran-ro, Gangnam-gu, Seoul",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	recorder := performRequest(t, router, http.MethodPost, "/auth/register", registerBody("newuser"), "")
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	// The stored password is hashed, never the plaintext.
	var user models.User
	require.NoError(t, initializers.DB.Where("login_id = ?", "newuser").First(&user).Error)
	assert.NotEqual(t, "password123", user.Password)
	assert.Equal(t, "user", user.Role)

	recorder = performRequest(t, router, http.MethodPost, "/auth/login", gin.H{"loginId": "newuser", "password": "password123"}, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	token := decodeBody(t, recorder)["token"].(string)
	require.NotEmpty(t, token)

	recorder = performRequest(t, router, http.MethodGet, "/auth/me", nil, token)
	require.Equal(t, http.StatusOK, recorder.Code)
	profile := decodeBody(t, recorder)["user"].(map[string]any)
	assert.Equal(t, "newuser", profile["loginId"])
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	recorder := performRequest(t, router, http.MethodPost, "/auth/register", registerBody("dupuser"), "")
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = performRequest(t, router, http.MethodPost, "/auth/register", registerBody("dupuser"), "")
	require.Equal(t, http.StatusConflict, recorder.Code)
	assert.Equal(t, "USER_EXISTS", decodeBody(t, recorder)["code"])

	body := registerBody("otheruser")
	body["email"] = "dupuser@example.com"
	recorder = performRequest(t, router, http.MethodPost, "/auth/register", body, "")
	require.Equal(t, http.StatusConflict, recorder.Code)
	assert.Equal(t, "EMAIL_EXISTS", decodeBody(t, recorder)["code"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()
	createTestUser(t, "someuser")

	recorder := performRequest(t, router, http.MethodPost, "/auth/login", gin.H{"loginId": "someuser", "password": "wrongpass"}, "")
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = performRequest(t, router, http.MethodPost, "/auth/login", gin.H{"loginId": "nosuchuser", "password": "password123"}, "")
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeBody(t, recorder)["code"])
}

func TestVerifyPassword(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()
	user := createTestUser(t, "verifyuser")
	token := authToken(t, user)

	recorder := performRequest(t, router, http.MethodPost, "/auth/verify-password", gin.H{"password": "password123"}, token)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = performRequest(t, router, http.MethodPost, "/auth/verify-password", gin.H{"password": "nope"}, token)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "INVALID_PASSWORD", decodeBody(t, recorder)["code"])
}

func TestUpdateAccount(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()
	user := createTestUser(t, "updateuser")
	token := authToken(t, user)

	recorder := performRequest(t, router, http.MethodPut, "/auth/update", gin.H{"name": "Renamed User", "address": "77 Songpa-daero, Songpa-gu, Seoul"}, token)
	require.Equal(t, http.StatusOK, recorder.Code)

	var reloaded models.User
	initializers.DB.First(&reloaded, user.ID)
	assert.Equal(t, "Renamed User", reloaded.Name)
	assert.Equal(t, "77 Songpa-daero, Songpa-gu, Seoul", reloaded.Address)
	// Untouched fields keep their values.
	assert.Equal(t, user.Email, reloaded.Email)
}

func TestDeleteAccountRemovesCartAndWishlist(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()
	user := createTestUser(t, "deleteuser")
	token := authToken(t, user)
	product := createTestProduct(t, "Poster", 3000, nil, 10)

	require.NoError(t, initializers.DB.Create(&models.CartItem{UserID: int(user.ID), ProductID: int(product.ID), Quantity: 1}).Error)
	require.NoError(t, initializers.DB.Create(&models.WishlistItem{UserID: int(user.ID), ProductID: int(product.ID)}).Error)

	recorder := performRequest(t, router, http.MethodDelete, "/auth/delete-account", nil, token)
	require.Equal(t, http.StatusOK, recorder.Code)

	var userCount, cartCount, wishCount int64
	initializers.DB.Model(&models.User{}).Where("id = ?", user.ID).Count(&userCount)
	initializers.DB.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount)
	initializers.DB.Model(&models.WishlistItem{}).Where("user_id = ?", user.ID).Count(&wishCount)
	assert.Equal(t, int64(0), userCount)
	assert.Equal(t, int64(0), cartCount)
	assert.Equal(t, int64(0), wishCount)
}

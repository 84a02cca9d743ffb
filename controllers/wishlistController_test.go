package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/minjae-dev/kshop-api/initializers"
	"github.com/minjae-dev/kshop-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistAddListDelete(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()
	user := createTestUser(t, "wisher1")
	token := authToken(t, user)
	product := createTestProduct(t, "Headphones", 50000, nil, 5)

	recorder := performRequest(t, router, http.MethodPost, "/wishlist", gin.H{"product_id": product.ID}, token)
	require.Equal(t, http.StatusCreated, recorder.Code)

	// Duplicate adds are rejected.
	recorder = performRequest(t, router, http.MethodPost, "/wishlist", gin.H{"product_id": product.ID}, token)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "ALREADY_EXISTS", decodeBody(t, recorder)["code"])

	recorder = performRequest(t, router, http.MethodGet, "/wishlist", nil, token)
	require.Equal(t, http.StatusOK, recorder.Code)
	data := decodeBody(t, recorder)["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Headphones", data[0].(map[string]any)["product"].(map[string]any)["name"])

	var item models.WishlistItem
	require.NoError(t, initializers.DB.Where("user_id = ?", user.ID).First(&item).Error)

	recorder = performRequest(t, router, http.MethodDelete, fmt.Sprintf("/wishlist/%d", item.ID), nil, token)
	require.Equal(t, http.StatusOK, recorder.Code)

	var count int64
	initializers.DB.Model(&models.WishlistItem{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestWishlistDeleteEnforcesOwnership(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()
	owner := createTestUser(t, "wisher2")
	intruder := createTestUser(t, "wisher3")
	product := createTestProduct(t, "Speaker", 80000, nil, 3)

	item := models.WishlistItem{UserID: int(owner.ID), ProductID: int(product.ID)}
	require.NoError(t, initializers.DB.Create(&item).Error)

	recorder := performRequest(t, router, http.MethodDelete, fmt.Sprintf("/wishlist/%d", item.ID), nil, authToken(t, intruder))
	require.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "FORBIDDEN", decodeBody(t, recorder)["code"])
}

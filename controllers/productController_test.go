package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/minjae-dev/kshop-api/initializers"
	"github.com/minjae-dev/kshop-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProductsFiltersAndPaginates(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	createTestProduct(t, "Wireless Mouse", 10000, nil, 10)
	createTestProduct(t, "Wired Mouse", 8000, nil, 10)
	keyboard := createTestProduct(t, "Mechanical Keyboard", 25000, nil, 10)
	require.NoError(t, initializers.DB.Model(&keyboard).Update("category", "peripherals").Error)

	recorder := performRequest(t, router, http.MethodGet, "/products?search=mouse", nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, float64(2), body["total"])

	recorder = performRequest(t, router, http.MethodGet, "/products?category=peripherals", nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	body = decodeBody(t, recorder)
	assert.Equal(t, float64(1), body["total"])

	recorder = performRequest(t, router, http.MethodGet, "/products?page=1&limit=2", nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	body = decodeBody(t, recorder)
	assert.Equal(t, float64(3), body["total"])
	assert.Len(t, body["data"], 2)
}

func TestGetProductsSortsByPrice(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	createTestProduct(t, "Cheap", 1000, nil, 1)
	createTestProduct(t, "Pricey", 90000, nil, 1)

	recorder := performRequest(t, router, http.MethodGet, "/products?sort=price&order=asc", nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	data := decodeBody(t, recorder)["data"].([]any)
	require.Len(t, data, 2)
	assert.Equal(t, "Cheap", data[0].(map[string]any)["name"])

	// Unknown sort fields fall back to created_at rather than erroring.
	recorder = performRequest(t, router, http.MethodGet, "/products?sort=stock;drop", nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestGetProductIncludesDiscount(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	onSale := createTestProduct(t, "Mechanical Keyboard", 25000, intPtr(20000), 5)
	fullPrice := createTestProduct(t, "Wireless Mouse", 10000, nil, 5)

	recorder := performRequest(t, router, http.MethodGet, fmt.Sprintf("/products/%d", onSale.ID), nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, float64(20), body["discountRate"])
	assert.Equal(t, float64(5000), body["discountAmount"])

	recorder = performRequest(t, router, http.MethodGet, fmt.Sprintf("/products/%d", fullPrice.ID), nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	body = decodeBody(t, recorder)
	assert.Nil(t, body["discountRate"])
	assert.Nil(t, body["discountAmount"])
}

func TestGetProductNotFound(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	recorder := performRequest(t, router, http.MethodGet, "/products/9999", nil, "")
	require.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "PRODUCT_NOT_FOUND", decodeBody(t, recorder)["code"])
}

func TestGetProductReviewsNewestFirst(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()
	product := createTestProduct(t, "Tumbler", 15000, nil, 5)
	user := createTestUser(t, "reviewer1")

	for i := 0; i < 2; i++ {
		require.NoError(t, initializers.DB.Create(&models.Review{
			ProductID: int(product.ID),
			UserID:    int(user.ID),
			UserName:  user.Name,
			Content:   fmt.Sprintf("Review %d", i),
		}).Error)
	}

	recorder := performRequest(t, router, http.MethodGet, fmt.Sprintf("/reviews/%d", product.ID), nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, float64(2), body["total"])
	assert.Len(t, body["data"], 2)
}

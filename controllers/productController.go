package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/minjae-dev/kshop-api/initializers"
	"github.com/minjae-dev/kshop-api/models"
	"gorm.io/gorm"
)

// Common error response helper carrying the underlying error detail
func respondWithError(ctx *gin.Context, statusCode int, code string, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	ctx.JSON(statusCode, gin.H{
		"code":    code,
		"message": message,
		"error":   errMsg,
	})
}

var productSortFields = map[string]bool{
	"created_at":   true,
	"price":        true,
	"name":         true,
	"review_count": true,
}

// GetProducts lists products with pagination, category and search filters
func GetProducts(ctx *gin.Context) {
	var products []models.Product

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := initializers.DB.Model(&models.Product{})
	countQuery := initializers.DB.Model(&models.Product{})

	if category := ctx.Query("category"); category != "" {
		query = query.Where("category = ?", category)
		countQuery = countQuery.Where("category = ?", category)
	}

	if search := ctx.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ?", pattern)
		countQuery = countQuery.Where("LOWER(name) LIKE ?", pattern)
	}

	sortField := ctx.DefaultQuery("sort", "created_at")
	if !productSortFields[sortField] {
		sortField = "created_at"
	}
	sortOrder := ctx.DefaultQuery("order", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}
	query = query.Order(sortField + " " + sortOrder)

	result := query.Limit(limit).Offset(offset).Find(&products)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "FETCH_FAILED", "Unable to fetch products.", result.Error)
		return
	}

	var count int64
	countQuery.Count(&count)

	ctx.JSON(http.StatusOK, gin.H{
		"data":  products,
		"total": count,
		"page":  page,
		"limit": limit,
	})
}

// GetProduct returns a product with its discount figures when on sale
func GetProduct(ctx *gin.Context) {
	productID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "INVALID_REQUEST", "Invalid product ID.", err)
		return
	}

	var product models.Product
	result := initializers.DB.First(&product, productID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found.", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "FETCH_FAILED", "Unable to retrieve product.", result.Error)
		}
		return
	}

	var discountRate, discountAmount *int
	if product.SalePrice != nil {
		rate := int(math.Round(float64(product.Price-*product.SalePrice) / float64(product.Price) * 100))
		amount := product.Price - *product.SalePrice
		discountRate = &rate
		discountAmount = &amount
	}

	ctx.JSON(http.StatusOK, gin.H{
		"product":        product,
		"discountRate":   discountRate,
		"discountAmount": discountAmount,
	})
}

// CreateProduct is the admin product-creation endpoint
func CreateProduct(ctx *gin.Context) {
	var product models.Product
	if err := ctx.ShouldBindJSON(&product); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body.", err)
		return
	}

	if err := initializers.DB.Create(&product).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "CREATE_ERROR", "Failed to create product.", err)
		return
	}

	ctx.JSON(http.StatusCreated, product)
}

// getAWSUploader returns a configured S3 uploader
func getAWSUploader() (*manager.Uploader, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return manager.NewUploader(client), nil
}

// UploadProductImages uploads multipart files to S3 and appends the resulting
// URLs to the product's image list
func UploadProductImages(ctx *gin.Context) {
	productID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "INVALID_REQUEST", "Invalid product ID.", err)
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "INVALID_REQUEST", "Invalid form data.", err)
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		respondWithError(ctx, http.StatusBadRequest, "INVALID_REQUEST", "No files uploaded.", nil)
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found.", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "FETCH_FAILED", "Failed to validate product.", err)
		}
		return
	}

	uploader, err := getAWSUploader()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "UPLOAD_FAILED", "Failed to configure AWS.", err)
		return
	}

	var uploadedUrls []string
	var failedUploads []string

	for _, file := range files {
		f, openErr := file.Open()
		if openErr != nil {
			log.Printf("Error opening file %s: %v", file.Filename, openErr)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		// Unique key to prevent overwrites
		uniqueFilename := fmt.Sprintf("%d-%s-%s", productID, time.Now().Format("20060102150405"), file.Filename)

		result, uploadErr := uploader.Upload(context.TODO(), &s3.PutObjectInput{
			Bucket:      aws.String("kshop-product-images"),
			Key:         aws.String(uniqueFilename),
			Body:        f,
			ACL:         "public-read",
			ContentType: aws.String(file.Header.Get("Content-Type")),
		})
		f.Close()

		if uploadErr != nil {
			log.Printf("Error uploading file %s: %v", file.Filename, uploadErr)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		uploadedUrls = append(uploadedUrls, result.Location)
	}

	if len(uploadedUrls) > 0 {
		var images []string
		if len(product.Images) > 0 {
			if err := json.Unmarshal(product.Images, &images); err != nil {
				log.Printf("Error parsing existing images for product %d: %v", productID, err)
			}
		}
		images = append(images, uploadedUrls...)

		imagesJSON, _ := json.Marshal(images)
		if err := initializers.DB.Model(&product).Update("images", imagesJSON).Error; err != nil {
			log.Printf("Error saving image URLs to database: %v", err)
		}
	}

	response := gin.H{
		"message": "Files processed",
		"urls":    uploadedUrls,
	}

	if len(failedUploads) > 0 {
		response["failed"] = failedUploads
	}

	ctx.JSON(http.StatusOK, response)
}

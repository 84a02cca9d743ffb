package initializers

import (
	"log"

	"github.com/minjae-dev/kshop-api/models"
)

func SyncDatabase() {
	DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.WishlistItem{},
		&models.Review{},
	)
	log.Println("Database synced successfully.")
}

package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/saivarshithnaidu/car-spare/config"
	"github.com/saivarshithnaidu/car-spare/internal/models"
	"github.com/saivarshithnaidu/car-spare/internal/utils"
)

func SeedRolesAndAdmin() {
	roles := []string{"admin", "manager", "inventory", "biller", "customer"}
	for _, r := range roles {
		var role models.Role
		if err := DB.FirstOrCreate(&role, models.Role{Name: r}).Error; err != nil {
			log.Printf("Failed to seed role %s: %v", r, err)
		}
	}

	adminEmail := config.AppConfig.Defaults.AdminEmail
	if adminEmail == "" {
		return
	}

	var adminRole models.Role
	DB.Where("name = ?", "admin").First(&adminRole)

	var admin models.User
	err := DB.Where("email = ?", adminEmail).First(&admin).Error
	if err != gorm.ErrRecordNotFound {
		return
	}

	hash, err := utils.HashPassword(config.AppConfig.Defaults.AdminPassword)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}
	admin = models.User{
		Email:        adminEmail,
		FullName:     "Store Admin",
		PasswordHash: hash,
		RoleID:       adminRole.ID,
		IsActive:     true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin user: %v", err)
		return
	}
	log.Println("Admin user seeded")
}

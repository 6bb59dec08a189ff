package main

import (
	"flag"
	"log"

	"sinfoni-api/internal/config"
	"sinfoni-api/internal/model"
	"sinfoni-api/pkg/database"

	"github.com/joho/godotenv"
)

// Creates (or resets) the bootstrap Superadmin account.
func main() {
	email := flag.String("email", "admin@sinfoni.local", "superadmin email")
	name := flag.String("name", "Super Administrator", "superadmin display name")
	password := flag.String("password", "admin123", "superadmin password")
	flag.Parse()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg := config.Load()

	// 2. Setup Database
	db := database.ConnectDB(cfg)
	db.AutoMigrate(&model.User{})

	// 3. Create or update
	var user model.User
	err := db.Where("email = ?", *email).First(&user).Error
	if err != nil {
		user = model.User{
			Name:     *name,
			Email:    *email,
			Role:     model.RoleSuperadmin,
			IsActive: true,
		}
		if err := user.SetPassword(*password); err != nil {
			log.Fatalf("❌ Failed to hash password: %v", err)
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("❌ Failed to create superadmin: %v", err)
		}
		log.Printf("✅ Superadmin %s created", *email)
		return
	}

	if err := user.SetPassword(*password); err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}
	user.Role = model.RoleSuperadmin
	user.IsActive = true
	if err := db.Save(&user).Error; err != nil {
		log.Fatalf("❌ Failed to update superadmin: %v", err)
	}
	log.Printf("✅ Superadmin %s password reset", *email)
}

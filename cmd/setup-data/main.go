// Command setup-data migrates the schema and seeds the demo accounts and
// categories used on fresh installations.
package main

import (
	"log"
	"os"

	"github.com/Bobomurod2004/UzSWLU/config"
	"github.com/Bobomurod2004/UzSWLU/models"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var seedUsers = []struct {
	Email    string
	Password string
	FullName string
	Role     string
}{
	{"admin@example.com", "adminpassword", "Administrator", models.RoleSuperAdmin},
	{"kotib@example.com", "kotib123", "Kotib", models.RoleSecretary},
	{"rais@example.com", "rais123", "Rais", models.RoleManager},
	{"tahrizchi@example.com", "tahriz123", "Tahrizchi", models.RoleReviewer},
	{"user1@example.com", "user123", "Fuqaro", models.RoleCitizen},
}

var seedCategories = []string{
	"IT va Texnologiyalar",
	"Iqtisodiyot",
	"Tibbiyot",
	"Huquqshunoslik",
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	config.InitDB()

	err := config.DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Document{},
		&models.DocumentAssignment{},
		&models.Review{},
		&models.DocumentHistory{},
	)
	if err != nil {
		log.Fatal("Migration failed:", err)
	}
	log.Println("Schema migrated")

	for _, seed := range seedUsers {
		var count int64
		config.DB.Model(&models.User{}).Where("email = ?", seed.Email).Count(&count)
		if count > 0 {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Failed to hash password for %s: %v", seed.Email, err)
			os.Exit(1)
		}

		user := models.User{
			Email:      seed.Email,
			FullName:   seed.FullName,
			Password:   string(hash),
			Role:       seed.Role,
			SoftDelete: models.SoftDelete{IsActive: true},
		}
		if err := config.DB.Create(&user).Error; err != nil {
			log.Fatalf("Failed to create user %s: %v", seed.Email, err)
		}
		log.Printf("User %s created (role %s)", seed.Email, seed.Role)
	}

	for _, name := range seedCategories {
		var count int64
		config.DB.Model(&models.Category{}).Where("name = ?", name).Count(&count)
		if count > 0 {
			continue
		}
		category := models.Category{Name: name, SoftDelete: models.SoftDelete{IsActive: true}}
		if err := config.DB.Create(&category).Error; err != nil {
			log.Fatalf("Failed to create category %s: %v", name, err)
		}
		log.Printf("Category %q created", name)
	}

	log.Println("Setup complete")
}

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"aeroportal/internal/config"
	"aeroportal/internal/db"
	"aeroportal/internal/models"
	"aeroportal/internal/utils/crypto"
	"aeroportal/internal/utils/logger"

	"github.com/joho/godotenv"
)

// Account bootstrap CLI. Prompts for the fields of a new portal account and
// creates it with default permissions.
func main() {
	var log = logger.New("admin-cli")
	log.Info("🔑 Starting account creation CLI")

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment as-is")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", err)
	}

	if err := db.Connect(cfg); err != nil {
		log.Fatal("Failed to connect to database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database connection", err)
		}
	}()

	reader := bufio.NewReader(os.Stdin)

	name := prompt(reader, "Name")
	email := prompt(reader, "Email")
	password := prompt(reader, "Password")
	role := prompt(reader, "Role (admin/superadmin)")

	if name == "" || email == "" || password == "" {
		log.Fatal("Name, email and password are required", nil)
	}
	if !models.IsValidUserRole(models.UserRole(role)) {
		log.Fatal("Role must be 'admin' or 'superadmin'", nil)
	}

	database := db.GetDB()

	var count int64
	if err := database.Model(&models.User{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		log.Fatal("Failed to check existing accounts", err)
	}
	if count > 0 {
		log.Fatal(fmt.Sprintf("An account with email %s already exists", email), nil)
	}

	hashed, err := crypto.HashPassword(password)
	if err != nil {
		log.Fatal("Failed to hash password", err)
	}

	user := &models.User{
		Name:        name,
		Email:       email,
		Password:    hashed,
		Role:        models.UserRole(role),
		Permissions: models.DefaultPermissions(),
	}

	if err := database.Create(user).Error; err != nil {
		log.Fatal("Failed to create account", err)
	}

	log.Success("✅ Created %s account %s (%s)", role, name, email)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Printf("%s: ", label)
	value, _ := reader.ReadString('\n')
	return strings.TrimSpace(value)
}

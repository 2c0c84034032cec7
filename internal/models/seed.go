package models

import (
	"fmt"
	"os"

	"aeroportal/internal/utils/crypto"

	console "aeroportal/internal/utils/logger"

	"gorm.io/gorm"
)

var log = console.New("SEEDER")

// Supervised airports in the working area.
var defaultAirports = []string{
	"Sultan Aji Muhammad Sulaiman Sepinggan Balikpapan",
	"Juwata Tarakan",
	"Aji Pangeran Tumenggung Pranoto Samarinda",
	"Iskandar Pangkalan Bun",
	"Tjilik Riwut Palangka Raya",
	"Kalimaru Berau",
	"RA Bessing Malinau",
}

var defaultAirlines = []Airline{
	{Name: "Citilink", Color: "#4CAF50"},
	{Name: "Lion Air", Color: "#F44336"},
	{Name: "Super Air Jet", Color: "#FF9800"},
	{Name: "Air Asia", Color: "#E91E63"},
	{Name: "Fly Jaya", Color: "#9C27B0"},
	{Name: "Wings Air", Color: "#673AB7"},
	{Name: "Sriwijaya", Color: "#3F51B5"},
	{Name: "Garuda Indonesia", Color: "#2196F3"},
	{Name: "Batik Air", Color: "#03A9F4"},
	{Name: "Pelita Air", Color: "#00BCD4"},
	{Name: "Nam Air", Color: "#009688"},
	{Name: "Susi Air", Color: "#8BC34A"},
}

// SeedReferenceData creates the airport/airline lookup rows used by
// supervision reports. Safe to run repeatedly.
func SeedReferenceData(db *gorm.DB) error {
	for _, name := range defaultAirports {
		airport := Airport{Name: name}
		if err := db.FirstOrCreate(&airport, Airport{Name: name}).Error; err != nil {
			return fmt.Errorf("failed to create airport %s: %v", name, err)
		}
	}

	for _, airline := range defaultAirlines {
		record := airline
		if err := db.FirstOrCreate(&record, Airline{Name: airline.Name}).Error; err != nil {
			return fmt.Errorf("failed to create airline %s: %v", airline.Name, err)
		}
	}

	return nil
}

// CreateSuperAdminFromEnv bootstraps the first superadmin account when no
// superadmin exists yet.
func CreateSuperAdminFromEnv(db *gorm.DB) error {
	role := UserRoleSuperAdmin

	var count int64
	db.Model(&User{}).Where("role = ?", role).Count(&count)
	log.Info("Super admin count: %d", count)
	if count > 0 {
		return nil
	}

	email, ok := os.LookupEnv("SUPERADMIN_EMAIL")
	if !ok {
		return fmt.Errorf("SUPERADMIN_EMAIL not set")
	}

	password, ok := os.LookupEnv("SUPERADMIN_PASSWORD")
	if !ok {
		return fmt.Errorf("SUPERADMIN_PASSWORD not set")
	}

	name, ok := os.LookupEnv("SUPERADMIN_NAME")
	if !ok {
		return fmt.Errorf("SUPERADMIN_NAME not set")
	}

	hashedPassword, err := crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	user := User{
		Name:        name,
		Email:       email,
		Role:        role,
		Password:    hashedPassword,
		Permissions: DefaultPermissions(),
	}

	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create superadmin user: %v", err)
	}

	return nil
}

package config

import (
	"log"

	"gorm.io/gorm"

	"civicsaathi/internal/adapters/persistence/models"
)

// SeedMasterData seeds initial master data
func SeedMasterData(db *gorm.DB) error {
	if err := seedDepartments(db); err != nil {
		return err
	}
	if err := seedCategories(db); err != nil {
		return err
	}
	if err := seedSLAConfigs(db); err != nil {
		return err
	}
	if err := seedFacilities(db); err != nil {
		return err
	}

	log.Println("✅ Master data seeded successfully")
	return nil
}

func seedDepartments(db *gorm.DB) error {
	departments := []models.Department{
		{Name: "Sanitation", Description: "Waste collection, street cleaning and drainage", IsActive: true},
		{Name: "Water Supply", Description: "Water distribution, leakage and quality", IsActive: true},
		{Name: "Roads", Description: "Road maintenance, potholes and signage", IsActive: true},
		{Name: "Street Lighting", Description: "Street lights and public electrical fixtures", IsActive: true},
		{Name: "Parks", Description: "Parks, gardens and public spaces", IsActive: true},
	}

	for _, dept := range departments {
		var count int64
		db.Model(&models.Department{}).Where("name = ?", dept.Name).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&dept).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedCategories(db *gorm.DB) error {
	type seedCategory struct {
		name string
		dept string
	}
	categories := []seedCategory{
		{"Garbage not collected", "Sanitation"},
		{"Open drain / sewage overflow", "Sanitation"},
		{"No water supply", "Water Supply"},
		{"Water pipe leakage", "Water Supply"},
		{"Pothole", "Roads"},
		{"Damaged footpath", "Roads"},
		{"Street light not working", "Street Lighting"},
		{"Park maintenance", "Parks"},
	}

	for _, c := range categories {
		var dept models.Department
		if err := db.Where("name = ?", c.dept).First(&dept).Error; err != nil {
			continue
		}
		var count int64
		db.Model(&models.ComplaintCategory{}).Where("name = ?", c.name).Count(&count)
		if count > 0 {
			continue
		}
		category := models.ComplaintCategory{
			Name:         c.name,
			DepartmentID: dept.ID,
			IsActive:     true,
		}
		if err := db.Create(&category).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedSLAConfigs(db *gorm.DB) error {
	// category name -> (resolution, escalation) in hours
	slas := map[string][2]int{
		"Garbage not collected":        {24, 48},
		"Open drain / sewage overflow": {12, 24},
		"No water supply":              {12, 24},
		"Water pipe leakage":           {24, 48},
		"Pothole":                      {72, 120},
		"Damaged footpath":             {120, 168},
		"Street light not working":     {48, 96},
		"Park maintenance":             {120, 168},
	}

	for name, hours := range slas {
		var category models.ComplaintCategory
		if err := db.Where("name = ?", name).First(&category).Error; err != nil {
			continue
		}
		var count int64
		db.Model(&models.SLAConfig{}).Where("category_id = ?", category.ID).Count(&count)
		if count > 0 {
			continue
		}
		sla := models.SLAConfig{
			CategoryID:      category.ID,
			ResolutionHours: hours[0],
			EscalationHours: hours[1],
		}
		if err := db.Create(&sla).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedFacilities(db *gorm.DB) error {
	coord := func(v float64) *float64 { return &v }
	facilities := []models.Facility{
		{Name: "Central Park Public Toilet", FacilityType: "toilet", Address: "Central Park, Main Gate", Latitude: coord(28.6139), Longitude: coord(77.2090), IsActive: true},
		{Name: "City Bus Stand Toilet", FacilityType: "toilet", Address: "Bus Stand, Platform 1", Latitude: coord(28.6200), Longitude: coord(77.2150), IsActive: true},
		{Name: "Community Hall", FacilityType: "community_hall", Address: "Ward 12, Sector 4", Latitude: coord(28.6050), Longitude: coord(77.2010), IsActive: true},
	}

	for _, f := range facilities {
		var count int64
		db.Model(&models.Facility{}).Where("name = ?", f.Name).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&f).Error; err != nil {
			return err
		}
	}
	return nil
}

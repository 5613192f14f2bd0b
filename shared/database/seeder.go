package database

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"placify-backend/shared/config"
	"placify-backend/shared/database/models"
	"placify-backend/shared/logger"
	"placify-backend/shared/utils/auth"
)

// SeedDatabase creates the admin account and a small demo catalogue. Safe to run repeatedly.
func SeedDatabase(db *gorm.DB) error {
	log := logger.GetLogger()
	cfg := config.GetConfig()

	if err := CreateAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return err
	}

	universities, err := seedUniversities(db)
	if err != nil {
		return err
	}

	companies, internships, err := seedCompaniesAndInternships(db)
	if err != nil {
		return err
	}

	log.Info("Database seeding completed",
		zap.Int("universities", universities),
		zap.Int("companies", companies),
		zap.Int("internships", internships))
	return nil
}

// CreateAdmin creates the admin user if the email is not taken yet
func CreateAdmin(db *gorm.DB, email, password string) error {
	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		Name:     "Placify Admin",
		Email:    email,
		Password: hashed,
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	logger.GetLogger().Info("Admin user created", zap.String("email", email))
	return nil
}

func seedUniversities(db *gorm.DB) (int, error) {
	universities := []models.University{
		{Name: "Northfield Institute of Technology", Website: "https://nit.example.edu", Address: "Austin, TX", IsVerified: true},
		{Name: "Lakeside State University", Website: "https://lsu.example.edu", Address: "Chicago, IL", IsVerified: true},
		{Name: "Harbor City College", Website: "https://hcc.example.edu", Address: "San Diego, CA", IsVerified: true},
	}

	created := 0
	for i := range universities {
		result := db.Where(models.University{Name: universities[i].Name}).FirstOrCreate(&universities[i])
		if result.Error != nil {
			return created, fmt.Errorf("failed to seed university %s: %w", universities[i].Name, result.Error)
		}
		created += int(result.RowsAffected)
	}
	return created, nil
}

func seedCompaniesAndInternships(db *gorm.DB) (int, int, error) {
	type seedCompany struct {
		company     models.Company
		internships []models.Internship
	}

	deadline := time.Now().UTC().AddDate(0, 2, 0)

	data := []seedCompany{
		{
			company: models.Company{Name: "Brightwave Labs", Industry: "Software", City: "Austin", Country: "USA", Size: "51-200", IsVerified: true},
			internships: []models.Internship{
				{Title: "Backend Intern", Description: "Build Go services for our scheduling platform.", Location: "Austin", JobType: models.JobTypeInternship, ExperienceLevel: "fresher", Status: models.InternshipActive, IsPaid: true, DurationWeeks: 12, MaxApplicants: 50, ApplicationDeadline: &deadline},
				{Title: "Frontend Intern (Part-Time)", Description: "Work on the React dashboard ten hours a week.", Location: "Austin", JobType: models.JobTypePartTime, ExperienceLevel: "entry", Status: models.InternshipActive, DurationWeeks: 16},
			},
		},
		{
			company: models.Company{Name: "Northstar Analytics", Industry: "Data", City: "Remote", Country: "USA", Size: "11-50", IsVerified: true},
			internships: []models.Internship{
				{Title: "Full-Time Analyst", Description: "Own weekly KPI reporting for clients.", Location: "Remote", IsRemote: true, JobType: models.JobTypeFullTime, ExperienceLevel: "entry", Status: models.InternshipActive, IsPaid: true},
				{Title: "Data Engineering Intern", Description: "Maintain ingestion pipelines.", Location: "New York, NY", JobType: models.JobTypeInternship, ExperienceLevel: "fresher", Status: models.InternshipDraft},
			},
		},
	}

	companies, internships := 0, 0
	for _, d := range data {
		company := d.company
		result := db.Where(models.Company{Name: company.Name}).FirstOrCreate(&company)
		if result.Error != nil {
			return companies, internships, fmt.Errorf("failed to seed company %s: %w", company.Name, result.Error)
		}
		if result.RowsAffected == 0 {
			continue
		}
		companies++

		for _, internship := range d.internships {
			internship.CompanyID = company.ID
			if err := db.Create(&internship).Error; err != nil {
				return companies, internships, fmt.Errorf("failed to seed internship %s: %w", internship.Title, err)
			}
			internships++
		}
	}
	return companies, internships, nil
}

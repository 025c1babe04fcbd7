package config

import (
	"errors"
	"os"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/pkg/password"
)

// Seeder handles database seeding
type Seeder struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, logger zerolog.Logger) *Seeder {
	return &Seeder{db: db, logger: logger}
}

// Run executes all seeders. Every step is idempotent, so running the
// seeder on each startup is safe.
func (s *Seeder) Run() error {
	if err := s.seedSuperAdmin(); err != nil {
		return err
	}
	if err := s.seedReportTypes(); err != nil {
		return err
	}
	if err := s.seedCategories(); err != nil {
		return err
	}
	s.logger.Info().Msg("database seeding completed")
	return nil
}

// seedSuperAdmin bootstraps the first super admin account. The password
// comes from SEED_ADMIN_PASSWORD; without it no account is created, which
// keeps default credentials out of production.
func (s *Seeder) seedSuperAdmin() error {
	var count int64
	if err := s.db.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	plain := os.Getenv("SEED_ADMIN_PASSWORD")
	if plain == "" {
		s.logger.Warn().Msg("no admin accounts exist and SEED_ADMIN_PASSWORD is unset, skipping admin seed")
		return nil
	}
	if len(plain) < 8 {
		return errors.New("SEED_ADMIN_PASSWORD must be at least 8 characters")
	}

	hashed, err := password.Hash(plain)
	if err != nil {
		return err
	}

	admin := &models.Admin{
		Username: getEnv("SEED_ADMIN_USERNAME", "superadmin"),
		Email:    getEnv("SEED_ADMIN_EMAIL", "admin@skillswap.local"),
		Password: hashed,
		FullName: "Super Admin",
		Role:     models.AdminRoleSuperAdmin,
		Status:   models.AdminStatusActive,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	s.logger.Info().Str("username", admin.Username).Msg("super admin account created")
	return nil
}

// seedReportTypes installs the default moderation vocabulary
func (s *Seeder) seedReportTypes() error {
	types := []models.ReportType{
		{Name: "Spam", Slug: "spam", Description: "Repetitive or irrelevant content", EntityType: models.ReportEntityAll, DisplayOrder: 1, IsActive: true},
		{Name: "Scam or Fraud", Slug: "scam-or-fraud", Description: "Attempts to defraud other users", EntityType: models.ReportEntityAll, DisplayOrder: 2, IsActive: true},
		{Name: "Inappropriate Content", Slug: "inappropriate-content", Description: "Offensive or adult content", EntityType: models.ReportEntityAll, DisplayOrder: 3, IsActive: true},
		{Name: "Misleading Listing", Slug: "misleading-listing", Description: "Listing does not match what is delivered", EntityType: models.ReportEntityService, DisplayOrder: 4, IsActive: true},
		{Name: "Unrealistic Demand", Slug: "unrealistic-demand", Description: "Demand with impossible terms or budget", EntityType: models.ReportEntityDemand, DisplayOrder: 5, IsActive: true},
		{Name: "Harassment", Slug: "harassment", Description: "Abusive behaviour towards other users", EntityType: models.ReportEntityUser, DisplayOrder: 6, IsActive: true},
		{Name: "Impersonation", Slug: "impersonation", Description: "Pretending to be someone else", EntityType: models.ReportEntityUser, DisplayOrder: 7, IsActive: true},
	}

	for _, rt := range types {
		var existing models.ReportType
		err := s.db.Where("slug = ?", rt.Slug).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.db.Create(&rt).Error; err != nil {
				return err
			}
			s.logger.Debug().Str("slug", rt.Slug).Msg("report type seeded")
		} else if err != nil {
			return err
		}
	}
	return nil
}

// seedCategories installs a starter category set for fresh installs
func (s *Seeder) seedCategories() error {
	var count int64
	if err := s.db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []models.Category{
		{Name: "Tutoring", Description: "Language lessons, school subjects and exam prep", IsActive: true},
		{Name: "Design", Description: "Graphic, web and product design", IsActive: true},
		{Name: "Programming", Description: "Software development and technical help", IsActive: true},
		{Name: "Home & Repair", Description: "Handiwork, repairs and household help", IsActive: true},
		{Name: "Fitness", Description: "Personal training and coaching", IsActive: true},
		{Name: "Other", Description: "Everything else", IsActive: true},
	}

	for _, c := range categories {
		if err := s.db.Create(&c).Error; err != nil {
			return err
		}
	}

	s.logger.Info().Int("count", len(categories)).Msg("starter categories seeded")
	return nil
}

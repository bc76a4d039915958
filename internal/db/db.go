package db

import (
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/talkthroughit/therapy-api/internal/config"
	"github.com/talkthroughit/therapy-api/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Client{},
		&models.Provider{},
		&models.Specialty{},
		&models.AvailabilityDay{},
		&models.Appointment{},
		&models.Message{},
		&models.SavedProvider{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	seedSpecialties(db)

	return db
}

// seedSpecialties keeps the catalogue populated without clobbering edits;
// FirstOrCreate makes reruns no-ops.
func seedSpecialties(db *gorm.DB) {
	seeds := []models.Specialty{
		{Name: "Anxiety", Category: "Mental Health", Description: "Generalized anxiety, panic and phobias"},
		{Name: "Depression", Category: "Mental Health", Description: "Mood disorders and persistent low mood"},
		{Name: "Trauma and PTSD", Category: "Mental Health", Description: "Trauma recovery and post-traumatic stress"},
		{Name: "Stress Management", Category: "Mental Health", Description: "Burnout and day-to-day stress"},
		{Name: "Couples Counseling", Category: "Relationships", Description: "Partner and marital therapy"},
		{Name: "Family Therapy", Category: "Relationships", Description: "Family systems and dynamics"},
		{Name: "Grief and Loss", Category: "Life Transitions", Description: "Bereavement and major loss"},
		{Name: "Career Counseling", Category: "Life Transitions", Description: "Work transitions and burnout"},
		{Name: "Addiction", Category: "Behavioral Health", Description: "Substance use and behavioral addictions"},
		{Name: "Eating Disorders", Category: "Behavioral Health", Description: "Disordered eating and body image"},
		{Name: "ADHD", Category: "Neurodevelopmental", Description: "Attention and executive-function support"},
		{Name: "Child and Adolescent", Category: "Age Groups", Description: "Therapy for children and teens"},
	}

	for _, s := range seeds {
		if err := db.Where("name = ?", s.Name).FirstOrCreate(&s).Error; err != nil {
			log.Warn().Err(err).Str("specialty", s.Name).Msg("failed to seed specialty")
		}
	}
}

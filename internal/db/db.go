package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"voterreg/internal/models"
	"voterreg/internal/votercard"
)

var DB *gorm.DB

// Init opens the Postgres connection and migrates the schema.
func Init(dsn string) {
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("connection to db failed:", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatal("Failed to get db from GORM: ", err)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	fmt.Println("(SUCCESS): connected to database successfully")

	if err = DB.AutoMigrate(&models.VoterApplication{}); err != nil {
		log.Fatal("AutoMigration failed for VoterApplication: ", err)
	}
}

// ApplicationStore is the gorm-backed votercard.RecordStore.
type ApplicationStore struct {
	db *gorm.DB
}

func NewApplicationStore(gdb *gorm.DB) *ApplicationStore {
	return &ApplicationStore{db: gdb}
}

func (s *ApplicationStore) Create(ctx context.Context, app *models.VoterApplication) error {
	return s.db.WithContext(ctx).Create(app).Error
}

func (s *ApplicationStore) ByVIN(ctx context.Context, vin string) (*models.VoterApplication, error) {
	var app models.VoterApplication
	err := s.db.WithContext(ctx).Where("vin = ?", vin).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, votercard.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *ApplicationStore) List(ctx context.Context, status string) ([]models.VoterApplication, error) {
	var apps []models.VoterApplication
	q := s.db.WithContext(ctx).Order("created_at DESC").Limit(200)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *ApplicationStore) UpdateStatus(ctx context.Context, vin, status string) error {
	res := s.db.WithContext(ctx).Model(&models.VoterApplication{}).
		Where("vin = ?", vin).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return votercard.ErrNotFound
	}
	return nil
}

func (s *ApplicationStore) SetCardURL(ctx context.Context, vin, url string, issuedAt time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.VoterApplication{}).
		Where("vin = ?", vin).
		Updates(map[string]any{"card_url": url, "card_issued_at": issuedAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return votercard.ErrNotFound
	}
	return nil
}

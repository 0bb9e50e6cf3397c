// content/gorm_postgresql.go
package content

import (
	"context"
	"encoding/json"
	"fmt"
	stdlog "log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore serves custom themes from PostgreSQL through GORM.
type GormStore struct {
	db *gorm.DB
}

// ThemeModel is the GORM model for a purchasable custom theme. The word
// list is stored as a JSONB document.
type ThemeModel struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"not null"`
	AccessCode string `gorm:"uniqueIndex;not null"`
	Entries    []byte `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewGormStore(host string, port int, user, password, dbname string) (*GormStore, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&ThemeModel{}); err != nil {
		return nil, err
	}

	return &GormStore{db: db}, nil
}

// CustomTheme looks up a theme by its access code.
func (s *GormStore) CustomTheme(ctx context.Context, accessCode string) (*Theme, error) {
	var model ThemeModel
	err := s.db.WithContext(ctx).Where("access_code = ?", accessCode).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrThemeNotFound
		}
		return nil, err
	}

	var entries []WordEntry
	if err := json.Unmarshal(model.Entries, &entries); err != nil {
		return nil, err
	}

	return &Theme{
		Name:       model.Name,
		AccessCode: model.AccessCode,
		Entries:    entries,
	}, nil
}

// SaveCustomTheme inserts or replaces a custom theme. The lookup and write
// run in one transaction so two provisioning requests for the same access
// code cannot interleave.
func (s *GormStore) SaveCustomTheme(ctx context.Context, theme *Theme) error {
	entries, err := json.Marshal(theme.Entries)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing ThemeModel
		result := tx.Where("access_code = ?", theme.AccessCode).First(&existing)

		if result.Error == gorm.ErrRecordNotFound {
			return tx.Create(&ThemeModel{
				Name:       theme.Name,
				AccessCode: theme.AccessCode,
				Entries:    entries,
			}).Error
		} else if result.Error != nil {
			return result.Error
		}

		existing.Name = theme.Name
		existing.Entries = entries
		existing.UpdatedAt = time.Now()
		return tx.Save(&existing).Error
	})
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

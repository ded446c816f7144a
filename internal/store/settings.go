package store

import (
	"errors"  // Error inspection
	"strconv" // Numeric setting parsing

	"gorm.io/gorm" // GORM ORM library

	"rfx_ecoverse/internal/domain" // Domain models
	"rfx_ecoverse/internal/errs"   // Error taxonomy
)

// GetSetting returns the setting stored under key
func GetSetting(db *gorm.DB, key string) (*domain.PlatformSetting, error) {
	var setting domain.PlatformSetting
	if err := db.Where("`key` = ?", key).First(&setting).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.New(errs.NotFound, "Setting not found")
		}
		return nil, err
	}
	return &setting, nil
}

// ListSettings returns every platform setting
func ListSettings(db *gorm.DB) ([]domain.PlatformSetting, error) {
	var settings []domain.PlatformSetting
	err := db.Find(&settings).Error
	return settings, err
}

// UpsertSetting creates the setting on first call and updates it after,
// converging on the latest value. An empty description keeps the stored one.
// The created flag tells the handler whether to respond 201 or 200.
func UpsertSetting(db *gorm.DB, key, value, description string) (*domain.PlatformSetting, bool, error) {
	if key == "" {
		return nil, false, errs.New(errs.Validation, "Setting key is required")
	}
	var setting domain.PlatformSetting
	err := db.Where("`key` = ?", key).First(&setting).Error
	if err == gorm.ErrRecordNotFound {
		setting = domain.PlatformSetting{Key: key, Value: value, Description: description}
		createErr := db.Create(&setting).Error
		if createErr == nil {
			return &setting, true, nil
		}
		if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
			return nil, false, createErr
		}
		// A concurrent first write landed between the lookup and the
		// insert; the unique index picked the winner, converge onto it.
		if err := db.Where("`key` = ?", key).First(&setting).Error; err != nil {
			return nil, false, err
		}
	} else if err != nil {
		return nil, false, err
	}
	fields := map[string]any{"value": value}
	if description != "" {
		fields["description"] = description // Keep the stored description otherwise
	}
	if err := db.Model(&setting).Updates(fields).Error; err != nil {
		return nil, false, err
	}
	return &setting, false, nil
}

// SettingFloat reads a numeric setting, falling back to def when the
// setting is absent or not a number.
func SettingFloat(db *gorm.DB, key string, def float64) float64 {
	setting, err := GetSetting(db, key)
	if err != nil {
		return def
	}
	if v, err := strconv.ParseFloat(setting.Value, 64); err == nil {
		return v
	}
	return def
}

// Package ledger owns the append-only transaction log and the denormalized
// RFX balance on the user record. The two are only ever written together,
// inside one database transaction, so the balance field never drifts from
// the log it summarizes.
package ledger

import (
	"rfx_ecoverse/internal/domain" // Domain models
	"rfx_ecoverse/internal/errs"   // Error taxonomy

	"gorm.io/gorm" // GORM ORM library
)

// Credit appends a ledger entry and applies its signed amount to the user's
// denormalized balance atomically. The balance update is a relative SQL
// expression, not a read-modify-write, so concurrent credits to the same
// user cannot lose updates.
func Credit(db *gorm.DB, userID uint, amount float64, currency, category string) (*domain.Transaction, error) {
	tx := &domain.Transaction{
		UserID:   userID,   // Owning user
		Amount:   amount,   // Signed amount
		Currency: currency, // Currency tag
		Category: category, // Display category
	}
	err := db.Transaction(func(dbtx *gorm.DB) error {
		if amount == 0 {
			// A zero delta changes no row and MySQL reports only changed
			// rows, so existence has to be checked directly here.
			var count int64
			if err := dbtx.Model(&domain.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return errs.New(errs.NotFound, "User not found") // No such user
			}
		} else {
			// Apply the amount to the denormalized balance
			res := dbtx.Model(&domain.User{}).
				Where("id = ?", userID).
				Update("rfx_balance", gorm.Expr("rfx_balance + ?", amount))
			if res.Error != nil {
				return res.Error // Rollback on database error
			}
			if res.RowsAffected == 0 {
				return errs.New(errs.NotFound, "User not found") // No such user
			}
		}
		// Append the immutable ledger entry
		if err := dbtx.Create(tx).Error; err != nil {
			return err // Rollback on insert failure
		}
		return nil // Commit
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// Balance reads the denormalized balance for a user
func Balance(db *gorm.DB, userID uint) (float64, error) {
	var user domain.User
	if err := db.Select("id", "rfx_balance").First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, errs.New(errs.NotFound, "User not found")
		}
		return 0, err
	}
	return user.RFXBalance, nil
}

// History returns a user's ledger entries, newest first
func History(db *gorm.DB, userID uint) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := db.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&txs).Error
	return txs, err
}

// AggregateByCategory sums all ledger entries matching the given categories
// and currency, used for platform-wide reporting.
func AggregateByCategory(db *gorm.DB, categories []string, currency string) (float64, error) {
	var total float64
	err := db.Model(&domain.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("category IN ? AND currency = ?", categories, currency).
		Scan(&total).Error
	return total, err
}

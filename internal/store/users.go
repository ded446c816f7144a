// Package store implements the persistence operations for users, platform
// settings, notifications and password resets. Uniqueness is enforced by
// database indexes, never by check-then-insert, so a duplicate-key error
// from the store is the sole source of truth for conflicts.
package store

import (
	"errors" // Error inspection
	"strings"

	"gorm.io/gorm" // GORM ORM library

	"rfx_ecoverse/internal/domain" // Domain models
	"rfx_ecoverse/internal/errs"   // Error taxonomy
	"rfx_ecoverse/internal/utils"  // Hashing and referral codes
)

// CreateUserInput carries everything needed to provision an account
type CreateUserInput struct {
	Username     string      // Required, stored lowercase
	Email        string      // Required, stored lowercase
	Password     string      // Required plaintext, hashed here
	Role         domain.Role // Defaults to user when empty
	WelcomeBonus float64     // RFX credited at creation, 0 to skip
	ReferredBy   string      // Referral code used at signup, optional
	BcryptCost   int         // Hashing work factor
}

// CreateUser persists a new account. The welcome bonus is written to the
// denormalized balance and to the ledger inside the same transaction, so
// the two can never disagree for a fresh account.
func CreateUser(db *gorm.DB, in CreateUserInput) (*domain.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, errs.New(errs.Validation, "Please enter all fields")
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser // Default tier
	}
	if !role.Valid() {
		return nil, errs.New(errs.Validation, "Invalid role")
	}
	hash, err := utils.HashPassword(in.Password, in.BcryptCost) // Hash the plaintext once, here
	if err != nil {
		return nil, err
	}
	code := utils.NewReferralCode() // Shareable code, uniqueness enforced by index
	user := &domain.User{
		Username:     strings.ToLower(in.Username), // Lowercase for the unique index
		Email:        strings.ToLower(in.Email),
		Password:     hash,
		Role:         role,
		RFXBalance:   in.WelcomeBonus, // Denormalized balance starts at the bonus
		Achievements: []string{},
		ReferralCode: &code,
		Avatar:       domain.DefaultAvatar,
	}
	if in.ReferredBy != "" {
		ref := in.ReferredBy
		user.ReferredBy = &ref // Remember which code brought them in
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err // Rollback, inspected below
		}
		if in.WelcomeBonus > 0 {
			// Ledger entry for the welcome bonus, same transaction as the balance
			bonus := &domain.Transaction{
				UserID:   user.ID,
				Amount:   in.WelcomeBonus,
				Currency: domain.CurrencyRFX,
				Category: domain.CategoryBonus,
			}
			if err := tx.Create(bonus).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.New(errs.Conflict, "User already exists")
		}
		return nil, err
	}
	user.Password = "" // Never hand the hash back
	return user, nil
}

// FindByEmail looks a user up by email. The password hash is excluded from
// the loaded columns unless explicitly requested, mirroring the
// privacy-by-default read path.
func FindByEmail(db *gorm.DB, email string, includeHash bool) (*domain.User, error) {
	query := db
	if !includeHash {
		query = query.Omit("password") // Leave the hash out of the SELECT
	}
	var user domain.User
	if err := query.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.New(errs.NotFound, "User not found")
		}
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by primary key, hash excluded
func FindByID(db *gorm.DB, id uint) (*domain.User, error) {
	var user domain.User
	if err := db.Omit("password").First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.New(errs.NotFound, "User not found")
		}
		return nil, err
	}
	return &user, nil
}

// FindByReferralCode resolves a referral code to its owner, hash excluded
func FindByReferralCode(db *gorm.DB, code string) (*domain.User, error) {
	var user domain.User
	if err := db.Omit("password").Where("referral_code = ?", code).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.New(errs.NotFound, "Referral code not found")
		}
		return nil, err
	}
	return &user, nil
}

// ProfilePatch holds the updatable profile fields. Nil means keep the
// current value (merge-patch, not replace).
type ProfilePatch struct {
	Username    *string // New username
	Email       *string // New email
	Avatar      *string // New avatar URL
	NewPassword *string // New plaintext password, hashed on the way in
	BcryptCost  int     // Hashing work factor
}

// UpdateProfile applies a partial update to a user. Only a newly supplied
// password is hashed; unrelated updates never touch the stored hash.
func UpdateProfile(db *gorm.DB, id uint, patch ProfilePatch) (*domain.User, error) {
	if err := applyProfilePatch(db, id, patch); err != nil {
		return nil, err
	}
	return FindByID(db, id)
}

// applyProfilePatch writes the supplied fields, leaving the rest untouched.
// It runs on whatever connection it is handed, so callers can compose it
// with other writes inside one transaction.
func applyProfilePatch(db *gorm.DB, id uint, patch ProfilePatch) error {
	fields := map[string]any{}
	if patch.Username != nil {
		fields["username"] = strings.ToLower(*patch.Username)
	}
	if patch.Email != nil {
		fields["email"] = strings.ToLower(*patch.Email)
	}
	if patch.Avatar != nil {
		fields["avatar"] = *patch.Avatar
	}
	if patch.NewPassword != nil {
		hash, err := utils.HashPassword(*patch.NewPassword, patch.BcryptCost)
		if err != nil {
			return err
		}
		fields["password"] = hash
	}
	if len(fields) > 0 {
		res := db.Model(&domain.User{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return errs.New(errs.Conflict, "Username or email already taken")
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.New(errs.NotFound, "User not found")
		}
	}
	return nil
}

// UpdateRole changes a user's role, refusing to demote the last remaining
// super admin. The count and the update run in the same transaction so two
// concurrent demotions cannot both slip past the guard.
func UpdateRole(db *gorm.DB, id uint, newRole domain.Role) (*domain.User, error) {
	if !newRole.Valid() {
		return nil, errs.New(errs.Validation, "Invalid role")
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		return applyRoleChange(tx, id, newRole)
	})
	if err != nil {
		return nil, err
	}
	return FindByID(db, id)
}

// applyRoleChange performs the guarded role transition inside the caller's
// transaction.
func applyRoleChange(tx *gorm.DB, id uint, newRole domain.Role) error {
	var user domain.User
	if err := tx.Select("id", "role").First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.New(errs.NotFound, "User not found")
		}
		return err
	}
	if user.Role == domain.RoleSuperAdmin && newRole != domain.RoleSuperAdmin {
		if err := lastSuperAdminGuard(tx); err != nil {
			return err
		}
	}
	return tx.Model(&domain.User{}).Where("id = ?", id).Update("role", newRole).Error
}

// UpdateAdmin applies a merge-patch and an optional role transition to an
// admin account as one atomic unit. A role change refused by the
// last-super-admin guard rolls the whole patch back, so a rejected request
// never leaves a half-applied rename behind.
func UpdateAdmin(db *gorm.DB, id uint, patch ProfilePatch, newRole *domain.Role) (*domain.User, error) {
	if newRole != nil && !newRole.Valid() {
		return nil, errs.New(errs.Validation, "Invalid role")
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := applyProfilePatch(tx, id, patch); err != nil {
			return err
		}
		if newRole != nil {
			return applyRoleChange(tx, id, *newRole)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FindByID(db, id)
}

// DemoteAdmin is the admin-removal flow: the account is kept and its role
// drops to user. Physical deletion is not part of the roster management.
func DemoteAdmin(db *gorm.DB, id uint) error {
	_, err := UpdateRole(db, id, domain.RoleUser)
	return err
}

// lastSuperAdminGuard fails when at most one super admin remains. The
// platform must never reach a state with zero super admins.
func lastSuperAdminGuard(tx *gorm.DB) error {
	var remaining int64
	if err := tx.Model(&domain.User{}).Where("role = ?", domain.RoleSuperAdmin).Count(&remaining).Error; err != nil {
		return err
	}
	if remaining <= 1 {
		return errs.New(errs.Invariant, "Cannot remove the last super admin")
	}
	return nil
}

// ListAdmins returns every admin and super admin, hash excluded
func ListAdmins(db *gorm.DB) ([]domain.User, error) {
	var admins []domain.User
	err := db.Omit("password").
		Where("role IN ?", []domain.Role{domain.RoleAdmin, domain.RoleSuperAdmin}).
		Find(&admins).Error
	return admins, err
}

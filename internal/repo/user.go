package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rjweb/boilerplate/internal/models"
)

// FindByEmail looks a user up by email. The password hash is omitted
// unless includeHash is set; only the login path ever asks for it.
func (r *UserRepo) FindByEmail(ctx context.Context, email string, includeHash bool) (*models.User, error) {
	q := r.DB.WithContext(ctx)
	if !includeHash {
		q = q.Omit("password_hash")
	}
	var user models.User
	if err := q.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Omit("password_hash").Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create inserts the user. Uniqueness rides on the email unique index,
// so a racing duplicate surfaces here as ErrUserAlreadyExists instead of
// a second row.
func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// Update applies a partial change. id and created_at are immutable and
// silently dropped from the field set.
func (r *UserRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	delete(fields, "id")
	delete(fields, "created_at")
	if len(fields) == 0 {
		return nil
	}
	result := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.DB.WithContext(ctx).Omit("password_hash").Order("created_at").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteByEmailAndRole removes records matching both email and role.
// Used by the master bootstrap to replace the configured master account.
func (r *UserRepo) DeleteByEmailAndRole(ctx context.Context, email, role string) error {
	return r.DB.WithContext(ctx).Where("email = ? AND role = ?", email, role).Delete(&models.User{}).Error
}

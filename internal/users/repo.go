package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arielsonkoue/mboashop-backend/pkg/db/models"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindEmailByID resolves only the email column for the given user.
func (r *Repository) FindEmailByID(ctx context.Context, id uuid.UUID) (string, error) {
	var email string
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Pluck("email", &email).Error
	if err != nil {
		return "", err
	}
	if email == "" {
		return "", gorm.ErrRecordNotFound
	}
	return email, nil
}

// AdminContact is the reachable contact surface of an admin account.
type AdminContact struct {
	Email string
	Phone *string
}

// FindAdmins lists the contact details of active admin accounts.
func (r *Repository) FindAdmins(ctx context.Context) ([]AdminContact, error) {
	var rows []models.User
	err := r.db.WithContext(ctx).
		Where("is_admin = ? AND is_active = ?", true, true).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	contacts := make([]AdminContact, 0, len(rows))
	for _, row := range rows {
		contacts = append(contacts, AdminContact{Email: row.Email, Phone: row.Phone})
	}
	return contacts, nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

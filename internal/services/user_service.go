package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/grcworks/audittrail/internal/metrics"
	"github.com/grcworks/audittrail/internal/models"
	"github.com/grcworks/audittrail/internal/repository"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already in use for tenant")
	ErrRoleNotFound = errors.New("role not found")
)

type UserService struct {
	db    *gorm.DB
	users repository.Repository[models.User]
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, users: repository.New[models.User](db)}
}

// Create validates and persists a new user. Email is unique per tenant only;
// the same address may exist under different tenants.
func (s *UserService) Create(user *models.User, password string) error {
	if user.TenantID == "" || strings.TrimSpace(user.Email) == "" {
		return errors.New("tenant id and email are required")
	}

	taken, err := s.users.Exists("tenant_id = ? AND email = ?", user.TenantID, user.Email)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}
	if password != "" {
		if err := user.SetPassword(password); err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
	}

	s.users.Add(user)
	if _, err := s.users.SaveChanges(); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// GetByEmail retrieves a user by tenant-scoped email.
func (s *UserService) GetByEmail(tenantID, email string) (*models.User, error) {
	user, err := s.users.SingleOrDefault("tenant_id = ? AND email = ?", tenantID, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// AssignRole links the user to a role. Assigning twice is a no-op.
func (s *UserService) AssignRole(userID, roleID string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	roles := repository.New[models.Role](s.db)
	role, err := roles.GetByID(roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return ErrRoleNotFound
	}

	link := models.UserRole{UserID: userID, RoleID: roleID}
	return s.db.Save(&link).Error
}

// Roles returns the user's live roles ordered by priority.
func (s *UserService) Roles(userID string) ([]models.Role, error) {
	var roles []models.Role
	err := s.db.Model(&models.Role{}).
		Joins("JOIN user_roles ur ON ur.role_id = roles.id").
		Where("ur.user_id = ?", userID).
		Scopes(repository.NotDeleted).
		Order("priority").
		Find(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("list user roles: %w", err)
	}
	return roles, nil
}

// Delete logically deletes the user and removes its role links.
func (s *UserService) Delete(id string) error {
	user, err := s.users.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		users := repository.New[models.User](tx)
		users.Delete(user)
		if _, err := users.SaveChanges(); err != nil {
			return err
		}
		return tx.Where("user_id = ?", id).Delete(&models.UserRole{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	metrics.IncSoftDelete()
	return nil
}

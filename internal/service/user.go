package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/quizhub/quizhub-api/internal/domain"
	"github.com/quizhub/quizhub-api/internal/repository"
)

var (
	ErrUserNotFound = repository.ErrUserNotFound

	ErrEmailImmutable = errors.New("email cannot be changed")
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	Delete(ctx context.Context, id uint) error
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return users, nil
}

// UpdateUser applies a partial self-update; nil fields keep their stored value.
// Only the user themselves may update their record, and email is immutable.
func (s *UserService) UpdateUser(ctx context.Context, userID uint, update domain.UserUpdate, actingUserID uint) (domain.User, error) {
	if userID != actingUserID {
		return domain.User{}, ErrNoAccess
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Surname != nil {
		user.Surname = *update.Surname
	}
	if update.Age != nil {
		user.Age = *update.Age
	}
	if update.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
		if err != nil {
			return domain.User{}, err
		}
		user.Password = string(hash)
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// DeleteUser removes the user's own record.
func (s *UserService) DeleteUser(ctx context.Context, userID, actingUserID uint) error {
	if userID != actingUserID {
		return ErrNoAccess
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/quizhub/quizhub-api/internal/domain"
	"github.com/quizhub/quizhub-api/internal/repository"
)

var (
	ErrCompanyNotFound    = repository.ErrCompanyNotFound
	ErrCompanyTitleExists = repository.ErrCompanyTitleExists
	ErrNotAnEmployee      = repository.ErrNotAnEmployee
	ErrNotAnAdmin         = repository.ErrNotAnAdmin
	ErrInviteNotFound     = repository.ErrInviteNotFound
	ErrRequestNotFound    = repository.ErrRequestNotFound

	// ErrNoAccess is returned whenever the acting user lacks the
	// ownership/admin relationship an operation requires.
	ErrNoAccess = errors.New("you have no access")
)

type CompanyRepository interface {
	Create(ctx context.Context, company domain.Company) (domain.Company, error)
	FindByID(ctx context.Context, id uint) (domain.Company, error)
	FindWithMembers(ctx context.Context, id uint) (domain.Company, error)
	FindVisible(ctx context.Context) ([]domain.Company, error)
	Update(ctx context.Context, company domain.Company) (domain.Company, error)
	UpdateVisibility(ctx context.Context, id uint, isVisible bool) error
	Delete(ctx context.Context, id uint) error

	IsEmployee(ctx context.Context, companyID, userID uint) (bool, error)
	IsAdmin(ctx context.Context, companyID, userID uint) (bool, error)
	RemoveEmployee(ctx context.Context, companyID, userID uint) error
	RemoveEmployeeCascade(ctx context.Context, companyID, userID uint) error
	AddAdmin(ctx context.Context, companyID, userID uint) error
	RemoveAdmin(ctx context.Context, companyID, userID uint) error

	CreateInvite(ctx context.Context, companyID, userID uint) (domain.Invite, error)
	FindInvite(ctx context.Context, companyID, userID uint) (domain.Invite, error)
	AcceptInvite(ctx context.Context, inviteID, companyID, userID uint) error
	CreateRequest(ctx context.Context, companyID, userID uint) (domain.Request, error)
	FindRequest(ctx context.Context, companyID, userID uint) (domain.Request, error)
	AcceptRequest(ctx context.Context, requestID, companyID, userID uint) error
}

type MemberLookup interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type CompanyService struct {
	repo               CompanyRepository
	users              MemberLookup
	strictAdminRemoval bool
}

// NewCompanyService builds the membership graph service. With strictAdminRemoval
// enabled, removing an employee also revokes any admin membership, so admin
// status can never outlive employee status.
func NewCompanyService(repo CompanyRepository, users MemberLookup, strictAdminRemoval bool) *CompanyService {
	return &CompanyService{
		repo:               repo,
		users:              users,
		strictAdminRemoval: strictAdminRemoval,
	}
}

func (s *CompanyService) CreateCompany(ctx context.Context, company domain.Company, ownerID uint) (domain.Company, error) {
	company.OwnerID = ownerID

	created, err := s.repo.Create(ctx, company)
	if err != nil {
		return domain.Company{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *CompanyService) GetCompany(ctx context.Context, id uint) (domain.Company, error) {
	company, err := s.repo.FindWithMembers(ctx, id)
	if err != nil {
		return domain.Company{}, fmt.Errorf("s.repo.FindWithMembers -> %w", err)
	}

	return company, nil
}

func (s *CompanyService) ListVisibleCompanies(ctx context.Context) ([]domain.Company, error) {
	companies, err := s.repo.FindVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindVisible -> %w", err)
	}

	return companies, nil
}

// UpdateCompany applies a partial update. Owner-only.
func (s *CompanyService) UpdateCompany(ctx context.Context, companyID uint, update domain.CompanyUpdate, actingUserID uint) (domain.Company, error) {
	company, err := s.requireOwner(ctx, companyID, actingUserID)
	if err != nil {
		return domain.Company{}, err
	}

	if update.Title != nil {
		company.Title = *update.Title
	}
	if update.Description != nil {
		company.Description = *update.Description
	}

	updated, err := s.repo.Update(ctx, company)
	if err != nil {
		return domain.Company{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// ChangeVisibility flips the public listing flag. Owner-only.
func (s *CompanyService) ChangeVisibility(ctx context.Context, companyID uint, isVisible bool, actingUserID uint) error {
	if _, err := s.requireOwner(ctx, companyID, actingUserID); err != nil {
		return err
	}

	if err := s.repo.UpdateVisibility(ctx, companyID, isVisible); err != nil {
		return fmt.Errorf("s.repo.UpdateVisibility -> %w", err)
	}

	return nil
}

// DeleteCompany removes the company and everything owned through it. Owner-only.
func (s *CompanyService) DeleteCompany(ctx context.Context, companyID, actingUserID uint) error {
	if _, err := s.requireOwner(ctx, companyID, actingUserID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, companyID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *CompanyService) IsOwner(ctx context.Context, companyID, userID uint) (bool, error) {
	company, err := s.repo.FindByID(ctx, companyID)
	if err != nil {
		return false, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return company.OwnerID == userID, nil
}

func (s *CompanyService) IsAdmin(ctx context.Context, companyID, userID uint) (bool, error) {
	return s.repo.IsAdmin(ctx, companyID, userID)
}

func (s *CompanyService) IsEmployee(ctx context.Context, companyID, userID uint) (bool, error) {
	return s.repo.IsEmployee(ctx, companyID, userID)
}

// RequireManagementRights is the shared access gate: the action is allowed iff
// the acting user is the company's owner or one of its admins.
func (s *CompanyService) RequireManagementRights(ctx context.Context, companyID, actingUserID uint) error {
	company, err := s.repo.FindByID(ctx, companyID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if company.OwnerID == actingUserID {
		return nil
	}

	isAdmin, err := s.repo.IsAdmin(ctx, companyID, actingUserID)
	if err != nil {
		return fmt.Errorf("s.repo.IsAdmin -> %w", err)
	}
	if !isAdmin {
		return ErrNoAccess
	}

	return nil
}

// EnsureCompanyExists gates reads that only need existence, not membership.
func (s *CompanyService) EnsureCompanyExists(ctx context.Context, companyID uint) error {
	if _, err := s.repo.FindByID(ctx, companyID); err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return nil
}

// InviteUser creates a company-initiated membership offer. Owner-only.
func (s *CompanyService) InviteUser(ctx context.Context, companyID, userID, actingUserID uint) (domain.Invite, error) {
	if _, err := s.requireOwner(ctx, companyID, actingUserID); err != nil {
		return domain.Invite{}, err
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return domain.Invite{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	invite, err := s.repo.CreateInvite(ctx, companyID, userID)
	if err != nil {
		return domain.Invite{}, fmt.Errorf("s.repo.CreateInvite -> %w", err)
	}

	return invite, nil
}

// AcceptInvite is performed by the invited user; acceptance also adds the user
// to the company's employees, atomically with spending the invite.
func (s *CompanyService) AcceptInvite(ctx context.Context, companyID, actingUserID uint) error {
	invite, err := s.repo.FindInvite(ctx, companyID, actingUserID)
	if err != nil {
		return fmt.Errorf("s.repo.FindInvite -> %w", err)
	}

	if err := s.repo.AcceptInvite(ctx, invite.ID, companyID, actingUserID); err != nil {
		return fmt.Errorf("s.repo.AcceptInvite -> %w", err)
	}

	return nil
}

// CreateRequest is a user-initiated ask to join the company.
func (s *CompanyService) CreateRequest(ctx context.Context, companyID, actingUserID uint) (domain.Request, error) {
	if err := s.EnsureCompanyExists(ctx, companyID); err != nil {
		return domain.Request{}, err
	}

	request, err := s.repo.CreateRequest(ctx, companyID, actingUserID)
	if err != nil {
		return domain.Request{}, fmt.Errorf("s.repo.CreateRequest -> %w", err)
	}

	return request, nil
}

// AcceptRequest is owner-only; acceptance also adds the requester to
// employees, atomically with spending the request.
func (s *CompanyService) AcceptRequest(ctx context.Context, companyID, userID, actingUserID uint) error {
	if _, err := s.requireOwner(ctx, companyID, actingUserID); err != nil {
		return err
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return fmt.Errorf("s.users.FindByID -> %w", err)
	}

	request, err := s.repo.FindRequest(ctx, companyID, userID)
	if err != nil {
		return fmt.Errorf("s.repo.FindRequest -> %w", err)
	}

	if err := s.repo.AcceptRequest(ctx, request.ID, companyID, userID); err != nil {
		return fmt.Errorf("s.repo.AcceptRequest -> %w", err)
	}

	return nil
}

// RemoveEmployee drops the user from the workforce. Owner-only. With strict
// admin removal the admin membership is revoked in the same call.
func (s *CompanyService) RemoveEmployee(ctx context.Context, companyID, userID, actingUserID uint) error {
	if _, err := s.requireOwner(ctx, companyID, actingUserID); err != nil {
		return err
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return fmt.Errorf("s.users.FindByID -> %w", err)
	}

	if s.strictAdminRemoval {
		if err := s.repo.RemoveEmployeeCascade(ctx, companyID, userID); err != nil {
			return fmt.Errorf("s.repo.RemoveEmployeeCascade -> %w", err)
		}

		return nil
	}

	if err := s.repo.RemoveEmployee(ctx, companyID, userID); err != nil {
		return fmt.Errorf("s.repo.RemoveEmployee -> %w", err)
	}

	return nil
}

// AppointAdmin grants management rights. Owner-only; the candidate must already
// be an employee. Idempotent.
func (s *CompanyService) AppointAdmin(ctx context.Context, companyID, userID, actingUserID uint) error {
	if _, err := s.requireOwner(ctx, companyID, actingUserID); err != nil {
		return err
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return fmt.Errorf("s.users.FindByID -> %w", err)
	}

	isEmployee, err := s.repo.IsEmployee(ctx, companyID, userID)
	if err != nil {
		return fmt.Errorf("s.repo.IsEmployee -> %w", err)
	}
	if !isEmployee {
		return ErrNotAnEmployee
	}

	if err := s.repo.AddAdmin(ctx, companyID, userID); err != nil {
		return fmt.Errorf("s.repo.AddAdmin -> %w", err)
	}

	return nil
}

// RemoveAdmin revokes management rights. Owner-only.
func (s *CompanyService) RemoveAdmin(ctx context.Context, companyID, userID, actingUserID uint) error {
	if _, err := s.requireOwner(ctx, companyID, actingUserID); err != nil {
		return err
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return fmt.Errorf("s.users.FindByID -> %w", err)
	}

	if err := s.repo.RemoveAdmin(ctx, companyID, userID); err != nil {
		return fmt.Errorf("s.repo.RemoveAdmin -> %w", err)
	}

	return nil
}

func (s *CompanyService) requireOwner(ctx context.Context, companyID, actingUserID uint) (domain.Company, error) {
	company, err := s.repo.FindByID(ctx, companyID)
	if err != nil {
		return domain.Company{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if company.OwnerID != actingUserID {
		return domain.Company{}, ErrNoAccess
	}

	return company, nil
}

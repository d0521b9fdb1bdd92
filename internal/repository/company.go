package repository

import (
	"context"
	"fmt"

	"github.com/quizhub/quizhub-api/internal/domain"
	"github.com/quizhub/quizhub-api/internal/repository/dao"
)

var (
	ErrCompanyNotFound    = dao.ErrCompanyNotFound
	ErrCompanyTitleExists = dao.ErrCompanyTitleExists
	ErrNotAnEmployee      = dao.ErrNotAnEmployee
	ErrNotAnAdmin         = dao.ErrNotAnAdmin
	ErrInviteNotFound     = dao.ErrInviteNotFound
	ErrRequestNotFound    = dao.ErrRequestNotFound
)

type CompanyDAO interface {
	Insert(ctx context.Context, company dao.Company) (dao.Company, error)
	FindByID(ctx context.Context, id uint) (dao.Company, error)
	FindWithMembers(ctx context.Context, id uint) (dao.Company, error)
	FindVisible(ctx context.Context) ([]dao.Company, error)
	Update(ctx context.Context, company dao.Company) (dao.Company, error)
	UpdateVisibility(ctx context.Context, id uint, isVisible bool) error
	Delete(ctx context.Context, id uint) error

	IsEmployee(ctx context.Context, companyID, userID uint) (bool, error)
	IsAdmin(ctx context.Context, companyID, userID uint) (bool, error)
	RemoveEmployee(ctx context.Context, companyID, userID uint) error
	RemoveEmployeeCascade(ctx context.Context, companyID, userID uint) error
	AddAdmin(ctx context.Context, companyID, userID uint) error
	RemoveAdmin(ctx context.Context, companyID, userID uint) error

	InsertInvite(ctx context.Context, invite dao.Invite) (dao.Invite, error)
	FindInvite(ctx context.Context, companyID, userID uint) (dao.Invite, error)
	AcceptInvite(ctx context.Context, inviteID, companyID, userID uint) error
	InsertRequest(ctx context.Context, request dao.Request) (dao.Request, error)
	FindRequest(ctx context.Context, companyID, userID uint) (dao.Request, error)
	AcceptRequest(ctx context.Context, requestID, companyID, userID uint) error
}

type CompanyRepository struct {
	dao CompanyDAO
}

func NewCompanyRepository(dao CompanyDAO) *CompanyRepository {
	return &CompanyRepository{
		dao: dao,
	}
}

func (r *CompanyRepository) Create(ctx context.Context, company domain.Company) (domain.Company, error) {
	created, err := r.dao.Insert(ctx, dao.Company{
		Title:       company.Title,
		Description: company.Description,
		IsVisible:   company.IsVisible,
		OwnerID:     company.OwnerID,
	})
	if err != nil {
		return domain.Company{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *CompanyRepository) FindByID(ctx context.Context, id uint) (domain.Company, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Company{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *CompanyRepository) FindWithMembers(ctx context.Context, id uint) (domain.Company, error) {
	found, err := r.dao.FindWithMembers(ctx, id)
	if err != nil {
		return domain.Company{}, fmt.Errorf("r.dao.FindWithMembers -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *CompanyRepository) FindVisible(ctx context.Context) ([]domain.Company, error) {
	found, err := r.dao.FindVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindVisible -> %w", err)
	}

	companies := make([]domain.Company, len(found))
	for i, c := range found {
		companies[i] = r.daoToDomain(c)
	}

	return companies, nil
}

func (r *CompanyRepository) Update(ctx context.Context, company domain.Company) (domain.Company, error) {
	updated, err := r.dao.Update(ctx, dao.Company{
		ID:          company.ID,
		Title:       company.Title,
		Description: company.Description,
	})
	if err != nil {
		return domain.Company{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *CompanyRepository) UpdateVisibility(ctx context.Context, id uint, isVisible bool) error {
	if err := r.dao.UpdateVisibility(ctx, id, isVisible); err != nil {
		return fmt.Errorf("r.dao.UpdateVisibility -> %w", err)
	}

	return nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *CompanyRepository) IsEmployee(ctx context.Context, companyID, userID uint) (bool, error) {
	return r.dao.IsEmployee(ctx, companyID, userID)
}

func (r *CompanyRepository) IsAdmin(ctx context.Context, companyID, userID uint) (bool, error) {
	return r.dao.IsAdmin(ctx, companyID, userID)
}

func (r *CompanyRepository) RemoveEmployee(ctx context.Context, companyID, userID uint) error {
	if err := r.dao.RemoveEmployee(ctx, companyID, userID); err != nil {
		return fmt.Errorf("r.dao.RemoveEmployee -> %w", err)
	}

	return nil
}

func (r *CompanyRepository) RemoveEmployeeCascade(ctx context.Context, companyID, userID uint) error {
	if err := r.dao.RemoveEmployeeCascade(ctx, companyID, userID); err != nil {
		return fmt.Errorf("r.dao.RemoveEmployeeCascade -> %w", err)
	}

	return nil
}

func (r *CompanyRepository) AddAdmin(ctx context.Context, companyID, userID uint) error {
	if err := r.dao.AddAdmin(ctx, companyID, userID); err != nil {
		return fmt.Errorf("r.dao.AddAdmin -> %w", err)
	}

	return nil
}

func (r *CompanyRepository) RemoveAdmin(ctx context.Context, companyID, userID uint) error {
	if err := r.dao.RemoveAdmin(ctx, companyID, userID); err != nil {
		return fmt.Errorf("r.dao.RemoveAdmin -> %w", err)
	}

	return nil
}

func (r *CompanyRepository) CreateInvite(ctx context.Context, companyID, userID uint) (domain.Invite, error) {
	created, err := r.dao.InsertInvite(ctx, dao.Invite{
		UserID:    userID,
		CompanyID: companyID,
	})
	if err != nil {
		return domain.Invite{}, fmt.Errorf("r.dao.InsertInvite -> %w", err)
	}

	return r.inviteDaoToDomain(created), nil
}

func (r *CompanyRepository) FindInvite(ctx context.Context, companyID, userID uint) (domain.Invite, error) {
	found, err := r.dao.FindInvite(ctx, companyID, userID)
	if err != nil {
		return domain.Invite{}, fmt.Errorf("r.dao.FindInvite -> %w", err)
	}

	return r.inviteDaoToDomain(found), nil
}

func (r *CompanyRepository) AcceptInvite(ctx context.Context, inviteID, companyID, userID uint) error {
	if err := r.dao.AcceptInvite(ctx, inviteID, companyID, userID); err != nil {
		return fmt.Errorf("r.dao.AcceptInvite -> %w", err)
	}

	return nil
}

func (r *CompanyRepository) CreateRequest(ctx context.Context, companyID, userID uint) (domain.Request, error) {
	created, err := r.dao.InsertRequest(ctx, dao.Request{
		UserID:    userID,
		CompanyID: companyID,
	})
	if err != nil {
		return domain.Request{}, fmt.Errorf("r.dao.InsertRequest -> %w", err)
	}

	return r.requestDaoToDomain(created), nil
}

func (r *CompanyRepository) FindRequest(ctx context.Context, companyID, userID uint) (domain.Request, error) {
	found, err := r.dao.FindRequest(ctx, companyID, userID)
	if err != nil {
		return domain.Request{}, fmt.Errorf("r.dao.FindRequest -> %w", err)
	}

	return r.requestDaoToDomain(found), nil
}

func (r *CompanyRepository) AcceptRequest(ctx context.Context, requestID, companyID, userID uint) error {
	if err := r.dao.AcceptRequest(ctx, requestID, companyID, userID); err != nil {
		return fmt.Errorf("r.dao.AcceptRequest -> %w", err)
	}

	return nil
}

func (r *CompanyRepository) daoToDomain(c dao.Company) domain.Company {
	return domain.Company{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		IsVisible:   c.IsVisible,
		OwnerID:     c.OwnerID,
		Employees:   r.usersDaoToDomain(c.Employees),
		Admins:      r.usersDaoToDomain(c.Admins),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (r *CompanyRepository) usersDaoToDomain(users []dao.User) []domain.User {
	if users == nil {
		return nil
	}

	converted := make([]domain.User, len(users))
	for i, u := range users {
		converted[i] = domain.User{
			ID:        u.ID,
			Name:      u.Name,
			Surname:   u.Surname,
			Age:       u.Age,
			Email:     u.Email,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		}
	}

	return converted
}

func (r *CompanyRepository) inviteDaoToDomain(i dao.Invite) domain.Invite {
	return domain.Invite{
		ID:         i.ID,
		UserID:     i.UserID,
		CompanyID:  i.CompanyID,
		IsAccepted: i.IsAccepted,
	}
}

func (r *CompanyRepository) requestDaoToDomain(q dao.Request) domain.Request {
	return domain.Request{
		ID:         q.ID,
		UserID:     q.UserID,
		CompanyID:  q.CompanyID,
		IsAccepted: q.IsAccepted,
	}
}

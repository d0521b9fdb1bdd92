package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizhub/quizhub-api/internal/domain"
	"github.com/quizhub/quizhub-api/internal/repository"
)

type membershipKey struct {
	companyID uint
	userID    uint
}

// fakeCompanyRepo is an in-memory CompanyRepository with the same idempotency
// rules as the real join-table store.
type fakeCompanyRepo struct {
	companies map[uint]domain.Company
	employees map[membershipKey]bool
	admins    map[membershipKey]bool
	invites   map[uint]domain.Invite
	requests  map[uint]domain.Request
	nextID    uint
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{
		companies: make(map[uint]domain.Company),
		employees: make(map[membershipKey]bool),
		admins:    make(map[membershipKey]bool),
		invites:   make(map[uint]domain.Invite),
		requests:  make(map[uint]domain.Request),
	}
}

func (f *fakeCompanyRepo) Create(_ context.Context, company domain.Company) (domain.Company, error) {
	for _, c := range f.companies {
		if c.Title == company.Title {
			return domain.Company{}, repository.ErrCompanyTitleExists
		}
	}

	f.nextID++
	company.ID = f.nextID
	f.companies[company.ID] = company

	return company, nil
}

func (f *fakeCompanyRepo) FindByID(_ context.Context, id uint) (domain.Company, error) {
	company, ok := f.companies[id]
	if !ok {
		return domain.Company{}, repository.ErrCompanyNotFound
	}

	return company, nil
}

func (f *fakeCompanyRepo) FindWithMembers(ctx context.Context, id uint) (domain.Company, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeCompanyRepo) FindVisible(_ context.Context) ([]domain.Company, error) {
	var visible []domain.Company
	for _, c := range f.companies {
		if c.IsVisible {
			visible = append(visible, c)
		}
	}

	return visible, nil
}

func (f *fakeCompanyRepo) Update(_ context.Context, company domain.Company) (domain.Company, error) {
	if _, ok := f.companies[company.ID]; !ok {
		return domain.Company{}, repository.ErrCompanyNotFound
	}
	f.companies[company.ID] = company

	return company, nil
}

func (f *fakeCompanyRepo) UpdateVisibility(_ context.Context, id uint, isVisible bool) error {
	company, ok := f.companies[id]
	if !ok {
		return repository.ErrCompanyNotFound
	}
	company.IsVisible = isVisible
	f.companies[id] = company

	return nil
}

func (f *fakeCompanyRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.companies[id]; !ok {
		return repository.ErrCompanyNotFound
	}
	delete(f.companies, id)

	return nil
}

func (f *fakeCompanyRepo) IsEmployee(_ context.Context, companyID, userID uint) (bool, error) {
	return f.employees[membershipKey{companyID, userID}], nil
}

func (f *fakeCompanyRepo) IsAdmin(_ context.Context, companyID, userID uint) (bool, error) {
	return f.admins[membershipKey{companyID, userID}], nil
}

func (f *fakeCompanyRepo) AddEmployee(_ context.Context, companyID, userID uint) error {
	f.employees[membershipKey{companyID, userID}] = true

	return nil
}

func (f *fakeCompanyRepo) RemoveEmployee(_ context.Context, companyID, userID uint) error {
	key := membershipKey{companyID, userID}
	if !f.employees[key] {
		return repository.ErrNotAnEmployee
	}
	delete(f.employees, key)

	return nil
}

func (f *fakeCompanyRepo) AddAdmin(_ context.Context, companyID, userID uint) error {
	f.admins[membershipKey{companyID, userID}] = true

	return nil
}

func (f *fakeCompanyRepo) RemoveEmployeeCascade(ctx context.Context, companyID, userID uint) error {
	if err := f.RemoveEmployee(ctx, companyID, userID); err != nil {
		return err
	}
	delete(f.admins, membershipKey{companyID, userID})

	return nil
}

func (f *fakeCompanyRepo) RemoveAdmin(_ context.Context, companyID, userID uint) error {
	key := membershipKey{companyID, userID}
	if !f.admins[key] {
		return repository.ErrNotAnAdmin
	}
	delete(f.admins, key)

	return nil
}

func (f *fakeCompanyRepo) CreateInvite(_ context.Context, companyID, userID uint) (domain.Invite, error) {
	f.nextID++
	invite := domain.Invite{ID: f.nextID, CompanyID: companyID, UserID: userID}
	f.invites[invite.ID] = invite

	return invite, nil
}

func (f *fakeCompanyRepo) FindInvite(_ context.Context, companyID, userID uint) (domain.Invite, error) {
	for _, inv := range f.invites {
		if inv.CompanyID == companyID && inv.UserID == userID && !inv.IsAccepted {
			return inv, nil
		}
	}

	return domain.Invite{}, repository.ErrInviteNotFound
}

func (f *fakeCompanyRepo) AcceptInvite(ctx context.Context, inviteID, companyID, userID uint) error {
	invite, ok := f.invites[inviteID]
	if !ok || invite.IsAccepted {
		return repository.ErrInviteNotFound
	}
	invite.IsAccepted = true
	f.invites[inviteID] = invite

	return f.AddEmployee(ctx, companyID, userID)
}

func (f *fakeCompanyRepo) CreateRequest(_ context.Context, companyID, userID uint) (domain.Request, error) {
	f.nextID++
	request := domain.Request{ID: f.nextID, CompanyID: companyID, UserID: userID}
	f.requests[request.ID] = request

	return request, nil
}

func (f *fakeCompanyRepo) FindRequest(_ context.Context, companyID, userID uint) (domain.Request, error) {
	for _, req := range f.requests {
		if req.CompanyID == companyID && req.UserID == userID && !req.IsAccepted {
			return req, nil
		}
	}

	return domain.Request{}, repository.ErrRequestNotFound
}

func (f *fakeCompanyRepo) AcceptRequest(ctx context.Context, requestID, companyID, userID uint) error {
	request, ok := f.requests[requestID]
	if !ok || request.IsAccepted {
		return repository.ErrRequestNotFound
	}
	request.IsAccepted = true
	f.requests[requestID] = request

	return f.AddEmployee(ctx, companyID, userID)
}

type fakeMemberLookup struct {
	users map[uint]domain.User
}

func (f *fakeMemberLookup) FindByID(_ context.Context, id uint) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

const (
	ownerID    = uint(1)
	employeeID = uint(2)
	strangerID = uint(3)
)

func setupCompanyService(t *testing.T, strict bool) (*CompanyService, *fakeCompanyRepo, uint) {
	t.Helper()

	repo := newFakeCompanyRepo()
	users := &fakeMemberLookup{users: map[uint]domain.User{
		ownerID:    {ID: ownerID, Email: "owner@example.com"},
		employeeID: {ID: employeeID, Email: "employee@example.com"},
		strangerID: {ID: strangerID, Email: "stranger@example.com"},
	}}
	svc := NewCompanyService(repo, users, strict)

	company, err := svc.CreateCompany(context.Background(), domain.Company{
		Title:     "Acme",
		IsVisible: true,
	}, ownerID)
	require.NoError(t, err)

	return svc, repo, company.ID
}

func TestCompanyService_CreateCompany_SetsOwner(t *testing.T) {
	svc, repo, companyID := setupCompanyService(t, false)

	company, err := repo.FindByID(context.Background(), companyID)
	require.NoError(t, err)
	assert.Equal(t, ownerID, company.OwnerID)

	isOwner, err := svc.IsOwner(context.Background(), companyID, ownerID)
	require.NoError(t, err)
	assert.True(t, isOwner)
}

func TestCompanyService_UpdateCompany_OwnerOnly(t *testing.T) {
	svc, _, companyID := setupCompanyService(t, false)

	title := "Acme Corp"
	_, err := svc.UpdateCompany(context.Background(), companyID, domain.CompanyUpdate{Title: &title}, strangerID)
	assert.ErrorIs(t, err, ErrNoAccess)

	updated, err := svc.UpdateCompany(context.Background(), companyID, domain.CompanyUpdate{Title: &title}, ownerID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Title)
}

func TestCompanyService_UpdateCompany_NotFound(t *testing.T) {
	svc, _, _ := setupCompanyService(t, false)

	title := "whatever"
	_, err := svc.UpdateCompany(context.Background(), 999, domain.CompanyUpdate{Title: &title}, ownerID)
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestCompanyService_AcceptInvite_AddsEmployee(t *testing.T) {
	svc, _, companyID := setupCompanyService(t, false)

	_, err := svc.InviteUser(context.Background(), companyID, employeeID, ownerID)
	require.NoError(t, err)

	err = svc.AcceptInvite(context.Background(), companyID, employeeID)
	require.NoError(t, err)

	isEmployee, err := svc.IsEmployee(context.Background(), companyID, employeeID)
	require.NoError(t, err)
	assert.True(t, isEmployee)
}

func TestCompanyService_InviteUser_OwnerOnly(t *testing.T) {
	svc, _, companyID := setupCompanyService(t, false)

	_, err := svc.InviteUser(context.Background(), companyID, employeeID, strangerID)
	assert.ErrorIs(t, err, ErrNoAccess)
}

func TestCompanyService_AcceptInvite_NoInvite(t *testing.T) {
	svc, _, companyID := setupCompanyService(t, false)

	err := svc.AcceptInvite(context.Background(), companyID, employeeID)
	assert.ErrorIs(t, err, ErrInviteNotFound)
}

func TestCompanyService_AcceptInvite_SpendsInvite(t *testing.T) {
	svc, _, companyID := setupCompanyService(t, false)

	_, err := svc.InviteUser(context.Background(), companyID, employeeID, ownerID)
	require.NoError(t, err)

	require.NoError(t, svc.AcceptInvite(context.Background(), companyID, employeeID))

	// An accepted invite no longer resolves.
	err = svc.AcceptInvite(context.Background(), companyID, employeeID)
	assert.ErrorIs(t, err, ErrInviteNotFound)
}

func TestCompanyService_AcceptRequest_AddsEmployee(t *testing.T) {
	svc, _, companyID := setupCompanyService(t, false)

	_, err := svc.CreateRequest(context.Background(), companyID, employeeID)
	require.NoError(t, err)

	// Only the owner may approve.
	err = svc.AcceptRequest(context.Background(), companyID, employeeID, strangerID)
	assert.ErrorIs(t, err, ErrNoAccess)

	err = svc.AcceptRequest(context.Background(), companyID, employeeID, ownerID)
	require.NoError(t, err)

	isEmployee, err := svc.IsEmployee(context.Background(), companyID, employeeID)
	require.NoError(t, err)
	assert.True(t, isEmployee)
}

func TestCompanyService_CreateRequest_CompanyMustExist(t *testing.T) {
	svc, _, _ := setupCompanyService(t, false)

	_, err := svc.CreateRequest(context.Background(), 999, employeeID)
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestCompanyService_AppointAdmin_RequiresEmployee(t *testing.T) {
	svc, _, companyID := setupCompanyService(t, false)

	err := svc.AppointAdmin(context.Background(), companyID, employeeID, ownerID)
	assert.ErrorIs(t, err, ErrNotAnEmployee)
}

func TestCompanyService_AppointAdmin_Idempotent(t *testing.T) {
	svc, repo, companyID := setupCompanyService(t, false)

	require.NoError(t, repo.AddEmployee(context.Background(), companyID, employeeID))

	err := svc.AppointAdmin(context.Background(), companyID, employeeID, ownerID)
	require.NoError(t, err)

	// Appointing an existing admin changes nothing and does not error.
	err = svc.AppointAdmin(context.Background(), companyID, employeeID, ownerID)
	require.NoError(t, err)

	isAdmin, err := svc.IsAdmin(context.Background(), companyID, employeeID)
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestCompanyService_RemoveAdmin_KeepsEmployee(t *testing.T) {
	svc, repo, companyID := setupCompanyService(t, false)

	require.NoError(t, repo.AddEmployee(context.Background(), companyID, employeeID))
	require.NoError(t, svc.AppointAdmin(context.Background(), companyID, employeeID, ownerID))

	err := svc.RemoveAdmin(context.Background(), companyID, employeeID, ownerID)
	require.NoError(t, err)

	isAdmin, err := svc.IsAdmin(context.Background(), companyID, employeeID)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	isEmployee, err := svc.IsEmployee(context.Background(), companyID, employeeID)
	require.NoError(t, err)
	assert.True(t, isEmployee)
}

func TestCompanyService_RemoveEmployee_StrictRevokesAdmin(t *testing.T) {
	svc, repo, companyID := setupCompanyService(t, true)

	require.NoError(t, repo.AddEmployee(context.Background(), companyID, employeeID))
	require.NoError(t, svc.AppointAdmin(context.Background(), companyID, employeeID, ownerID))

	err := svc.RemoveEmployee(context.Background(), companyID, employeeID, ownerID)
	require.NoError(t, err)

	isEmployee, err := svc.IsEmployee(context.Background(), companyID, employeeID)
	require.NoError(t, err)
	assert.False(t, isEmployee)

	isAdmin, err := svc.IsAdmin(context.Background(), companyID, employeeID)
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestCompanyService_RemoveEmployee_LaxKeepsAdmin(t *testing.T) {
	svc, repo, companyID := setupCompanyService(t, false)

	require.NoError(t, repo.AddEmployee(context.Background(), companyID, employeeID))
	require.NoError(t, svc.AppointAdmin(context.Background(), companyID, employeeID, ownerID))

	err := svc.RemoveEmployee(context.Background(), companyID, employeeID, ownerID)
	require.NoError(t, err)

	isAdmin, err := svc.IsAdmin(context.Background(), companyID, employeeID)
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestCompanyService_RemoveEmployee_NotAnEmployee(t *testing.T) {
	svc, _, companyID := setupCompanyService(t, false)

	err := svc.RemoveEmployee(context.Background(), companyID, employeeID, ownerID)
	assert.ErrorIs(t, err, ErrNotAnEmployee)
}

func TestCompanyService_RequireManagementRights(t *testing.T) {
	svc, repo, companyID := setupCompanyService(t, false)

	require.NoError(t, svc.RequireManagementRights(context.Background(), companyID, ownerID))

	err := svc.RequireManagementRights(context.Background(), companyID, employeeID)
	assert.ErrorIs(t, err, ErrNoAccess)

	// A plain employee still has no management rights.
	require.NoError(t, repo.AddEmployee(context.Background(), companyID, employeeID))
	err = svc.RequireManagementRights(context.Background(), companyID, employeeID)
	assert.ErrorIs(t, err, ErrNoAccess)

	// An admin does.
	require.NoError(t, svc.AppointAdmin(context.Background(), companyID, employeeID, ownerID))
	require.NoError(t, svc.RequireManagementRights(context.Background(), companyID, employeeID))
}

func TestCompanyService_ChangeVisibility(t *testing.T) {
	svc, _, companyID := setupCompanyService(t, false)

	err := svc.ChangeVisibility(context.Background(), companyID, false, strangerID)
	assert.ErrorIs(t, err, ErrNoAccess)

	require.NoError(t, svc.ChangeVisibility(context.Background(), companyID, false, ownerID))

	visible, err := svc.ListVisibleCompanies(context.Background())
	require.NoError(t, err)
	assert.Empty(t, visible)
}

func TestCompanyService_DeleteCompany_OwnerOnly(t *testing.T) {
	svc, _, companyID := setupCompanyService(t, false)

	err := svc.DeleteCompany(context.Background(), companyID, strangerID)
	assert.ErrorIs(t, err, ErrNoAccess)

	require.NoError(t, svc.DeleteCompany(context.Background(), companyID, ownerID))

	_, err = svc.GetCompany(context.Background(), companyID)
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

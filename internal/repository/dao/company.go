package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrCompanyNotFound    = errors.New("company not found")
	ErrCompanyTitleExists = errors.New("company with this title already exists")
	ErrNotAnEmployee      = errors.New("user is not an employee of this company")
	ErrNotAnAdmin         = errors.New("user is not an admin of this company")
	ErrInviteNotFound     = errors.New("invite not found")
	ErrRequestNotFound    = errors.New("request not found")
)

type Company struct {
	ID uint `gorm:"primaryKey"`

	Title       string `gorm:"unique;not null"`
	Description string
	IsVisible   bool `gorm:"not null;default:true"`

	OwnerID uint `gorm:"not null;index"`
	Owner   User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`

	Employees []User `gorm:"many2many:company_employees;constraint:OnDelete:CASCADE"`
	Admins    []User `gorm:"many2many:company_admins;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Invite struct {
	ID uint `gorm:"primaryKey"`

	UserID    uint    `gorm:"not null;index"`
	User      User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CompanyID uint    `gorm:"not null;index"`
	Company   Company `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`

	IsAccepted bool `gorm:"not null;default:false"`
}

type Request struct {
	ID uint `gorm:"primaryKey"`

	UserID    uint    `gorm:"not null;index"`
	User      User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CompanyID uint    `gorm:"not null;index"`
	Company   Company `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`

	IsAccepted bool `gorm:"not null;default:false"`
}

type CompanyDAO struct {
	db *gorm.DB
}

func NewCompanyDAO(db *gorm.DB) *CompanyDAO {
	return &CompanyDAO{
		db: db,
	}
}

func (d *CompanyDAO) Insert(ctx context.Context, company Company) (Company, error) {
	result := d.db.WithContext(ctx).Create(&company)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `unique constraint "uni_companies_title"`) {
			return Company{}, ErrCompanyTitleExists
		}

		return Company{}, result.Error
	}

	return company, nil
}

func (d *CompanyDAO) FindByID(ctx context.Context, id uint) (Company, error) {
	return findCompany(d.db.WithContext(ctx), id)
}

// FindWithMembers loads the company together with both membership sets.
func (d *CompanyDAO) FindWithMembers(ctx context.Context, id uint) (Company, error) {
	var company Company

	result := d.db.WithContext(ctx).
		Preload("Employees").
		Preload("Admins").
		First(&company, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Company{}, ErrCompanyNotFound
		}

		return Company{}, result.Error
	}

	return company, nil
}

func (d *CompanyDAO) FindVisible(ctx context.Context) ([]Company, error) {
	var companies []Company

	result := d.db.WithContext(ctx).Where("is_visible = ?", true).Order("id").Find(&companies)
	if result.Error != nil {
		return nil, result.Error
	}

	return companies, nil
}

func (d *CompanyDAO) Update(ctx context.Context, company Company) (Company, error) {
	result := d.db.WithContext(ctx).Model(&Company{ID: company.ID}).Updates(map[string]interface{}{
		"title":       company.Title,
		"description": company.Description,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `unique constraint "uni_companies_title"`) {
			return Company{}, ErrCompanyTitleExists
		}

		return Company{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Company{}, ErrCompanyNotFound
	}

	return d.FindByID(ctx, company.ID)
}

func (d *CompanyDAO) UpdateVisibility(ctx context.Context, id uint, isVisible bool) error {
	result := d.db.WithContext(ctx).Model(&Company{ID: id}).Updates(map[string]interface{}{
		"is_visible": isVisible,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCompanyNotFound
	}

	return nil
}

// Delete removes the company. Quizzes, questions, variants, invites, requests
// and both membership join tables go with it through ON DELETE CASCADE.
func (d *CompanyDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Company{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCompanyNotFound
	}

	return nil
}

func (d *CompanyDAO) IsEmployee(ctx context.Context, companyID, userID uint) (bool, error) {
	return isMember(d.db.WithContext(ctx), "company_employees", companyID, userID)
}

func (d *CompanyDAO) IsAdmin(ctx context.Context, companyID, userID uint) (bool, error) {
	return isMember(d.db.WithContext(ctx), "company_admins", companyID, userID)
}

// AddEmployee is idempotent: appending an existing member is a no-op.
func (d *CompanyDAO) AddEmployee(ctx context.Context, companyID, userID uint) error {
	return addEmployee(d.db.WithContext(ctx), companyID, userID)
}

func (d *CompanyDAO) RemoveEmployee(ctx context.Context, companyID, userID uint) error {
	return removeEmployee(d.db.WithContext(ctx), companyID, userID)
}

// RemoveEmployeeCascade drops the employee row and, when the user is also an
// admin, the admin row, in a single transaction. Admin membership can never
// outlive employee membership through this path.
func (d *CompanyDAO) RemoveEmployeeCascade(ctx context.Context, companyID, userID uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := removeEmployee(tx, companyID, userID); err != nil {
			return err
		}

		isAdmin, err := isMember(tx, "company_admins", companyID, userID)
		if err != nil {
			return err
		}
		if isAdmin {
			return removeAdmin(tx, companyID, userID)
		}

		return nil
	})
}

func (d *CompanyDAO) AddAdmin(ctx context.Context, companyID, userID uint) error {
	company, err := findCompany(d.db.WithContext(ctx), companyID)
	if err != nil {
		return err
	}

	user, err := findUser(d.db.WithContext(ctx), userID)
	if err != nil {
		return err
	}

	return d.db.WithContext(ctx).Model(&company).Association("Admins").Append(&user)
}

func (d *CompanyDAO) RemoveAdmin(ctx context.Context, companyID, userID uint) error {
	return removeAdmin(d.db.WithContext(ctx), companyID, userID)
}

func (d *CompanyDAO) InsertInvite(ctx context.Context, invite Invite) (Invite, error) {
	result := d.db.WithContext(ctx).Create(&invite)
	if result.Error != nil {
		return Invite{}, result.Error
	}

	return invite, nil
}

// FindInvite resolves the pending invite; accepted invites are spent.
func (d *CompanyDAO) FindInvite(ctx context.Context, companyID, userID uint) (Invite, error) {
	var invite Invite

	result := d.db.WithContext(ctx).
		First(&invite, "company_id = ? AND user_id = ? AND is_accepted = false", companyID, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Invite{}, ErrInviteNotFound
		}

		return Invite{}, result.Error
	}

	return invite, nil
}

// AcceptInvite marks the invite accepted and adds the user to the employee set
// in one transaction: an accepted invite can never lack its membership row.
func (d *CompanyDAO) AcceptInvite(ctx context.Context, inviteID, companyID, userID uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Invite{ID: inviteID}).Update("is_accepted", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInviteNotFound
		}

		return addEmployee(tx, companyID, userID)
	})
}

func (d *CompanyDAO) InsertRequest(ctx context.Context, request Request) (Request, error) {
	result := d.db.WithContext(ctx).Create(&request)
	if result.Error != nil {
		return Request{}, result.Error
	}

	return request, nil
}

// FindRequest resolves the pending request; accepted requests are spent.
func (d *CompanyDAO) FindRequest(ctx context.Context, companyID, userID uint) (Request, error) {
	var request Request

	result := d.db.WithContext(ctx).
		First(&request, "company_id = ? AND user_id = ? AND is_accepted = false", companyID, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Request{}, ErrRequestNotFound
		}

		return Request{}, result.Error
	}

	return request, nil
}

// AcceptRequest marks the request accepted and adds the requester to the
// employee set in one transaction.
func (d *CompanyDAO) AcceptRequest(ctx context.Context, requestID, companyID, userID uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Request{ID: requestID}).Update("is_accepted", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRequestNotFound
		}

		return addEmployee(tx, companyID, userID)
	})
}

func findCompany(db *gorm.DB, id uint) (Company, error) {
	var company Company

	result := db.First(&company, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Company{}, ErrCompanyNotFound
		}

		return Company{}, result.Error
	}

	return company, nil
}

func findUser(db *gorm.DB, id uint) (User, error) {
	var user User

	result := db.First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func isMember(db *gorm.DB, table string, companyID, userID uint) (bool, error) {
	var count int64

	result := db.Table(table).
		Where("company_id = ? AND user_id = ?", companyID, userID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func addEmployee(db *gorm.DB, companyID, userID uint) error {
	company, err := findCompany(db, companyID)
	if err != nil {
		return err
	}

	user, err := findUser(db, userID)
	if err != nil {
		return err
	}

	return db.Model(&company).Association("Employees").Append(&user)
}

func removeEmployee(db *gorm.DB, companyID, userID uint) error {
	company, err := findCompany(db, companyID)
	if err != nil {
		return err
	}

	isEmployee, err := isMember(db, "company_employees", companyID, userID)
	if err != nil {
		return err
	}
	if !isEmployee {
		return ErrNotAnEmployee
	}

	return db.Model(&company).Association("Employees").Delete(&User{ID: userID})
}

func removeAdmin(db *gorm.DB, companyID, userID uint) error {
	company, err := findCompany(db, companyID)
	if err != nil {
		return err
	}

	isAdmin, err := isMember(db, "company_admins", companyID, userID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return ErrNotAnAdmin
	}

	return db.Model(&company).Association("Admins").Delete(&User{ID: userID})
}

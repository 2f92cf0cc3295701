package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"study-planner/internal/model"
)

// AccountRepository stores credential records and device bindings.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// FindByEmail expects an already normalized (lower-case) address.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, fmt.Errorf("find account: %w", notFound(err))
	}
	return &account, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, fmt.Errorf("find account: %w", notFound(err))
	}
	return &account, nil
}

// BindDevice records accountID as the signed-in account of deviceID,
// replacing any previous binding.
func (r *AccountRepository) BindDevice(ctx context.Context, deviceID, accountID string) error {
	login := model.DeviceLogin{DeviceID: deviceID, AccountID: accountID}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"account_id", "created_at"}),
	}).Create(&login).Error
	if err != nil {
		return fmt.Errorf("bind device: %w", err)
	}
	return nil
}

func (r *AccountRepository) FindDevice(ctx context.Context, deviceID string) (*model.DeviceLogin, error) {
	var login model.DeviceLogin
	if err := r.db.WithContext(ctx).Where("device_id = ?", deviceID).First(&login).Error; err != nil {
		return nil, fmt.Errorf("find device: %w", notFound(err))
	}
	return &login, nil
}

func (r *AccountRepository) UnbindDevice(ctx context.Context, deviceID string) error {
	if err := r.db.WithContext(ctx).Where("device_id = ?", deviceID).
		Delete(&model.DeviceLogin{}).Error; err != nil {
		return fmt.Errorf("unbind device: %w", err)
	}
	return nil
}

func (r *AccountRepository) ListDevices(ctx context.Context) ([]model.DeviceLogin, error) {
	var logins []model.DeviceLogin
	if err := r.db.WithContext(ctx).Order("device_id ASC").Find(&logins).Error; err != nil {
		return nil, err
	}
	return logins, nil
}

package lending

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/chanotech/chanote-backend/internal/domain"
	"github.com/chanotech/chanote-backend/internal/platform/dbctx"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
)

type PaymentRepo interface {
	Create(dbc dbctx.Context, payments []*types.Payment) ([]*types.Payment, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Payment, error)
	GetByLoan(dbc dbctx.Context, loanID uuid.UUID) ([]*types.Payment, error)
	NextPending(dbc dbctx.Context, loanID uuid.UUID) (*types.Payment, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	CountByLoanAndStatus(dbc dbctx.Context, loanID uuid.UUID, status types.PaymentStatus) (int64, error)
}

type paymentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPaymentRepo(db *gorm.DB, baseLog *logger.Logger) PaymentRepo {
	return &paymentRepo{
		db:  db,
		log: baseLog.With("repo", "PaymentRepo"),
	}
}

func (r *paymentRepo) Create(dbc dbctx.Context, payments []*types.Payment) ([]*types.Payment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(payments) == 0 {
		return []*types.Payment{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Payment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var p types.Payment
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepo) GetByLoan(dbc dbctx.Context, loanID uuid.UUID) ([]*types.Payment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Payment
	if err := transaction.WithContext(dbc.Ctx).
		Where("loan_id = ?", loanID).
		Order("installment_no ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *paymentRepo) NextPending(dbc dbctx.Context, loanID uuid.UUID) (*types.Payment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var p types.Payment
	err := transaction.WithContext(dbc.Ctx).
		Where("loan_id = ? AND status = ?", loanID, types.PaymentPending).
		Order("installment_no ASC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Payment{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *paymentRepo) CountByLoanAndStatus(dbc dbctx.Context, loanID uuid.UUID, status types.PaymentStatus) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Payment{}).
		Where("loan_id = ? AND status = ?", loanID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

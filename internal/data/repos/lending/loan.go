package lending

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/chanotech/chanote-backend/internal/domain"
	"github.com/chanotech/chanote-backend/internal/platform/dbctx"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
)

type LoanRepo interface {
	Create(dbc dbctx.Context, loan *types.LoanApplication) (*types.LoanApplication, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LoanApplication, error)
	GetByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.LoanApplication, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type loanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLoanRepo(db *gorm.DB, baseLog *logger.Logger) LoanRepo {
	return &loanRepo{
		db:  db,
		log: baseLog.With("repo", "LoanRepo"),
	}
}

func (r *loanRepo) Create(dbc dbctx.Context, loan *types.LoanApplication) (*types.LoanApplication, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).Create(loan).Error; err != nil {
		return nil, err
	}
	return loan, nil
}

func (r *loanRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LoanApplication, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var loan types.LoanApplication
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&loan).Error; err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepo) GetByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.LoanApplication, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.LoanApplication
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *loanRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.LoanApplication{}).
		Where("id = ?", id).
		Updates(updates).Error
}

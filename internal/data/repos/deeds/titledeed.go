package deeds

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/chanotech/chanote-backend/internal/domain"
	"github.com/chanotech/chanote-backend/internal/platform/dbctx"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
)

type TitleDeedRepo interface {
	Create(dbc dbctx.Context, deeds []*types.TitleDeed) ([]*types.TitleDeed, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.TitleDeed, error)
	GetByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.TitleDeed, error)
	GetByApplication(dbc dbctx.Context, applicationID uuid.UUID) ([]*types.TitleDeed, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	CountByUserAndStatus(dbc dbctx.Context, userID uuid.UUID, status types.ResolutionStatus) (int64, error)
}

type titleDeedRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTitleDeedRepo(db *gorm.DB, baseLog *logger.Logger) TitleDeedRepo {
	return &titleDeedRepo{
		db:  db,
		log: baseLog.With("repo", "TitleDeedRepo"),
	}
}

func (r *titleDeedRepo) Create(dbc dbctx.Context, deeds []*types.TitleDeed) ([]*types.TitleDeed, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(deeds) == 0 {
		return []*types.TitleDeed{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&deeds).Error; err != nil {
		return nil, err
	}
	return deeds, nil
}

func (r *titleDeedRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.TitleDeed, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var d types.TitleDeed
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *titleDeedRepo) GetByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.TitleDeed, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.TitleDeed
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *titleDeedRepo) GetByApplication(dbc dbctx.Context, applicationID uuid.UUID) ([]*types.TitleDeed, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.TitleDeed
	if err := transaction.WithContext(dbc.Ctx).
		Where("application_id = ?", applicationID).
		Order("sort_order ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *titleDeedRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.TitleDeed{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *titleDeedRepo) CountByUserAndStatus(dbc dbctx.Context, userID uuid.UUID, status types.ResolutionStatus) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.TitleDeed{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

package lending

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/chanotech/chanote-backend/internal/domain"
	"github.com/chanotech/chanote-backend/internal/platform/dbctx"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
)

type RewardRepo interface {
	Create(dbc dbctx.Context, reward *types.Reward) (*types.Reward, error)
	GetByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Reward, error)
	TotalPoints(dbc dbctx.Context, userID uuid.UUID) (int64, error)
}

type rewardRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRewardRepo(db *gorm.DB, baseLog *logger.Logger) RewardRepo {
	return &rewardRepo{
		db:  db,
		log: baseLog.With("repo", "RewardRepo"),
	}
}

func (r *rewardRepo) Create(dbc dbctx.Context, reward *types.Reward) (*types.Reward, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).Create(reward).Error; err != nil {
		return nil, err
	}
	return reward, nil
}

func (r *rewardRepo) GetByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Reward, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Reward
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *rewardRepo) TotalPoints(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var total int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Reward{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/chanotech/chanote-backend/internal/data/repos"
	types "github.com/chanotech/chanote-backend/internal/domain"
	"github.com/chanotech/chanote-backend/internal/platform/dbctx"
	"github.com/chanotech/chanote-backend/internal/platform/dol"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
)

// DeedService persists resolution outcomes as durable title-deed records.
type DeedService interface {
	SaveFromAnalysis(ctx context.Context, userID uuid.UUID, ref StorageReference, analysis DeedAnalysis) (*types.TitleDeed, error)
	ConfirmManual(ctx context.Context, userID, deedID uuid.UUID, provinceCode, districtCode, parcelNo string, record *dol.ParcelRecord) (*types.TitleDeed, error)
	AttachToApplication(ctx context.Context, userID, deedID, applicationID uuid.UUID, isPrimary bool, sortOrder int) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.TitleDeed, error)
	SetValuation(ctx context.Context, deedID uuid.UUID, result ValuationResult) error
}

type deedService struct {
	log  *logger.Logger
	repo repos.TitleDeedRepo
}

func NewDeedService(log *logger.Logger, repo repos.TitleDeedRepo) DeedService {
	return &deedService{
		log:  log.With("service", "DeedService"),
		repo: repo,
	}
}

func (s *deedService) SaveFromAnalysis(ctx context.Context, userID uuid.UUID, ref StorageReference, analysis DeedAnalysis) (*types.TitleDeed, error) {
	deed := &types.TitleDeed{
		ID:           uuid.New(),
		UserID:       userID,
		ImageKey:     ref.Key,
		ImageURL:     ref.URL,
		ParcelNo:     analysis.ParcelNo,
		ProvinceName: analysis.Extraction.ProvinceName,
		DistrictName: analysis.Extraction.DistrictName,
		ProvinceCode: analysis.ProvinceCode,
		DistrictCode: analysis.DistrictCode,
		Status:       types.ResolutionNeedsReview,
		StatusNote:   string(analysis.ManualInputType),
	}

	if analysis.Record != nil {
		deed.Status = types.ResolutionAutoResolved
		deed.StatusNote = ""
		applyRecord(deed, analysis.Record)
	} else if analysis.ErrorMessage != "" {
		deed.StatusNote = analysis.ErrorMessage
	}

	created, err := s.repo.Create(dbctx.Context{Ctx: ctx}, []*types.TitleDeed{deed})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

func (s *deedService) ConfirmManual(ctx context.Context, userID, deedID uuid.UUID, provinceCode, districtCode, parcelNo string, record *dol.ParcelRecord) (*types.TitleDeed, error) {
	dbc := dbctx.Context{Ctx: ctx}

	deed, err := s.repo.GetByID(dbc, deedID)
	if err != nil {
		return nil, err
	}
	if deed.UserID != userID {
		return nil, fmt.Errorf("deed does not belong to user")
	}

	updates := map[string]interface{}{
		"province_code": provinceCode,
		"district_code": districtCode,
		"parcel_no":     parcelNo,
		"status":        types.ResolutionConfirmed,
		"status_note":   "",
	}
	if record != nil {
		updates["owner_name"] = record.OwnerName
		updates["land_classification"] = record.LandClassification
		updates["area_rai"] = record.AreaRai
		updates["area_ngan"] = record.AreaNgan
		updates["area_wa"] = record.AreaWa
		updates["latitude"] = record.Latitude
		updates["longitude"] = record.Longitude
		if len(record.Raw) > 0 {
			updates["raw_registry"] = datatypes.JSON(record.Raw)
		}
	}
	if err := s.repo.UpdateFields(dbc, deedID, updates); err != nil {
		return nil, err
	}
	return s.repo.GetByID(dbc, deedID)
}

func (s *deedService) AttachToApplication(ctx context.Context, userID, deedID, applicationID uuid.UUID, isPrimary bool, sortOrder int) error {
	dbc := dbctx.Context{Ctx: ctx}

	deed, err := s.repo.GetByID(dbc, deedID)
	if err != nil {
		return err
	}
	if deed.UserID != userID {
		return fmt.Errorf("deed does not belong to user")
	}

	return s.repo.UpdateFields(dbc, deedID, map[string]interface{}{
		"application_id": applicationID,
		"is_primary":     isPrimary,
		"sort_order":     sortOrder,
	})
}

func (s *deedService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.TitleDeed, error) {
	return s.repo.GetByUser(dbctx.Context{Ctx: ctx}, userID)
}

func (s *deedService) SetValuation(ctx context.Context, deedID uuid.UUID, result ValuationResult) error {
	return s.repo.UpdateFields(dbctx.Context{Ctx: ctx}, deedID, map[string]interface{}{
		"estimated_value_thb": result.EstimatedValue,
		"confidence_percent":  result.Confidence,
	})
}

func applyRecord(deed *types.TitleDeed, record *dol.ParcelRecord) {
	deed.OwnerName = record.OwnerName
	deed.LandClassification = record.LandClassification
	deed.AreaRai = record.AreaRai
	deed.AreaNgan = record.AreaNgan
	deed.AreaWa = record.AreaWa
	deed.Latitude = record.Latitude
	deed.Longitude = record.Longitude
	if record.ParcelNo != "" {
		deed.ParcelNo = record.ParcelNo
	}
	if record.ProvinceName != "" {
		deed.ProvinceName = record.ProvinceName
	}
	if record.DistrictName != "" {
		deed.DistrictName = record.DistrictName
	}
	if len(record.Raw) > 0 {
		deed.RawRegistry = datatypes.JSON(record.Raw)
	}
}

package services

import (
	"context"

	"github.com/chanotech/chanote-backend/internal/platform/dol"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
)

type ManualInputType string

const (
	ManualNone         ManualInputType = ""
	ManualFull         ManualInputType = "full"
	ManualDistrictOnly ManualInputType = "amphur_only"
)

// RegistryClient is the land-registry lookup dependency. *dol.Client
// satisfies it; tests substitute a fake.
type RegistryClient interface {
	FetchParcelRecord(ctx context.Context, provinceCode, districtCode, parcelNo string) (*dol.ParcelRecord, error)
}

// DeedAnalysis is recomputed per call and never stored. Whatever codes were
// resolved before a failure are carried forward so the manual form can be
// pre-filled with the best available guess.
type DeedAnalysis struct {
	Extraction TitleDeedExtraction `json:"extraction"`

	ProvinceCode string `json:"pvCode"`
	DistrictCode string `json:"amCode"`
	ParcelNo     string `json:"parcelNo"`

	NeedsManualInput bool              `json:"needsManualInput"`
	ManualInputType  ManualInputType   `json:"manualInputType"`
	ErrorMessage     string            `json:"errorMessage,omitempty"`
	Record           *dol.ParcelRecord `json:"titleDeedData,omitempty"`
}

type DeedResolutionService interface {
	AnalyzeDeed(ctx context.Context, imageBytes []byte, mimeType string) DeedAnalysis
	LookupByCodes(ctx context.Context, provinceCode, districtCode, parcelNo string) (*dol.ParcelRecord, error)
}

type deedResolutionService struct {
	log        *logger.Logger
	extraction ExtractionService
	refcode    RefCodeService
	registry   RegistryClient
}

func NewDeedResolutionService(log *logger.Logger, extraction ExtractionService, refcode RefCodeService, registry RegistryClient) DeedResolutionService {
	return &deedResolutionService{
		log:        log.With("service", "DeedResolutionService"),
		extraction: extraction,
		refcode:    refcode,
		registry:   registry,
	}
}

// AnalyzeDeed runs the sequential resolution gate. Four terminal outcomes:
// full manual entry, district-only manual entry with the province pre-filled,
// full manual entry with an error message after a registry failure, or a fully
// automatic resolution with the registry record attached.
func (s *deedResolutionService) AnalyzeDeed(ctx context.Context, imageBytes []byte, mimeType string) DeedAnalysis {
	extraction := s.extraction.ExtractTitleDeedFields(ctx, imageBytes, mimeType)
	analysis := DeedAnalysis{
		Extraction: extraction,
		ParcelNo:   extraction.ParcelNo,
	}

	if extraction.ProvinceName == "" {
		analysis.NeedsManualInput = true
		analysis.ManualInputType = ManualFull
		return analysis
	}

	// A resolver error and a clean "not found" route identically: the caller
	// cannot act differently on the distinction.
	provinceCode, err := s.refcode.ResolveProvinceCode(ctx, extraction.ProvinceName)
	if err != nil {
		s.log.Warn("province resolution errored", "province", extraction.ProvinceName, "error", err)
		provinceCode = ""
	}
	if provinceCode == "" {
		analysis.NeedsManualInput = true
		analysis.ManualInputType = ManualFull
		return analysis
	}
	analysis.ProvinceCode = provinceCode

	districtCode, err := s.refcode.ResolveDistrictCode(ctx, extraction.DistrictName, provinceCode)
	if err != nil {
		s.log.Warn("district resolution errored", "district", extraction.DistrictName, "error", err)
		districtCode = ""
	}
	if districtCode == "" {
		analysis.NeedsManualInput = true
		analysis.ManualInputType = ManualDistrictOnly
		return analysis
	}
	analysis.DistrictCode = districtCode

	record, err := s.registry.FetchParcelRecord(ctx, provinceCode, districtCode, extraction.ParcelNo)
	if err != nil {
		s.log.Warn("registry lookup failed during analysis",
			"pv_code", provinceCode, "am_code", districtCode, "error", err)
		analysis.NeedsManualInput = true
		analysis.ManualInputType = ManualFull
		analysis.ErrorMessage = "ไม่สามารถดึงข้อมูลจากกรมที่ดินได้ กรุณาตรวจสอบข้อมูลและยืนยันด้วยตนเอง"
		return analysis
	}

	analysis.Record = record
	return analysis
}

// LookupByCodes is the direct entry point for users who already know their
// codes. Registry errors surface to the caller; there is no deeper fallback.
func (s *deedResolutionService) LookupByCodes(ctx context.Context, provinceCode, districtCode, parcelNo string) (*dol.ParcelRecord, error) {
	return s.registry.FetchParcelRecord(ctx, provinceCode, districtCode, parcelNo)
}

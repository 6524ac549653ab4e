package services

import (
	"context"

	"github.com/chanotech/chanote-backend/internal/normalization"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
	"github.com/chanotech/chanote-backend/internal/platform/openai"
)

// TitleDeedExtraction is best-effort: each field independently may be empty.
// Degraded means the AI call itself failed, as opposed to a deed whose header
// genuinely had nothing readable. Downstream branching treats both the same.
type TitleDeedExtraction struct {
	ProvinceName string `json:"pvName"`
	DistrictName string `json:"amName"`
	ParcelNo     string `json:"parcelNo"`
	Degraded     bool   `json:"-"`
}

type IDCardExtraction struct {
	FullName     string `json:"fullName"`
	IDCardNumber string `json:"idCardNumber"`
	DateOfBirth  string `json:"dateOfBirth"`
	Address      string `json:"address"`
	Degraded     bool   `json:"-"`
}

type ExtractionService interface {
	ExtractTitleDeedFields(ctx context.Context, imageBytes []byte, mimeType string) TitleDeedExtraction
	ExtractIDCardFields(ctx context.Context, imageBytes []byte, mimeType string) IDCardExtraction
}

type extractionService struct {
	log *logger.Logger
	ai  openai.Client
}

func NewExtractionService(log *logger.Logger, ai openai.Client) ExtractionService {
	return &extractionService{
		log: log.With("service", "ExtractionService"),
		ai:  ai,
	}
}

const titleDeedExtractionSystem = `You read Thai land title deed (โฉนดที่ดิน) images.
Extract exactly three fields from the deed header: the province name (จังหวัด),
the district name (อำเภอ), and the parcel number (เลขที่โฉนด).
Return names in Thai as printed. Any digits printed in Thai numerals (๐-๙) must
be converted to Arabic digits (0-9). If a field is not readable, return an empty
string for it. Never guess.`

var titleDeedSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"pvName":   map[string]any{"type": "string"},
		"amName":   map[string]any{"type": "string"},
		"parcelNo": map[string]any{"type": "string"},
	},
	"required":             []string{"pvName", "amName", "parcelNo"},
	"additionalProperties": false,
}

func (s *extractionService) ExtractTitleDeedFields(ctx context.Context, imageBytes []byte, mimeType string) TitleDeedExtraction {
	out, err := s.ai.GenerateJSONWithImages(ctx,
		titleDeedExtractionSystem,
		"Extract the province name, district name, and parcel number from this title deed image.",
		[]openai.ImageInput{{ImageURL: openai.DataURI(mimeType, imageBytes), Detail: "high"}},
		"title_deed_fields", titleDeedSchema,
	)
	if err != nil {
		s.log.Warn("title deed extraction failed, returning empty fields", "error", err)
		return TitleDeedExtraction{Degraded: true}
	}

	// The prompt asks for Arabic digits; the post-pass guarantees it.
	return TitleDeedExtraction{
		ProvinceName: normalization.NormalizeThaiDigits(stringField(out, "pvName")),
		DistrictName: normalization.NormalizeThaiDigits(stringField(out, "amName")),
		ParcelNo:     normalization.NormalizeThaiDigits(stringField(out, "parcelNo")),
	}
}

const idCardExtractionSystem = `You read Thai national ID card images.
Extract the full name, the 13-digit ID card number, the date of birth, and the
address. Any digits printed in Thai numerals (๐-๙) must be converted to Arabic
digits (0-9). If a field is not readable, return an empty string for it.`

var idCardSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"fullName":     map[string]any{"type": "string"},
		"idCardNumber": map[string]any{"type": "string"},
		"dateOfBirth":  map[string]any{"type": "string"},
		"address":      map[string]any{"type": "string"},
	},
	"required":             []string{"fullName", "idCardNumber", "dateOfBirth", "address"},
	"additionalProperties": false,
}

func (s *extractionService) ExtractIDCardFields(ctx context.Context, imageBytes []byte, mimeType string) IDCardExtraction {
	out, err := s.ai.GenerateJSONWithImages(ctx,
		idCardExtractionSystem,
		"Extract the full name, ID card number, date of birth, and address from this ID card image.",
		[]openai.ImageInput{{ImageURL: openai.DataURI(mimeType, imageBytes), Detail: "high"}},
		"id_card_fields", idCardSchema,
	)
	if err != nil {
		s.log.Warn("id card extraction failed, returning empty fields", "error", err)
		return IDCardExtraction{Degraded: true}
	}

	return IDCardExtraction{
		FullName:     normalization.NormalizeThaiDigits(stringField(out, "fullName")),
		IDCardNumber: normalization.NormalizeThaiDigits(stringField(out, "idCardNumber")),
		DateOfBirth:  normalization.NormalizeThaiDigits(stringField(out, "dateOfBirth")),
		Address:      normalization.NormalizeThaiDigits(stringField(out, "address")),
	}
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

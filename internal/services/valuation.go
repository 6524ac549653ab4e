package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chanotech/chanote-backend/internal/platform/dol"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
	"github.com/chanotech/chanote-backend/internal/platform/openai"
)

// ValuationResult with EstimatedValue 0 and Confidence 0 is the sentinel for
// both "refused to try" and "AI call failed"; callers fall back to manual
// value entry either way.
type ValuationResult struct {
	EstimatedValue float64 `json:"estimatedValue"`
	Reasoning      string  `json:"reasoning"`
	Confidence     float64 `json:"confidence"`
}

type SupportingImage struct {
	Data     []byte
	MimeType string
}

type ValuationService interface {
	EvaluateProperty(ctx context.Context, deedImage []byte, deedMimeType string, record *dol.ParcelRecord, supporting []SupportingImage) ValuationResult
}

type valuationService struct {
	log *logger.Logger
	ai  openai.Client
}

func NewValuationService(log *logger.Logger, ai openai.Client) ValuationService {
	return &valuationService{
		log: log.With("service", "ValuationService"),
		ai:  ai,
	}
}

const valuationSystem = `You are a Thai property valuation assistant. Estimate
the market value in THB of the land parcel shown in the title deed image.
Weigh the land area, the registered land-office valuation if present, the
location, and the visual condition of the property in any supporting photos.
Return estimatedValue in THB, a short reasoning in Thai, and a confidence
between 0 and 100.`

var valuationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"estimatedValue": map[string]any{"type": "number"},
		"reasoning":      map[string]any{"type": "string"},
		"confidence":     map[string]any{"type": "number"},
	},
	"required":             []string{"estimatedValue", "reasoning", "confidence"},
	"additionalProperties": false,
}

func (s *valuationService) EvaluateProperty(ctx context.Context, deedImage []byte, deedMimeType string, record *dol.ParcelRecord, supporting []SupportingImage) ValuationResult {
	// The deed image alone is never sufficient grounds for a valuation.
	if emptyRecord(record) && len(supporting) == 0 {
		return ValuationResult{Reasoning: "ข้อมูลไม่เพียงพอสำหรับการประเมินราคา"}
	}

	recordText := "no detailed data"
	if !emptyRecord(record) {
		if b, err := json.Marshal(record); err == nil {
			recordText = string(b)
		}
	}

	images := make([]openai.ImageInput, 0, 1+len(supporting))
	images = append(images, openai.ImageInput{ImageURL: openai.DataURI(deedMimeType, deedImage), Detail: "high"})
	for _, img := range supporting {
		images = append(images, openai.ImageInput{ImageURL: openai.DataURI(img.MimeType, img.Data), Detail: "auto"})
	}

	out, err := s.ai.GenerateJSONWithImages(ctx, valuationSystem,
		fmt.Sprintf("Land registry record: %s\nThe first image is the title deed; any further images show the property.", recordText),
		images, "property_valuation", valuationSchema,
	)
	if err != nil {
		s.log.Warn("valuation call failed, returning sentinel", "error", err)
		return ValuationResult{Reasoning: "ไม่สามารถประเมินราคาได้ในขณะนี้"}
	}

	result := ValuationResult{
		EstimatedValue: numberField(out, "estimatedValue"),
		Reasoning:      stringField(out, "reasoning"),
		Confidence:     numberField(out, "confidence"),
	}
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 100 {
		result.Confidence = 100
	}
	if result.EstimatedValue < 0 {
		result.EstimatedValue = 0
	}
	return result
}

func emptyRecord(r *dol.ParcelRecord) bool {
	return r == nil || (r.ParcelNo == "" && r.OwnerName == "" && len(r.Raw) == 0)
}

func numberField(m map[string]any, key string) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return 0
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/chanotech/chanote-backend/internal/platform/dol"
)

func TestEvaluatePropertyRefusesInsufficientInput(t *testing.T) {
	ai := newFakeAI()
	svc := NewValuationService(testLogger(), ai)

	got := svc.EvaluateProperty(context.Background(), []byte("deed"), "image/jpeg", nil, nil)

	if got.EstimatedValue != 0 || got.Confidence != 0 {
		t.Fatalf("expected zero sentinel, got %+v", got)
	}
	if got.Reasoning == "" {
		t.Fatalf("expected a reasoning string")
	}
	if ai.calls != 0 {
		t.Fatalf("expected zero AI calls, got %d", ai.calls)
	}
}

func TestEvaluatePropertyWithRecord(t *testing.T) {
	ai := newFakeAI()
	ai.responses["property_valuation"] = map[string]any{
		"estimatedValue": 1_500_000.0,
		"reasoning":      "ที่ดินติดถนนใหญ่",
		"confidence":     80.0,
	}
	svc := NewValuationService(testLogger(), ai)

	record := &dol.ParcelRecord{ParcelNo: "56789", OwnerName: "นายสมชาย", AreaRai: "2"}
	got := svc.EvaluateProperty(context.Background(), []byte("deed"), "image/jpeg", record, nil)

	if got.EstimatedValue != 1_500_000 {
		t.Fatalf("expected 1500000, got %v", got.EstimatedValue)
	}
	if got.Confidence != 80 {
		t.Fatalf("expected confidence 80, got %v", got.Confidence)
	}
	if ai.calls != 1 {
		t.Fatalf("expected one AI call, got %d", ai.calls)
	}
}

func TestEvaluatePropertyWithSupportingImagesOnly(t *testing.T) {
	ai := newFakeAI()
	ai.responses["property_valuation"] = map[string]any{
		"estimatedValue": 900_000.0,
		"reasoning":      "ประเมินจากสภาพทรัพย์",
		"confidence":     40.0,
	}
	svc := NewValuationService(testLogger(), ai)

	got := svc.EvaluateProperty(context.Background(), []byte("deed"), "image/jpeg", nil,
		[]SupportingImage{{Data: []byte("photo"), MimeType: "image/jpeg"}})

	if got.EstimatedValue != 900_000 {
		t.Fatalf("expected 900000, got %v", got.EstimatedValue)
	}
	if ai.calls != 1 {
		t.Fatalf("expected one AI call, got %d", ai.calls)
	}
}

func TestEvaluatePropertySentinelOnAIError(t *testing.T) {
	ai := newFakeAI()
	ai.errs["property_valuation"] = errors.New("model overloaded")
	svc := NewValuationService(testLogger(), ai)

	record := &dol.ParcelRecord{ParcelNo: "1"}
	got := svc.EvaluateProperty(context.Background(), []byte("deed"), "image/jpeg", record, nil)

	if got.EstimatedValue != 0 || got.Confidence != 0 {
		t.Fatalf("expected zero sentinel on AI error, got %+v", got)
	}
	if got.Reasoning == "" {
		t.Fatalf("expected a reasoning string")
	}
}

func TestEvaluatePropertyClampsConfidence(t *testing.T) {
	ai := newFakeAI()
	ai.responses["property_valuation"] = map[string]any{
		"estimatedValue": 100.0,
		"reasoning":      "x",
		"confidence":     140.0,
	}
	svc := NewValuationService(testLogger(), ai)

	record := &dol.ParcelRecord{ParcelNo: "1"}
	got := svc.EvaluateProperty(context.Background(), []byte("deed"), "image/jpeg", record, nil)

	if got.Confidence != 100 {
		t.Fatalf("expected confidence clamped to 100, got %v", got.Confidence)
	}
}

package services

import (
	"context"
	"errors"
	"testing"
)

func TestExtractTitleDeedFieldsNormalizesThaiNumerals(t *testing.T) {
	ai := newFakeAI()
	ai.responses["title_deed_fields"] = map[string]any{
		"pvName":   "ชลบุรี",
		"amName":   "ศรีราชา",
		"parcelNo": "๕๖๗๘๙",
	}
	svc := NewExtractionService(testLogger(), ai)

	got := svc.ExtractTitleDeedFields(context.Background(), []byte("img"), "image/jpeg")

	if got.ParcelNo != "56789" {
		t.Fatalf("expected parcel 56789, got %q", got.ParcelNo)
	}
	if got.ProvinceName != "ชลบุรี" || got.DistrictName != "ศรีราชา" {
		t.Fatalf("unexpected names: %+v", got)
	}
	if got.Degraded {
		t.Fatalf("expected non-degraded result")
	}
	for _, r := range got.ParcelNo {
		if r < '0' || r > '9' {
			t.Fatalf("parcel contains non-Arabic digit %q", r)
		}
	}
}

func TestExtractTitleDeedFieldsDegradesOnError(t *testing.T) {
	ai := newFakeAI()
	ai.errs["title_deed_fields"] = errors.New("model timeout")
	svc := NewExtractionService(testLogger(), ai)

	got := svc.ExtractTitleDeedFields(context.Background(), []byte("img"), "image/jpeg")

	if !got.Degraded {
		t.Fatalf("expected degraded result")
	}
	if got.ProvinceName != "" || got.DistrictName != "" || got.ParcelNo != "" {
		t.Fatalf("expected all-empty fields, got %+v", got)
	}
}

func TestExtractIDCardFieldsNormalizesThaiNumerals(t *testing.T) {
	ai := newFakeAI()
	ai.responses["id_card_fields"] = map[string]any{
		"fullName":     "สมชาย ใจดี",
		"idCardNumber": "๑๒๓๔๕๖๗๘๙๐๑๒๓",
		"dateOfBirth":  "๐๑/๐๑/๒๕๓๐",
		"address":      "ศรีราชา ชลบุรี",
	}
	svc := NewExtractionService(testLogger(), ai)

	got := svc.ExtractIDCardFields(context.Background(), []byte("img"), "image/jpeg")

	if got.IDCardNumber != "1234567890123" {
		t.Fatalf("expected normalized id number, got %q", got.IDCardNumber)
	}
	if got.DateOfBirth != "01/01/2530" {
		t.Fatalf("expected normalized date, got %q", got.DateOfBirth)
	}
}

package services

import (
	"context"
	"errors"
	"testing"
)

func TestResolveProvinceCodeViaAI(t *testing.T) {
	ai := newFakeAI()
	ai.responses["province_code_match"] = map[string]any{"code": "20"}
	svc := NewRefCodeService(testLogger(), ai, testProvinces, testAmphurs)

	code, err := svc.ResolveProvinceCode(context.Background(), "ชลบุรี")
	if err != nil {
		t.Fatalf("ResolveProvinceCode: %v", err)
	}
	if code != "20" {
		t.Fatalf("expected code 20, got %q", code)
	}
}

func TestResolveProvinceCodeManualFallbackOnAIError(t *testing.T) {
	ai := newFakeAI()
	ai.errs["province_code_match"] = errors.New("quota exceeded")
	svc := NewRefCodeService(testLogger(), ai, testProvinces, testAmphurs)

	code, err := svc.ResolveProvinceCode(context.Background(), "chonburi")
	if err != nil {
		t.Fatalf("ResolveProvinceCode: %v", err)
	}
	if code != "20" {
		t.Fatalf("expected manual fallback to resolve 20, got %q", code)
	}
}

func TestResolveProvinceCodeAINotFoundIsNotFallback(t *testing.T) {
	// An AI answer of "no match" stands; the manual matcher only runs when
	// the AI call itself fails.
	ai := newFakeAI()
	ai.responses["province_code_match"] = map[string]any{"code": ""}
	svc := NewRefCodeService(testLogger(), ai, testProvinces, testAmphurs)

	code, err := svc.ResolveProvinceCode(context.Background(), "ชลบุรี")
	if err != nil {
		t.Fatalf("ResolveProvinceCode: %v", err)
	}
	if code != "" {
		t.Fatalf("expected empty code, got %q", code)
	}
}

func TestResolveDistrictCodeRequiresProvince(t *testing.T) {
	ai := newFakeAI()
	svc := NewRefCodeService(testLogger(), ai, testProvinces, testAmphurs)

	code, err := svc.ResolveDistrictCode(context.Background(), "ศรีราชา", "")
	if err != nil {
		t.Fatalf("ResolveDistrictCode: %v", err)
	}
	if code != "" {
		t.Fatalf("expected empty code for empty province, got %q", code)
	}
	if ai.calls != 0 {
		t.Fatalf("expected zero AI calls, got %d", ai.calls)
	}
}

func TestResolveDistrictCodeViaAI(t *testing.T) {
	ai := newFakeAI()
	ai.responses["district_code_match"] = map[string]any{"code": "08"}
	svc := NewRefCodeService(testLogger(), ai, testProvinces, testAmphurs)

	code, err := svc.ResolveDistrictCode(context.Background(), "ศรีราชา", "20")
	if err != nil {
		t.Fatalf("ResolveDistrictCode: %v", err)
	}
	if code != "08" {
		t.Fatalf("expected code 08, got %q", code)
	}
}

func TestResolveDistrictCodeManualFallbackOnAIError(t *testing.T) {
	ai := newFakeAI()
	ai.errs["district_code_match"] = errors.New("service unavailable")
	svc := NewRefCodeService(testLogger(), ai, testProvinces, testAmphurs)

	code, err := svc.ResolveDistrictCode(context.Background(), "si racha", "20")
	if err != nil {
		t.Fatalf("ResolveDistrictCode: %v", err)
	}
	if code != "08" {
		t.Fatalf("expected manual fallback to resolve 08, got %q", code)
	}
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/chanotech/chanote-backend/internal/platform/dol"
)

func TestAnalyzeDeedManualFullWhenNothingExtracted(t *testing.T) {
	svc := NewDeedResolutionService(testLogger(),
		&fakeExtraction{result: TitleDeedExtraction{}},
		NewRefCodeService(testLogger(), newFakeAI(), testProvinces, testAmphurs),
		&fakeRegistry{},
	)

	got := svc.AnalyzeDeed(context.Background(), []byte("img"), "image/jpeg")

	if !got.NeedsManualInput || got.ManualInputType != ManualFull {
		t.Fatalf("expected full manual input, got %+v", got)
	}
	if got.ErrorMessage != "" {
		t.Fatalf("expected no error message, got %q", got.ErrorMessage)
	}
}

func TestAnalyzeDeedManualFullWhenProvinceUnresolvable(t *testing.T) {
	ai := newFakeAI()
	ai.responses["province_code_match"] = map[string]any{"code": ""}
	registry := &fakeRegistry{}
	svc := NewDeedResolutionService(testLogger(),
		&fakeExtraction{result: TitleDeedExtraction{ProvinceName: "จังหวัดสมมุติ", DistrictName: "อำเภอสมมุติ", ParcelNo: "123"}},
		NewRefCodeService(testLogger(), ai, testProvinces, testAmphurs),
		registry,
	)

	got := svc.AnalyzeDeed(context.Background(), []byte("img"), "image/jpeg")

	if !got.NeedsManualInput || got.ManualInputType != ManualFull {
		t.Fatalf("expected full manual input, got %+v", got)
	}
	if registry.calls != 0 {
		t.Fatalf("registry should not be called, got %d calls", registry.calls)
	}
}

func TestAnalyzeDeedManualDistrictOnlyWhenDistrictUnresolvable(t *testing.T) {
	ai := newFakeAI()
	ai.responses["province_code_match"] = map[string]any{"code": "20"}
	ai.responses["district_code_match"] = map[string]any{"code": ""}
	registry := &fakeRegistry{}
	svc := NewDeedResolutionService(testLogger(),
		&fakeExtraction{result: TitleDeedExtraction{ProvinceName: "ชลบุรี", DistrictName: "อำเภอสมมุติ", ParcelNo: "123"}},
		NewRefCodeService(testLogger(), ai, testProvinces, testAmphurs),
		registry,
	)

	got := svc.AnalyzeDeed(context.Background(), []byte("img"), "image/jpeg")

	if !got.NeedsManualInput || got.ManualInputType != ManualDistrictOnly {
		t.Fatalf("expected district-only manual input, got %+v", got)
	}
	if got.ProvinceCode != "20" {
		t.Fatalf("expected province pre-filled with 20, got %q", got.ProvinceCode)
	}
	if registry.calls != 0 {
		t.Fatalf("registry should not be called, got %d calls", registry.calls)
	}
}

// Full pipeline: Thai-numeral parcel on the deed, names resolved through the
// two-tier matcher, registry succeeds.
func TestAnalyzeDeedAutoResolvedScenario(t *testing.T) {
	extractionAI := newFakeAI()
	extractionAI.responses["title_deed_fields"] = map[string]any{
		"pvName":   "ชลบุรี",
		"amName":   "ศรีราชา",
		"parcelNo": "๕๖๗๘๙",
	}
	resolverAI := newFakeAI()
	resolverAI.responses["province_code_match"] = map[string]any{"code": "20"}
	resolverAI.responses["district_code_match"] = map[string]any{"code": "08"}

	raw, _ := json.Marshal(map[string]any{"parcelNo": "56789", "ownerName": "นายสมชาย ใจดี"})
	record := &dol.ParcelRecord{
		ParcelNo:           "56789",
		OwnerName:          "นายสมชาย ใจดี",
		LandClassification: "โฉนด",
		AreaRai:            "2",
		AreaNgan:           "1",
		AreaWa:             "50",
		Raw:                raw,
	}
	registry := &fakeRegistry{record: record}

	svc := NewDeedResolutionService(testLogger(),
		NewExtractionService(testLogger(), extractionAI),
		NewRefCodeService(testLogger(), resolverAI, testProvinces, testAmphurs),
		registry,
	)

	got := svc.AnalyzeDeed(context.Background(), []byte("img"), "image/jpeg")

	if got.NeedsManualInput {
		t.Fatalf("expected auto resolution, got %+v", got)
	}
	if got.ParcelNo != "56789" {
		t.Fatalf("expected normalized parcel 56789, got %q", got.ParcelNo)
	}
	if got.ProvinceCode != "20" || got.DistrictCode != "08" {
		t.Fatalf("unexpected codes: %q / %q", got.ProvinceCode, got.DistrictCode)
	}
	if got.Record != record {
		t.Fatalf("expected the registry record attached unmodified")
	}
	if registry.calls != 1 {
		t.Fatalf("expected exactly one registry call, got %d", registry.calls)
	}
}

// Same pipeline but the registry throws: full manual entry with every code
// pre-filled and a user-facing error message.
func TestAnalyzeDeedManualFullWithErrorWhenRegistryFails(t *testing.T) {
	extractionAI := newFakeAI()
	extractionAI.responses["title_deed_fields"] = map[string]any{
		"pvName":   "ชลบุรี",
		"amName":   "ศรีราชา",
		"parcelNo": "๕๖๗๘๙",
	}
	resolverAI := newFakeAI()
	resolverAI.responses["province_code_match"] = map[string]any{"code": "20"}
	resolverAI.responses["district_code_match"] = map[string]any{"code": "08"}
	registry := &fakeRegistry{err: errors.New("portal step 3 failed")}

	svc := NewDeedResolutionService(testLogger(),
		NewExtractionService(testLogger(), extractionAI),
		NewRefCodeService(testLogger(), resolverAI, testProvinces, testAmphurs),
		registry,
	)

	got := svc.AnalyzeDeed(context.Background(), []byte("img"), "image/jpeg")

	if !got.NeedsManualInput || got.ManualInputType != ManualFull {
		t.Fatalf("expected full manual input, got %+v", got)
	}
	if got.ErrorMessage == "" {
		t.Fatalf("expected a user-facing error message")
	}
	if got.ProvinceCode != "20" || got.DistrictCode != "08" || got.ParcelNo != "56789" {
		t.Fatalf("expected pre-filled codes {20, 08, 56789}, got {%q, %q, %q}",
			got.ProvinceCode, got.DistrictCode, got.ParcelNo)
	}
	if got.Record != nil {
		t.Fatalf("expected no record attached")
	}
}

func TestAnalyzeDeedIsDeterministic(t *testing.T) {
	ai := newFakeAI()
	ai.responses["province_code_match"] = map[string]any{"code": "20"}
	ai.responses["district_code_match"] = map[string]any{"code": "08"}
	registry := &fakeRegistry{record: &dol.ParcelRecord{ParcelNo: "99"}}
	svc := NewDeedResolutionService(testLogger(),
		&fakeExtraction{result: TitleDeedExtraction{ProvinceName: "ชลบุรี", DistrictName: "ศรีราชา", ParcelNo: "99"}},
		NewRefCodeService(testLogger(), ai, testProvinces, testAmphurs),
		registry,
	)

	first := svc.AnalyzeDeed(context.Background(), []byte("img"), "image/jpeg")
	second := svc.AnalyzeDeed(context.Background(), []byte("img"), "image/jpeg")

	if first.NeedsManualInput != second.NeedsManualInput ||
		first.ManualInputType != second.ManualInputType ||
		first.ProvinceCode != second.ProvinceCode ||
		first.DistrictCode != second.DistrictCode {
		t.Fatalf("decision not deterministic: %+v vs %+v", first, second)
	}
}

func TestLookupByCodesSurfacesRegistryError(t *testing.T) {
	registry := &fakeRegistry{err: errors.New("lookup failed")}
	svc := NewDeedResolutionService(testLogger(),
		&fakeExtraction{},
		NewRefCodeService(testLogger(), newFakeAI(), testProvinces, testAmphurs),
		registry,
	)

	_, err := svc.LookupByCodes(context.Background(), "20", "08", "56789")
	if err == nil {
		t.Fatalf("expected error to surface")
	}
}

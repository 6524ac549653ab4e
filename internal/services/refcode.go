package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chanotech/chanote-backend/internal/platform/logger"
	"github.com/chanotech/chanote-backend/internal/platform/openai"
	"github.com/chanotech/chanote-backend/internal/refdata"
)

// RefCodeService maps free-text province and district names to registry codes.
// Primary strategy is the AI matcher over the serialized reference table; the
// deterministic manual matcher runs only when the AI call itself errors, never
// when it legitimately answers "no match". Codes stay strings throughout
// because some carry leading zeros.
type RefCodeService interface {
	ResolveProvinceCode(ctx context.Context, provinceName string) (string, error)
	ResolveDistrictCode(ctx context.Context, districtName, provinceCode string) (string, error)
}

type refCodeService struct {
	log       *logger.Logger
	ai        openai.Client
	provinces []refdata.Province
	amphurs   []refdata.Amphur
}

func NewRefCodeService(log *logger.Logger, ai openai.Client, provinces []refdata.Province, amphurs []refdata.Amphur) RefCodeService {
	return &refCodeService{
		log:       log.With("service", "RefCodeService"),
		ai:        ai,
		provinces: provinces,
		amphurs:   amphurs,
	}
}

const codeMatchSystem = `You match Thai place names against a reference table.
Names may be abbreviated, transliterated, or partially written; match flexibly
on substring or partial equivalence in either the Thai or English name.
Return the code of the matching row. If no row is a reasonable match, return an
empty string. Never invent a code that is not in the table.`

var codeMatchSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"code": map[string]any{"type": "string"},
	},
	"required":             []string{"code"},
	"additionalProperties": false,
}

func (s *refCodeService) ResolveProvinceCode(ctx context.Context, provinceName string) (string, error) {
	if provinceName == "" {
		return "", nil
	}

	table, err := json.Marshal(s.provinces)
	if err != nil {
		return "", fmt.Errorf("serialize province table: %w", err)
	}

	out, err := s.ai.GenerateJSON(ctx, codeMatchSystem,
		fmt.Sprintf("Province name: %q\nReference table: %s", provinceName, table),
		"province_code_match", codeMatchSchema,
	)
	if err != nil {
		s.log.Warn("ai province match failed, using manual matcher",
			"province", provinceName, "error", err)
		return refdata.FindProvinceCodeManual(provinceName, s.provinces), nil
	}

	return stringField(out, "code"), nil
}

func (s *refCodeService) ResolveDistrictCode(ctx context.Context, districtName, provinceCode string) (string, error) {
	// District codes are only unique within a province; an unresolved
	// province makes the lookup meaningless.
	if provinceCode == "" {
		return "", nil
	}
	if districtName == "" {
		return "", nil
	}

	filtered := refdata.AmphursForProvince(provinceCode, s.amphurs)
	table, err := json.Marshal(filtered)
	if err != nil {
		return "", fmt.Errorf("serialize district table: %w", err)
	}

	out, err := s.ai.GenerateJSON(ctx, codeMatchSystem,
		fmt.Sprintf("District name: %q (province code %s)\nReference table: %s", districtName, provinceCode, table),
		"district_code_match", codeMatchSchema,
	)
	if err != nil {
		s.log.Warn("ai district match failed, using manual matcher",
			"district", districtName, "province_code", provinceCode, "error", err)
		return refdata.FindAmphurCodeManual(districtName, provinceCode, s.amphurs), nil
	}

	return stringField(out, "code"), nil
}

// Package refdata bundles the static province and amphur (district) reference
// tables used to resolve free-text names from deed images into the numeric
// codes the land-registry portal expects, plus the deterministic manual
// matchers used when the AI-assisted matcher is unavailable.
package refdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/chanotech/chanote-backend/internal/normalization"
)

//go:embed provinces.json amphurs.json
var refFS embed.FS

// Province codes follow the standard two-digit changwat numbering; they are
// carried as strings because leading zeros are significant in amphur codes and
// mixing representations invites padding bugs.
type Province struct {
	Code   string `json:"code"`
	NameTH string `json:"nameTh"`
	NameEN string `json:"nameEn"`
}

// Amphur codes are only meaningful within their owning province. Code "00" is
// a catch-all placeholder present in the source data and never a real match.
type Amphur struct {
	Code         string `json:"code"`
	ProvinceCode string `json:"pvCode"`
	NameTH       string `json:"nameTh"`
	NameEN       string `json:"nameEn"`
}

const sentinelAmphurCode = "00"

var (
	loadOnce  sync.Once
	provinces []Province
	amphurs   []Amphur
	loadErr   error
)

func load() {
	loadOnce.Do(func() {
		raw, err := refFS.ReadFile("provinces.json")
		if err != nil {
			loadErr = fmt.Errorf("read provinces.json: %w", err)
			return
		}
		if err := json.Unmarshal(raw, &provinces); err != nil {
			loadErr = fmt.Errorf("parse provinces.json: %w", err)
			return
		}
		raw, err = refFS.ReadFile("amphurs.json")
		if err != nil {
			loadErr = fmt.Errorf("read amphurs.json: %w", err)
			return
		}
		if err := json.Unmarshal(raw, &amphurs); err != nil {
			loadErr = fmt.Errorf("parse amphurs.json: %w", err)
			return
		}
	})
}

func Provinces() ([]Province, error) {
	load()
	if loadErr != nil {
		return nil, loadErr
	}
	return provinces, nil
}

func Amphurs() ([]Amphur, error) {
	load()
	if loadErr != nil {
		return nil, loadErr
	}
	return amphurs, nil
}

// AmphursForProvince returns the rows belonging to provinceCode, sentinel
// rows excluded.
func AmphursForProvince(provinceCode string, table []Amphur) []Amphur {
	provinceCode = strings.TrimSpace(provinceCode)
	out := make([]Amphur, 0, 16)
	for _, a := range table {
		if a.ProvinceCode != provinceCode || a.Code == sentinelAmphurCode {
			continue
		}
		out = append(out, a)
	}
	return out
}

// FindProvinceCodeManual is the deterministic fallback matcher: exact equality
// against the Thai or English name first (case-insensitive for English), then
// bidirectional substring containment in either name. Returns "" when nothing
// matches. Pure function of its inputs.
func FindProvinceCodeManual(name string, table []Province) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	lower := normalization.ParseInputString(name)

	for _, p := range table {
		if name == p.NameTH || lower == strings.ToLower(p.NameEN) {
			return p.Code
		}
	}
	for _, p := range table {
		if containsEither(name, p.NameTH) || containsEither(lower, strings.ToLower(p.NameEN)) {
			return p.Code
		}
	}
	return ""
}

// FindAmphurCodeManual mirrors FindProvinceCodeManual over the district table,
// pre-filtered to the resolved province. Callers must have resolved a
// non-empty province code first; an empty one short-circuits to "".
func FindAmphurCodeManual(name, provinceCode string, table []Amphur) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(provinceCode) == "" {
		return ""
	}
	candidates := AmphursForProvince(provinceCode, table)
	lower := normalization.ParseInputString(name)

	for _, a := range candidates {
		if name == a.NameTH || lower == strings.ToLower(a.NameEN) {
			return a.Code
		}
	}
	for _, a := range candidates {
		if containsEither(name, a.NameTH) || containsEither(lower, strings.ToLower(a.NameEN)) {
			return a.Code
		}
	}
	return ""
}

func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

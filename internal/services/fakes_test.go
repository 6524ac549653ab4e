package services

import (
	"context"
	"errors"
	"io"

	"github.com/chanotech/chanote-backend/internal/platform/dol"
	"github.com/chanotech/chanote-backend/internal/platform/gcs"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
	"github.com/chanotech/chanote-backend/internal/platform/openai"
	"github.com/chanotech/chanote-backend/internal/refdata"
)

func testLogger() *logger.Logger {
	l, err := logger.New("test")
	if err != nil {
		panic(err)
	}
	return l
}

// fakeAI scripts structured-output responses per schema name and counts calls.
type fakeAI struct {
	calls     int
	responses map[string]map[string]any
	errs      map[string]error
}

func newFakeAI() *fakeAI {
	return &fakeAI{
		responses: map[string]map[string]any{},
		errs:      map[string]error{},
	}
}

func (f *fakeAI) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	f.calls++
	if err := f.errs[schemaName]; err != nil {
		return nil, err
	}
	if resp, ok := f.responses[schemaName]; ok {
		return resp, nil
	}
	return nil, errors.New("no scripted response for " + schemaName)
}

func (f *fakeAI) GenerateJSONWithImages(ctx context.Context, system, user string, images []openai.ImageInput, schemaName string, schema map[string]any) (map[string]any, error) {
	return f.GenerateJSON(ctx, system, user, schemaName, schema)
}

func (f *fakeAI) GenerateText(ctx context.Context, system, user string) (string, error) {
	f.calls++
	return "", errors.New("not scripted")
}

// fakeBucket either stores keys or fails every upload.
type fakeBucket struct {
	failUploads bool
	uploaded    []string
}

func (f *fakeBucket) UploadFile(ctx context.Context, category gcs.UploadCategory, key string, file io.Reader, contentType string) error {
	if f.failUploads {
		return errors.New("bucket unavailable")
	}
	f.uploaded = append(f.uploaded, string(category)+"/"+key)
	return nil
}

func (f *fakeBucket) DeleteFile(ctx context.Context, category gcs.UploadCategory, key string) error {
	return nil
}

func (f *fakeBucket) DownloadFile(ctx context.Context, category gcs.UploadCategory, key string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBucket) GetPublicURL(category gcs.UploadCategory, key string) string {
	return "https://cdn.example.com/" + string(category) + "/" + key
}

// fakeRegistry returns a scripted record or error and counts calls.
type fakeRegistry struct {
	calls  int
	record *dol.ParcelRecord
	err    error
}

func (f *fakeRegistry) FetchParcelRecord(ctx context.Context, provinceCode, districtCode, parcelNo string) (*dol.ParcelRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

// fakeExtraction returns a fixed extraction without touching any AI client.
type fakeExtraction struct {
	result TitleDeedExtraction
}

func (f *fakeExtraction) ExtractTitleDeedFields(ctx context.Context, imageBytes []byte, mimeType string) TitleDeedExtraction {
	return f.result
}

func (f *fakeExtraction) ExtractIDCardFields(ctx context.Context, imageBytes []byte, mimeType string) IDCardExtraction {
	return IDCardExtraction{}
}

// Fixture reference tables used across resolver and decision tests.
var testProvinces = []refdata.Province{
	{Code: "10", NameTH: "กรุงเทพมหานคร", NameEN: "Bangkok"},
	{Code: "20", NameTH: "ชลบุรี", NameEN: "Chonburi"},
	{Code: "50", NameTH: "เชียงใหม่", NameEN: "Chiang Mai"},
}

var testAmphurs = []refdata.Amphur{
	{Code: "00", ProvinceCode: "20", NameTH: "ไม่ระบุ", NameEN: "Unspecified"},
	{Code: "01", ProvinceCode: "20", NameTH: "เมืองชลบุรี", NameEN: "Mueang Chonburi"},
	{Code: "08", ProvinceCode: "20", NameTH: "ศรีราชา", NameEN: "Si Racha"},
	{Code: "01", ProvinceCode: "50", NameTH: "เมืองเชียงใหม่", NameEN: "Mueang Chiang Mai"},
}

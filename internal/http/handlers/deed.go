package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chanotech/chanote-backend/internal/http/middleware"
	"github.com/chanotech/chanote-backend/internal/http/response"
	"github.com/chanotech/chanote-backend/internal/platform/dol"
	"github.com/chanotech/chanote-backend/internal/platform/gcs"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
	"github.com/chanotech/chanote-backend/internal/services"
)

// lookupTimeout caps the manual registry lookup so the form never spins
// indefinitely.
const lookupTimeout = 45 * time.Second

const maxUploadBytes = 20 << 20

type DeedHandler struct {
	log        *logger.Logger
	storage    services.StorageService
	resolution services.DeedResolutionService
	deeds      services.DeedService
	valuation  services.ValuationService
}

func NewDeedHandler(log *logger.Logger, storage services.StorageService, resolution services.DeedResolutionService, deeds services.DeedService, valuation services.ValuationService) *DeedHandler {
	return &DeedHandler{
		log:        log.With("handler", "DeedHandler"),
		storage:    storage,
		resolution: resolution,
		deeds:      deeds,
		valuation:  valuation,
	}
}

func readFormFile(fh *multipart.FileHeader) ([]byte, string, error) {
	if fh.Size > maxUploadBytes {
		return nil, "", fmt.Errorf("file %s exceeds the %d MB limit", fh.Filename, maxUploadBytes>>20)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxUploadBytes {
		return nil, "", fmt.Errorf("file %s exceeds the %d MB limit", fh.Filename, maxUploadBytes>>20)
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return data, mimeType, nil
}

func uploadCategory(raw string) gcs.UploadCategory {
	switch raw {
	case "idcard":
		return gcs.CategoryIDCard
	case "supporting":
		return gcs.CategorySupporting
	default:
		return gcs.CategoryDeed
	}
}

// Upload stores a single image and returns its reference. The response is
// always a success: a dead bucket degrades to an inline data URI.
func (h *DeedHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", fmt.Errorf("image file is required"))
		return
	}
	data, mimeType, err := readFormFile(fh)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
		return
	}

	ref := h.storage.Store(c.Request.Context(), data, mimeType, uploadCategory(c.PostForm("category")), fh.Filename)

	response.RespondOK(c, gin.H{
		"success":  true,
		"imageUrl": ref.URL,
		"imageKey": ref.Key,
	})
}

// UploadBatch uploads supporting images concurrently. Per-file outcomes are
// reported; a partial success is a valid result, not an error.
func (h *DeedHandler) UploadBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_form", err)
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		response.RespondError(c, http.StatusBadRequest, "missing_files", fmt.Errorf("at least one image is required"))
		return
	}

	items := make([]services.BatchUploadItem, 0, len(files))
	for i, fh := range files {
		data, mimeType, err := readFormFile(fh)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
			return
		}
		items = append(items, services.BatchUploadItem{
			Index:    i,
			FileName: fh.Filename,
			Data:     data,
			MimeType: mimeType,
		})
	}

	outcomes := h.storage.StoreBatch(c.Request.Context(), gcs.CategorySupporting, items)

	uploaded := 0
	images := make([]gin.H, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Uploaded {
			uploaded++
		}
		images = append(images, gin.H{
			"imageUrl": o.ImageURL,
			"imageKey": o.ImageKey,
			"fileName": o.FileName,
		})
	}

	response.RespondOK(c, gin.H{
		"success":       uploaded > 0,
		"uploadedCount": uploaded,
		"totalCount":    len(outcomes),
		"images":        images,
	})
}

// Analyze runs the full resolution pipeline on one deed image and persists
// the outcome.
func (h *DeedHandler) Analyze(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", fmt.Errorf("image file is required"))
		return
	}
	data, mimeType, err := readFormFile(fh)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
		return
	}

	ctx := c.Request.Context()
	ref := h.storage.Store(ctx, data, mimeType, gcs.CategoryDeed, fh.Filename)
	analysis := h.resolution.AnalyzeDeed(ctx, data, mimeType)

	deed, err := h.deeds.SaveFromAnalysis(ctx, userID, ref, analysis)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "save_failed", fmt.Errorf("could not save analyzed deed"))
		return
	}

	payload := gin.H{
		"imageUrl": ref.URL,
		"imageKey": ref.Key,
		"deedId":   deed.ID,
		"analysisResult": gin.H{
			"pvName":   analysis.Extraction.ProvinceName,
			"amName":   analysis.Extraction.DistrictName,
			"parcelNo": analysis.ParcelNo,
			"pvCode":   analysis.ProvinceCode,
			"amCode":   analysis.DistrictCode,
		},
		"titleDeedData":    analysis.Record,
		"needsManualInput": analysis.NeedsManualInput,
		"manualInputType":  analysis.ManualInputType,
	}
	if analysis.ErrorMessage != "" {
		payload["errorMessage"] = analysis.ErrorMessage
	}
	response.RespondOK(c, payload)
}

type lookupRequest struct {
	ProvinceCode string `json:"provinceCode" binding:"required"`
	DistrictCode string `json:"districtCode" binding:"required"`
	ParcelNumber string `json:"parcelNumber" binding:"required"`
}

// Lookup is the direct entry point for users who already know their codes.
// Registry errors surface to the caller directly.
func (h *DeedHandler) Lookup(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), lookupTimeout)
	defer cancel()

	record, err := h.resolution.LookupByCodes(ctx, req.ProvinceCode, req.DistrictCode, req.ParcelNumber)
	if err != nil {
		response.RespondError(c, http.StatusBadGateway, "lookup_failed", err)
		return
	}

	response.RespondOK(c, gin.H{
		"success":       true,
		"titleDeedData": record,
	})
}

// Valuation accepts the deed image, an optional registry blob, and optional
// supporting images.
func (h *DeedHandler) Valuation(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", fmt.Errorf("deed image is required"))
		return
	}
	data, mimeType, err := readFormFile(fh)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
		return
	}

	var record *dol.ParcelRecord
	if blob := c.PostForm("registryData"); blob != "" {
		record = &dol.ParcelRecord{}
		if err := json.Unmarshal([]byte(blob), record); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_registry_data", fmt.Errorf("registryData is not valid JSON"))
			return
		}
		record.Raw = json.RawMessage(blob)
	}

	var supporting []services.SupportingImage
	if form, err := c.MultipartForm(); err == nil {
		for _, sfh := range form.File["supporting"] {
			sdata, smime, err := readFormFile(sfh)
			if err != nil {
				response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
				return
			}
			supporting = append(supporting, services.SupportingImage{Data: sdata, MimeType: smime})
		}
	}

	result := h.valuation.EvaluateProperty(c.Request.Context(), data, mimeType, record, supporting)

	if deedID, err := uuid.Parse(c.PostForm("deedId")); err == nil {
		if err := h.deeds.SetValuation(c.Request.Context(), deedID, result); err != nil {
			h.log.Warn("could not persist valuation", "deed_id", deedID.String(), "error", err)
		}
	}

	response.RespondOK(c, gin.H{
		"success":   true,
		"valuation": result,
	})
}

func (h *DeedHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	deeds, err := h.deeds.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_failed", fmt.Errorf("could not list deeds"))
		return
	}
	response.RespondOK(c, gin.H{"deeds": deeds})
}

type confirmRequest struct {
	ProvinceCode string `json:"provinceCode" binding:"required"`
	DistrictCode string `json:"districtCode" binding:"required"`
	ParcelNumber string `json:"parcelNumber" binding:"required"`
}

// Confirm finalizes a manually corrected deed. The registry is consulted with
// the confirmed codes; a failure here does not block the confirmation, the
// codes are simply stored without registry enrichment.
func (h *DeedHandler) Confirm(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	deedID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid deed id"))
		return
	}

	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), lookupTimeout)
	defer cancel()

	record, err := h.resolution.LookupByCodes(ctx, req.ProvinceCode, req.DistrictCode, req.ParcelNumber)
	if err != nil {
		h.log.Warn("registry lookup failed during confirmation, storing codes as-is",
			"deed_id", deedID.String(), "error", err)
		record = nil
	}

	deed, err := h.deeds.ConfirmManual(c.Request.Context(), userID, deedID, req.ProvinceCode, req.DistrictCode, req.ParcelNumber, record)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "confirm_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "deed": deed})
}

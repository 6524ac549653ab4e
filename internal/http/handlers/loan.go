package handlers

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/chanotech/chanote-backend/internal/domain"
	"github.com/chanotech/chanote-backend/internal/http/middleware"
	"github.com/chanotech/chanote-backend/internal/http/response"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
	"github.com/chanotech/chanote-backend/internal/services"
)

type LoanHandler struct {
	log           *logger.Logger
	loans         services.LoanService
	deeds         services.DeedService
	notifications services.NotificationService
}

func NewLoanHandler(log *logger.Logger, loans services.LoanService, deeds services.DeedService, notifications services.NotificationService) *LoanHandler {
	return &LoanHandler{
		log:           log.With("handler", "LoanHandler"),
		loans:         loans,
		deeds:         deeds,
		notifications: notifications,
	}
}

// thbToSatang rounds rather than truncates: most two-decimal THB amounts are
// not exactly representable in float64 and truncation would lose a satang.
func thbToSatang(amountTHB float64) int64 {
	return int64(math.Round(amountTHB * 100))
}

type createLoanRequest struct {
	AmountTHB  float64    `json:"amountTHB" binding:"required,gt=0"`
	TermMonths int        `json:"termMonths" binding:"required,gt=0"`
	Purpose    string     `json:"purpose"`
	DeedID     *uuid.UUID `json:"deedId"`
}

func (h *LoanHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req createLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	amountSatang := thbToSatang(req.AmountTHB)
	loan, err := h.loans.CreateApplication(c.Request.Context(), userID, amountSatang, req.TermMonths, req.Purpose)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "create_failed", err)
		return
	}

	if req.DeedID != nil {
		if err := h.deeds.AttachToApplication(c.Request.Context(), userID, *req.DeedID, loan.ID, true, 0); err != nil {
			h.log.Warn("could not attach deed to application",
				"loan_id", loan.ID.String(), "error", err)
		}
	}

	response.RespondOK(c, gin.H{"loan": loan})
}

func (h *LoanHandler) Submit(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid loan id"))
		return
	}

	loan, err := h.loans.Submit(c.Request.Context(), userID, loanID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "submit_failed", err)
		return
	}

	h.notifyFinalized(c, userID, loan.ID, float64(loan.AmountSatang)/100)

	response.RespondOK(c, gin.H{"loan": loan})
}

// notifyFinalized builds the operations card from the primary deed, when one
// is attached. Notification failures never affect the response.
func (h *LoanHandler) notifyFinalized(c *gin.Context, userID, loanID uuid.UUID, amountTHB float64) {
	summary := services.ApplicationSummary{
		ApplicationID: loanID,
		UserID:        userID,
		AmountTHB:     amountTHB,
	}

	deeds, err := h.deeds.ListByUser(c.Request.Context(), userID)
	if err == nil {
		for _, d := range deeds {
			if d.ApplicationID == nil || *d.ApplicationID != loanID {
				continue
			}
			if summary.OwnerName == "" {
				summary.OwnerName = d.OwnerName
				summary.ProvinceName = d.ProvinceName
				summary.DistrictName = d.DistrictName
				summary.ParcelNo = d.ParcelNo
				summary.Latitude = d.Latitude
				summary.Longitude = d.Longitude
			}
			if len(summary.ImageURLs) < 2 {
				summary.ImageURLs = append(summary.ImageURLs, d.ImageURL)
			}
		}
	}

	h.notifications.NotifyApplicationFinalized(c.Request.Context(), summary)
}

func (h *LoanHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	loans, err := h.loans.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_failed", fmt.Errorf("could not list loans"))
		return
	}
	response.RespondOK(c, gin.H{"loans": loans})
}

func (h *LoanHandler) Get(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid loan id"))
		return
	}

	loan, err := h.loans.GetByID(c.Request.Context(), loanID)
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("loan not found"))
		return
	}
	role, _ := middleware.CurrentRole(c)
	if loan.UserID != userID && role != types.RoleAgent && role != types.RoleAdmin {
		response.RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("forbidden"))
		return
	}
	response.RespondOK(c, gin.H{"loan": loan})
}

func (h *LoanHandler) Payments(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid loan id"))
		return
	}

	loan, err := h.loans.GetByID(c.Request.Context(), loanID)
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("loan not found"))
		return
	}
	role, _ := middleware.CurrentRole(c)
	if loan.UserID != userID && role != types.RoleAgent && role != types.RoleAdmin {
		response.RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("forbidden"))
		return
	}

	payments, err := h.loans.Payments(c.Request.Context(), loanID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_failed", fmt.Errorf("could not list payments"))
		return
	}
	response.RespondOK(c, gin.H{"payments": payments})
}

type recordPaymentRequest struct {
	AmountTHB float64    `json:"amountTHB" binding:"required,gt=0"`
	PaidAt    *time.Time `json:"paidAt"`
}

func (h *LoanHandler) RecordPayment(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid loan id"))
		return
	}

	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	paidAt := time.Now().UTC()
	if req.PaidAt != nil {
		paidAt = req.PaidAt.UTC()
	}

	payment, err := h.loans.RecordPayment(c.Request.Context(), userID, loanID, thbToSatang(req.AmountTHB), paidAt)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "payment_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"payment": payment})
}

type decideLoanRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

func (h *LoanHandler) Decide(c *gin.Context) {
	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid loan id"))
		return
	}

	var req decideLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	loan, err := h.loans.Decide(c.Request.Context(), loanID, req.Approve, req.Note)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "decide_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"loan": loan})
}

type disburseLoanRequest struct {
	FirstDueDate time.Time `json:"firstDueDate" binding:"required"`
}

func (h *LoanHandler) Disburse(c *gin.Context) {
	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid loan id"))
		return
	}

	var req disburseLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	loan, err := h.loans.Disburse(c.Request.Context(), loanID, req.FirstDueDate.UTC())
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "disburse_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"loan": loan})
}

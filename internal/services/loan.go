package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chanotech/chanote-backend/internal/data/repos"
	types "github.com/chanotech/chanote-backend/internal/domain"
	"github.com/chanotech/chanote-backend/internal/platform/dbctx"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
)

// satangPerPoint: 1 reward point per 100 THB paid on time.
const satangPerPoint = 100_00

type LoanService interface {
	CreateApplication(ctx context.Context, userID uuid.UUID, amountSatang int64, termMonths int, purpose string) (*types.LoanApplication, error)
	Submit(ctx context.Context, userID, loanID uuid.UUID) (*types.LoanApplication, error)
	Decide(ctx context.Context, loanID uuid.UUID, approve bool, note string) (*types.LoanApplication, error)
	Disburse(ctx context.Context, loanID uuid.UUID, firstDueDate time.Time) (*types.LoanApplication, error)
	GetByID(ctx context.Context, loanID uuid.UUID) (*types.LoanApplication, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.LoanApplication, error)
	Payments(ctx context.Context, loanID uuid.UUID) ([]*types.Payment, error)
	RecordPayment(ctx context.Context, userID, loanID uuid.UUID, amountSatang int64, paidAt time.Time) (*types.Payment, error)
}

type loanService struct {
	db          *gorm.DB
	log         *logger.Logger
	loanRepo    repos.LoanRepo
	paymentRepo repos.PaymentRepo
	rewardRepo  repos.RewardRepo

	monthlyRatePercent float64
}

func NewLoanService(db *gorm.DB, log *logger.Logger, loanRepo repos.LoanRepo, paymentRepo repos.PaymentRepo, rewardRepo repos.RewardRepo, monthlyRatePercent float64) LoanService {
	return &loanService{
		db:                 db,
		log:                log.With("service", "LoanService"),
		loanRepo:           loanRepo,
		paymentRepo:        paymentRepo,
		rewardRepo:         rewardRepo,
		monthlyRatePercent: monthlyRatePercent,
	}
}

var allowedTransitions = map[types.ApplicationStatus][]types.ApplicationStatus{
	types.StatusDraft:       {types.StatusSubmitted},
	types.StatusSubmitted:   {types.StatusUnderReview, types.StatusApproved, types.StatusRejected},
	types.StatusUnderReview: {types.StatusApproved, types.StatusRejected},
	types.StatusApproved:    {types.StatusDisbursed},
	types.StatusDisbursed:   {types.StatusClosed},
}

func canTransition(from, to types.ApplicationStatus) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

func (s *loanService) CreateApplication(ctx context.Context, userID uuid.UUID, amountSatang int64, termMonths int, purpose string) (*types.LoanApplication, error) {
	if amountSatang <= 0 {
		return nil, fmt.Errorf("loan amount must be positive")
	}
	if termMonths < 1 || termMonths > 360 {
		return nil, fmt.Errorf("term must be between 1 and 360 months")
	}

	loan := &types.LoanApplication{
		ID:                 uuid.New(),
		UserID:             userID,
		Status:             types.StatusDraft,
		AmountSatang:       amountSatang,
		TermMonths:         termMonths,
		MonthlyRatePercent: s.monthlyRatePercent,
		Purpose:            purpose,
	}
	return s.loanRepo.Create(dbctx.Context{Ctx: ctx}, loan)
}

func (s *loanService) Submit(ctx context.Context, userID, loanID uuid.UUID) (*types.LoanApplication, error) {
	dbc := dbctx.Context{Ctx: ctx}
	loan, err := s.loanRepo.GetByID(dbc, loanID)
	if err != nil {
		return nil, err
	}
	if loan.UserID != userID {
		return nil, fmt.Errorf("loan does not belong to user")
	}
	if !canTransition(loan.Status, types.StatusSubmitted) {
		return nil, fmt.Errorf("cannot submit loan in status %s", loan.Status)
	}

	now := time.Now().UTC()
	if err := s.loanRepo.UpdateFields(dbc, loan.ID, map[string]interface{}{
		"status":       types.StatusSubmitted,
		"submitted_at": now,
	}); err != nil {
		return nil, err
	}
	loan.Status = types.StatusSubmitted
	loan.SubmittedAt = &now
	return loan, nil
}

func (s *loanService) Decide(ctx context.Context, loanID uuid.UUID, approve bool, note string) (*types.LoanApplication, error) {
	dbc := dbctx.Context{Ctx: ctx}
	loan, err := s.loanRepo.GetByID(dbc, loanID)
	if err != nil {
		return nil, err
	}

	target := types.StatusRejected
	if approve {
		target = types.StatusApproved
	}
	if !canTransition(loan.Status, target) {
		return nil, fmt.Errorf("cannot move loan from %s to %s", loan.Status, target)
	}

	now := time.Now().UTC()
	if err := s.loanRepo.UpdateFields(dbc, loan.ID, map[string]interface{}{
		"status":        target,
		"decided_at":    now,
		"decision_note": note,
	}); err != nil {
		return nil, err
	}
	loan.Status = target
	loan.DecidedAt = &now
	loan.DecisionNote = note
	return loan, nil
}

// Disburse moves an approved loan to disbursed and writes the full flat-rate
// installment schedule in one transaction.
func (s *loanService) Disburse(ctx context.Context, loanID uuid.UUID, firstDueDate time.Time) (*types.LoanApplication, error) {
	var loan *types.LoanApplication

	err := s.db.Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		var err error
		loan, err = s.loanRepo.GetByID(dbc, loanID)
		if err != nil {
			return err
		}
		if !canTransition(loan.Status, types.StatusDisbursed) {
			return fmt.Errorf("cannot disburse loan in status %s", loan.Status)
		}

		installments, totalDue := InstallmentSchedule(loan.AmountSatang, loan.MonthlyRatePercent, loan.TermMonths)

		payments := make([]*types.Payment, len(installments))
		for i, due := range installments {
			payments[i] = &types.Payment{
				ID:              uuid.New(),
				LoanID:          loan.ID,
				InstallmentNo:   i + 1,
				AmountDueSatang: due,
				DueDate:         firstDueDate.AddDate(0, i, 0),
				Status:          types.PaymentPending,
			}
		}
		if _, err := s.paymentRepo.Create(dbc, payments); err != nil {
			return err
		}

		if err := s.loanRepo.UpdateFields(dbc, loan.ID, map[string]interface{}{
			"status":           types.StatusDisbursed,
			"total_due_satang": totalDue,
		}); err != nil {
			return err
		}
		loan.Status = types.StatusDisbursed
		loan.TotalDueSatang = totalDue
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

func (s *loanService) GetByID(ctx context.Context, loanID uuid.UUID) (*types.LoanApplication, error) {
	return s.loanRepo.GetByID(dbctx.Context{Ctx: ctx}, loanID)
}

func (s *loanService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.LoanApplication, error) {
	return s.loanRepo.GetByUser(dbctx.Context{Ctx: ctx}, userID)
}

func (s *loanService) Payments(ctx context.Context, loanID uuid.UUID) ([]*types.Payment, error) {
	return s.paymentRepo.GetByLoan(dbctx.Context{Ctx: ctx}, loanID)
}

// RecordPayment settles the next pending installment. Payments on or before
// the due date earn reward points; late payments settle the installment but
// earn nothing.
func (s *loanService) RecordPayment(ctx context.Context, userID, loanID uuid.UUID, amountSatang int64, paidAt time.Time) (*types.Payment, error) {
	if amountSatang <= 0 {
		return nil, fmt.Errorf("payment amount must be positive")
	}

	var settled *types.Payment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		loan, err := s.loanRepo.GetByID(dbc, loanID)
		if err != nil {
			return err
		}
		if loan.UserID != userID {
			return fmt.Errorf("loan does not belong to user")
		}
		if loan.Status != types.StatusDisbursed {
			return fmt.Errorf("loan in status %s has no payable installments", loan.Status)
		}

		next, err := s.paymentRepo.NextPending(dbc, loanID)
		if err != nil {
			return err
		}
		if next == nil {
			return fmt.Errorf("loan has no pending installments")
		}
		if amountSatang < next.AmountDueSatang {
			return fmt.Errorf("payment %d satang is less than installment due %d satang", amountSatang, next.AmountDueSatang)
		}

		onTime := !paidAt.After(next.DueDate)
		status := types.PaymentPaid
		if !onTime {
			status = types.PaymentLate
		}

		if err := s.paymentRepo.UpdateFields(dbc, next.ID, map[string]interface{}{
			"status":             status,
			"amount_paid_satang": amountSatang,
			"paid_at":            paidAt,
		}); err != nil {
			return err
		}
		next.Status = status
		next.AmountPaidSatang = amountSatang
		next.PaidAt = &paidAt
		settled = next

		if onTime {
			points := int(amountSatang / satangPerPoint)
			if points > 0 {
				if _, err := s.rewardRepo.Create(dbc, &types.Reward{
					ID:     uuid.New(),
					UserID: userID,
					LoanID: &loanID,
					Points: points,
					Reason: "on_time_payment",
				}); err != nil {
					return err
				}
			}
		}

		remaining, err := s.paymentRepo.CountByLoanAndStatus(dbc, loanID, types.PaymentPending)
		if err != nil {
			return err
		}
		if remaining == 0 {
			if err := s.loanRepo.UpdateFields(dbc, loanID, map[string]interface{}{
				"status": types.StatusClosed,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return settled, nil
}

// InstallmentSchedule computes flat-rate monthly installments in satang.
// Total due is principal plus simple interest over the full term; each
// installment is the rounded-down equal share and the final installment
// absorbs the remainder, so the schedule always sums to the total exactly.
func InstallmentSchedule(principalSatang int64, monthlyRatePercent float64, termMonths int) ([]int64, int64) {
	if termMonths <= 0 || principalSatang <= 0 {
		return nil, 0
	}

	totalDue := int64(math.Round(float64(principalSatang) * (1 + monthlyRatePercent/100*float64(termMonths))))

	base := totalDue / int64(termMonths)
	installments := make([]int64, termMonths)
	for i := range installments {
		installments[i] = base
	}
	installments[termMonths-1] += totalDue - base*int64(termMonths)

	return installments, totalDue
}

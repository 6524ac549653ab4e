package lending

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/chanotech/chanote-backend/internal/data/repos/testutil"
	types "github.com/chanotech/chanote-backend/internal/domain"
	"github.com/chanotech/chanote-backend/internal/platform/dbctx"
)

func TestLoanRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewLoanRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	owner := testutil.SeedUser(t, dbc.Ctx, tx, "loanrepo@example.com")
	loan := testutil.SeedLoan(t, dbc.Ctx, tx, owner.ID, 50_000_00, 12)

	got, err := repo.GetByID(dbc, loan.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.AmountSatang != 50_000_00 || got.TermMonths != 12 {
		t.Fatalf("GetByID: unexpected loan: %+v", got)
	}

	now := time.Now().UTC()
	if err := repo.UpdateFields(dbc, loan.ID, map[string]interface{}{
		"status":       types.StatusSubmitted,
		"submitted_at": now,
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	byUser, err := repo.GetByUser(dbc, owner.ID)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if len(byUser) != 1 || byUser[0].Status != types.StatusSubmitted {
		t.Fatalf("GetByUser: unexpected result: %+v", byUser)
	}
}

func TestPaymentRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewPaymentRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	owner := testutil.SeedUser(t, dbc.Ctx, tx, "paymentrepo@example.com")
	loan := testutil.SeedLoan(t, dbc.Ctx, tx, owner.ID, 10_000_00, 3)

	due := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	p1 := testutil.SeedPayment(t, dbc.Ctx, tx, loan.ID, 1, 3_500_00, due)
	testutil.SeedPayment(t, dbc.Ctx, tx, loan.ID, 2, 3_500_00, due.AddDate(0, 1, 0))
	testutil.SeedPayment(t, dbc.Ctx, tx, loan.ID, 3, 3_500_00, due.AddDate(0, 2, 0))

	all, err := repo.GetByLoan(dbc, loan.ID)
	if err != nil {
		t.Fatalf("GetByLoan: %v", err)
	}
	if len(all) != 3 || all[0].InstallmentNo != 1 || all[2].InstallmentNo != 3 {
		t.Fatalf("GetByLoan: unexpected ordering: %+v", all)
	}

	next, err := repo.NextPending(dbc, loan.ID)
	if err != nil {
		t.Fatalf("NextPending: %v", err)
	}
	if next == nil || next.ID != p1.ID {
		t.Fatalf("NextPending: expected installment 1, got %+v", next)
	}

	paidAt := due.Add(-24 * time.Hour)
	if err := repo.UpdateFields(dbc, p1.ID, map[string]interface{}{
		"status":             types.PaymentPaid,
		"amount_paid_satang": int64(3_500_00),
		"paid_at":            paidAt,
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	next, err = repo.NextPending(dbc, loan.ID)
	if err != nil {
		t.Fatalf("NextPending after pay: %v", err)
	}
	if next == nil || next.InstallmentNo != 2 {
		t.Fatalf("NextPending after pay: expected installment 2, got %+v", next)
	}

	nPaid, err := repo.CountByLoanAndStatus(dbc, loan.ID, types.PaymentPaid)
	if err != nil {
		t.Fatalf("CountByLoanAndStatus: %v", err)
	}
	if nPaid != 1 {
		t.Fatalf("CountByLoanAndStatus: expected 1 paid, got %d", nPaid)
	}
}

func TestRewardRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewRewardRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	owner := testutil.SeedUser(t, dbc.Ctx, tx, "rewardrepo@example.com")
	loan := testutil.SeedLoan(t, dbc.Ctx, tx, owner.ID, 10_000_00, 3)

	for _, pts := range []int{35, 35} {
		if _, err := repo.Create(dbc, &types.Reward{
			ID:     uuid.New(),
			UserID: owner.ID,
			LoanID: &loan.ID,
			Points: pts,
			Reason: "on_time_payment",
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	total, err := repo.TotalPoints(dbc, owner.ID)
	if err != nil {
		t.Fatalf("TotalPoints: %v", err)
	}
	if total != 70 {
		t.Fatalf("TotalPoints: expected 70, got %d", total)
	}

	history, err := repo.GetByUser(dbc, owner.ID)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("GetByUser: expected 2 entries, got %d", len(history))
	}
}

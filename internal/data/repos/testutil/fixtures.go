package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/chanotech/chanote-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "Somchai",
		LastName:  "J",
		Role:      types.RoleCustomer,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedTitleDeed(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *types.TitleDeed {
	tb.Helper()
	d := &types.TitleDeed{
		ID:       uuid.New(),
		UserID:   userID,
		ImageKey: "deed/" + uuid.NewString() + ".jpg",
		ImageURL: "https://cdn.example.com/deed.jpg",
		Status:   types.ResolutionPending,
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed title deed: %v", err)
	}
	return d
}

func SeedLoan(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, amountSatang int64, termMonths int) *types.LoanApplication {
	tb.Helper()
	loan := &types.LoanApplication{
		ID:                 uuid.New(),
		UserID:             userID,
		Status:             types.StatusDraft,
		AmountSatang:       amountSatang,
		TermMonths:         termMonths,
		MonthlyRatePercent: 1.25,
	}
	if err := tx.WithContext(ctx).Create(loan).Error; err != nil {
		tb.Fatalf("seed loan: %v", err)
	}
	return loan
}

func SeedPayment(tb testing.TB, ctx context.Context, tx *gorm.DB, loanID uuid.UUID, no int, dueSatang int64, due time.Time) *types.Payment {
	tb.Helper()
	p := &types.Payment{
		ID:              uuid.New(),
		LoanID:          loanID,
		InstallmentNo:   no,
		AmountDueSatang: dueSatang,
		DueDate:         due,
		Status:          types.PaymentPending,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed payment: %v", err)
	}
	return p
}

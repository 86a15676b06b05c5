package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/foundrr/foundrr-backend/internal/domain"
)

func SeedSite(tb testing.TB, ctx context.Context, tx *gorm.DB, owner uuid.UUID, id string) *types.Site {
	tb.Helper()
	s := &types.Site{
		ID:            id,
		OwnerUserID:   owner,
		StoragePath:   types.StoragePathFor(owner, id),
		Price:         75.99,
		Currency:      "USD",
		Name:          "Seeded site",
		Mode:          string(types.ModeHTML),
		Style:         string(types.StyleMinimal),
		Lang:          string(types.LangEN),
		PaymentStatus: types.PaymentPending,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed site: %v", err)
	}
	return s
}

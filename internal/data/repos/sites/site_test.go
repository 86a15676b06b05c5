package sites

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/foundrr/foundrr-backend/internal/data/repos/testutil"
	types "github.com/foundrr/foundrr-backend/internal/domain"
	"github.com/foundrr/foundrr-backend/internal/platform/dbctx"
)

func TestSiteRepoCreateAndRead(t *testing.T) {
	db := testutil.DB(t)
	repo := NewSiteRepo(db, testutil.Logger(t))
	dbc := dbctx.With(context.Background())
	owner := uuid.New()

	site := &types.Site{
		ID:            "abc123def456",
		OwnerUserID:   owner,
		StoragePath:   types.StoragePathFor(owner, "abc123def456"),
		Price:         75.99,
		Currency:      "USD",
		Name:          "Landing page for a coffee",
		PaymentStatus: types.PaymentPending,
	}
	if _, err := repo.Create(dbc, site); err != nil {
		t.Fatalf("Create: %v", err)
	}

	exists, err := repo.Exists(dbc, site.ID)
	if err != nil || !exists {
		t.Fatalf("Exists: want=true got=%v err=%v", exists, err)
	}
	exists, err = repo.Exists(dbc, "missing")
	if err != nil || exists {
		t.Fatalf("Exists(missing): want=false got=%v err=%v", exists, err)
	}

	got, err := repo.GetByID(dbc, site.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Paid || got.Price != 75.99 || got.OwnerUserID != owner {
		t.Fatalf("GetByID: unexpected row: %+v", got)
	}

	if _, err := repo.GetByID(dbc, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID(missing): want ErrNotFound got %v", err)
	}

	list, err := repo.ListByOwner(dbc, owner, 10)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListByOwner: want 1 got %d err=%v", len(list), err)
	}
}

func TestSiteRepoCreateNeverOverwrites(t *testing.T) {
	db := testutil.DB(t)
	repo := NewSiteRepo(db, testutil.Logger(t))
	dbc := dbctx.With(context.Background())
	owner := uuid.New()
	testutil.SeedSite(t, context.Background(), db, owner, "dupdupdupdup")

	_, err := repo.Create(dbc, &types.Site{
		ID:          "dupdupdupdup",
		OwnerUserID: uuid.New(),
		StoragePath: "other",
		Name:        "intruder",
	})
	if !errors.Is(err, ErrIDCollision) {
		t.Fatalf("Create(dup): want ErrIDCollision got %v", err)
	}
	got, err := repo.GetByID(dbc, "dupdupdupdup")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.OwnerUserID != owner {
		t.Fatalf("row was overwritten: %+v", got)
	}
}

func TestSiteRepoConditionalUpdate(t *testing.T) {
	db := testutil.DB(t)
	repo := NewSiteRepo(db, testutil.Logger(t))
	dbc := dbctx.With(context.Background())
	site := testutil.SeedSite(t, context.Background(), db, uuid.New(), "cond00000001")

	changed, err := repo.UpdateFieldsIfStatus(dbc, site.ID, []types.PaymentStatus{types.PaymentSubmitted}, map[string]interface{}{
		"paid": true,
	})
	if err != nil {
		t.Fatalf("UpdateFieldsIfStatus: %v", err)
	}
	if changed {
		t.Fatalf("pending row should not match submitted guard")
	}

	if err := repo.UpdateFields(dbc, site.ID, map[string]interface{}{"payment_status": types.PaymentSubmitted}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	pending, err := repo.ListByPaymentStatus(dbc, types.PaymentSubmitted, 0)
	if err != nil || len(pending) != 1 {
		t.Fatalf("ListByPaymentStatus: want 1 got %d err=%v", len(pending), err)
	}

	changed, err = repo.UpdateFieldsIfStatus(dbc, site.ID, []types.PaymentStatus{types.PaymentSubmitted}, map[string]interface{}{
		"paid":           true,
		"payment_status": types.PaymentApproved,
	})
	if err != nil || !changed {
		t.Fatalf("UpdateFieldsIfStatus: want changed got=%v err=%v", changed, err)
	}
	got, _ := repo.GetByID(dbc, site.ID)
	if !got.Paid || got.PaymentStatus != types.PaymentApproved {
		t.Fatalf("after approve: %+v", got)
	}

	if err := repo.UpdateFields(dbc, "missing", map[string]interface{}{"paid": true}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateFields(missing): want ErrNotFound got %v", err)
	}
}

func TestSiteRepoDeleteIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	repo := NewSiteRepo(db, testutil.Logger(t))
	dbc := dbctx.With(context.Background())
	site := testutil.SeedSite(t, context.Background(), db, uuid.New(), "del000000001")

	if err := repo.Delete(dbc, site.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(dbc, site.ID); err != nil {
		t.Fatalf("Delete again: %v", err)
	}
	if exists, _ := repo.Exists(dbc, site.ID); exists {
		t.Fatalf("row still exists after delete")
	}
}

package generation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/foundrr/foundrr-backend/internal/data/repos"
	"github.com/foundrr/foundrr-backend/internal/data/repos/testutil"
	types "github.com/foundrr/foundrr-backend/internal/domain"
	"github.com/foundrr/foundrr-backend/internal/platform/dbctx"
	"github.com/foundrr/foundrr-backend/internal/platform/gcp/gcptest"
)

func newTestSink(t *testing.T, bucket *gcptest.MemoryBucket, siteRepo repos.SiteRepo) *Sink {
	t.Helper()
	return NewSink(testutil.Logger(t), bucket, siteRepo, nil, SinkConfig{
		MaxTries:        3,
		InitialInterval: time.Millisecond,
		Timeout:         5 * time.Second,
	})
}

func testMeta() SiteMeta {
	return SiteMeta{Name: "Coffee", Mode: types.ModeHTML, Style: types.StyleMinimal, Lang: types.LangEN, Price: 75.99, Currency: "USD"}
}

func TestSinkPersists(t *testing.T) {
	db := testutil.DB(t)
	siteRepo := repos.NewSiteRepo(db, testutil.Logger(t))
	bucket := gcptest.NewMemoryBucket()
	sink := newTestSink(t, bucket, siteRepo)
	owner := uuid.New()

	site, err := sink.Persist(context.Background(), owner, "sinkok000001", "<html></html>", testMeta())
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	path := owner.String() + "/sinkok000001/index.html"
	if site.StoragePath != path {
		t.Fatalf("path: want=%q got=%q", path, site.StoragePath)
	}
	body, ctype, ok := bucket.Object(path)
	if !ok || body != "<html></html>" || ctype != "text/html; charset=utf-8" {
		t.Fatalf("stored object: ok=%v body=%q type=%q", ok, body, ctype)
	}
	row, err := siteRepo.GetByID(dbctx.With(context.Background()), "sinkok000001")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if row.Paid || row.Price != 75.99 || row.PaymentStatus != types.PaymentPending {
		t.Fatalf("row: %+v", row)
	}
}

func TestSinkRetriesTransientFailures(t *testing.T) {
	db := testutil.DB(t)
	flaky := &flakyRepo{SiteRepo: repos.NewSiteRepo(db, testutil.Logger(t)), createErrs: []error{errors.New("conn reset")}}
	bucket := gcptest.NewMemoryBucket()
	bucket.UploadErrs = []error{errors.New("503"), errors.New("503")}
	sink := newTestSink(t, bucket, flaky)

	if _, err := sink.Persist(context.Background(), uuid.New(), "retry0000001", "<p/>", testMeta()); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if bucket.Uploads != 3 {
		t.Fatalf("uploads: want=3 got=%d", bucket.Uploads)
	}
	if flaky.creates != 2 {
		t.Fatalf("creates: want=2 got=%d", flaky.creates)
	}
}

func TestSinkCompensatesFailedInsert(t *testing.T) {
	db := testutil.DB(t)
	down := errors.New("db down")
	flaky := &flakyRepo{SiteRepo: repos.NewSiteRepo(db, testutil.Logger(t)), createErrs: []error{down, down, down}}
	bucket := gcptest.NewMemoryBucket()
	sink := newTestSink(t, bucket, flaky)
	owner := uuid.New()

	_, err := sink.Persist(context.Background(), owner, "comp00000001", "<p/>", testMeta())
	if !errors.Is(err, ErrNotSaved) || !errors.Is(err, down) {
		t.Fatalf("want ErrNotSaved wrapping the insert error, got %v", err)
	}
	var notSaved *NotSavedError
	if !errors.As(err, &notSaved) || notSaved.UploadErr != nil || notSaved.InsertErr == nil {
		t.Fatalf("NotSavedError sides: %+v", notSaved)
	}
	if _, _, ok := bucket.Object(types.StoragePathFor(owner, "comp00000001")); ok {
		t.Fatalf("orphaned object should have been deleted")
	}
}

func TestSinkCompensatesFailedUpload(t *testing.T) {
	db := testutil.DB(t)
	siteRepo := repos.NewSiteRepo(db, testutil.Logger(t))
	bucket := gcptest.NewMemoryBucket()
	gone := errors.New("bucket gone")
	bucket.UploadErrs = []error{gone, gone, gone}
	sink := newTestSink(t, bucket, siteRepo)

	_, err := sink.Persist(context.Background(), uuid.New(), "comp00000002", "<p/>", testMeta())
	if !errors.Is(err, ErrNotSaved) || !errors.Is(err, gone) {
		t.Fatalf("want ErrNotSaved wrapping the upload error, got %v", err)
	}
	if exists, _ := siteRepo.Exists(dbctx.With(context.Background()), "comp00000002"); exists {
		t.Fatalf("orphaned row should have been deleted")
	}
}

func TestSinkCollisionIsNotRetried(t *testing.T) {
	db := testutil.DB(t)
	collide := fmt.Errorf("%w: x", repos.ErrSiteIDCollision)
	flaky := &flakyRepo{SiteRepo: repos.NewSiteRepo(db, testutil.Logger(t)), createErrs: []error{collide}}
	sink := newTestSink(t, gcptest.NewMemoryBucket(), flaky)

	_, err := sink.Persist(context.Background(), uuid.New(), "coll00000001", "<p/>", testMeta())
	if !errors.Is(err, repos.ErrSiteIDCollision) {
		t.Fatalf("want ErrSiteIDCollision got %v", err)
	}
	if flaky.creates != 1 {
		t.Fatalf("collision must not be retried: creates=%d", flaky.creates)
	}
}

func TestSinkSurvivesCanceledCaller(t *testing.T) {
	db := testutil.DB(t)
	siteRepo := repos.NewSiteRepo(db, testutil.Logger(t))
	sink := newTestSink(t, gcptest.NewMemoryBucket(), siteRepo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := sink.Persist(ctx, uuid.New(), "detach000001", "<p/>", testMeta()); err != nil {
		t.Fatalf("Persist with canceled caller: %v", err)
	}
}

func TestSinkCollisionKeepsExistingDocument(t *testing.T) {
	db := testutil.DB(t)
	siteRepo := repos.NewSiteRepo(db, testutil.Logger(t))
	bucket := gcptest.NewMemoryBucket()
	sink := newTestSink(t, bucket, siteRepo)
	owner := uuid.New()

	if _, err := sink.Persist(context.Background(), owner, "dupe00000001", "<p>first</p>", testMeta()); err != nil {
		t.Fatalf("first Persist: %v", err)
	}
	_, err := sink.Persist(context.Background(), owner, "dupe00000001", "<p>second</p>", testMeta())
	if !errors.Is(err, ErrNotSaved) {
		t.Fatalf("want ErrNotSaved got %v", err)
	}
	body, _, ok := bucket.Object(types.StoragePathFor(owner, "dupe00000001"))
	if !ok || body != "<p>first</p>" {
		t.Fatalf("existing document: want=%q got=%q (present=%v)", "<p>first</p>", body, ok)
	}
	if exists, _ := siteRepo.Exists(dbctx.With(context.Background()), "dupe00000001"); !exists {
		t.Fatalf("existing row should survive the collision")
	}
}

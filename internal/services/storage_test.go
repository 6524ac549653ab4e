package services

import (
	"context"
	"strings"
	"testing"

	"github.com/chanotech/chanote-backend/internal/platform/gcs"
)

func TestStoreReturnsPublicURL(t *testing.T) {
	bucket := &fakeBucket{}
	svc := NewStorageService(testLogger(), bucket)

	ref := svc.Store(context.Background(), []byte("image-bytes"), "image/jpeg", gcs.CategoryDeed, "deed.jpg")

	if ref.Degraded {
		t.Fatalf("expected non-degraded reference")
	}
	if !strings.HasPrefix(ref.URL, "https://") {
		t.Fatalf("expected https URL, got %q", ref.URL)
	}
	if ref.Key == "" || strings.HasPrefix(ref.Key, "temp_") {
		t.Fatalf("expected a durable key, got %q", ref.Key)
	}
	if len(bucket.uploaded) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(bucket.uploaded))
	}
}

func TestStoreDegradesToDataURI(t *testing.T) {
	bucket := &fakeBucket{failUploads: true}
	svc := NewStorageService(testLogger(), bucket)

	ref := svc.Store(context.Background(), []byte{0xFF, 0xD8, 0xFF}, "image/jpeg", gcs.CategoryDeed, "deed.jpg")

	if !ref.Degraded {
		t.Fatalf("expected degraded reference")
	}
	if !strings.HasPrefix(ref.URL, "data:image/jpeg;base64,") {
		t.Fatalf("expected data URI, got %q", ref.URL)
	}
	if !strings.HasPrefix(ref.Key, "temp_") {
		t.Fatalf("expected temp_ key, got %q", ref.Key)
	}
}

func TestStoreAlwaysReturnsUsableURL(t *testing.T) {
	for _, bucket := range []*fakeBucket{{}, {failUploads: true}} {
		svc := NewStorageService(testLogger(), bucket)
		ref := svc.Store(context.Background(), []byte("x"), "image/png", gcs.CategorySupporting, "")
		if ref.URL == "" {
			t.Fatalf("empty URL (failUploads=%v)", bucket.failUploads)
		}
		if !strings.HasPrefix(ref.URL, "https://") && !strings.HasPrefix(ref.URL, "data:") {
			t.Fatalf("URL neither https nor data URI: %q", ref.URL)
		}
	}
}

func TestStoreBatchPartialSuccess(t *testing.T) {
	bucket := &fakeBucket{}
	svc := NewStorageService(testLogger(), bucket)

	items := []BatchUploadItem{
		{Index: 0, FileName: "a.jpg", Data: []byte("a"), MimeType: "image/jpeg"},
		{Index: 1, FileName: "b.jpg", Data: []byte("b"), MimeType: "image/jpeg"},
		{Index: 2, FileName: "c.jpg", Data: []byte("c"), MimeType: "image/jpeg"},
	}

	outcomes := svc.StoreBatch(context.Background(), gcs.CategorySupporting, items)

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	for i, o := range outcomes {
		if o.Index != i {
			t.Fatalf("outcome %d has index %d", i, o.Index)
		}
		if !o.Uploaded {
			t.Fatalf("outcome %d not uploaded", i)
		}
		if o.ImageURL == "" {
			t.Fatalf("outcome %d has empty URL", i)
		}
	}

	// Even with a dead bucket every item still gets a usable reference.
	svc = NewStorageService(testLogger(), &fakeBucket{failUploads: true})
	outcomes = svc.StoreBatch(context.Background(), gcs.CategorySupporting, items)
	for i, o := range outcomes {
		if o.Uploaded {
			t.Fatalf("outcome %d reported uploaded despite dead bucket", i)
		}
		if !strings.HasPrefix(o.ImageURL, "data:") {
			t.Fatalf("outcome %d expected data URI fallback, got %q", i, o.ImageURL)
		}
	}
}

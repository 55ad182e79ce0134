package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/veridex/evidenceAPI/internal/config"
	"github.com/veridex/evidenceAPI/internal/data/redisStore"
	"github.com/veridex/evidenceAPI/internal/data/store"
	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
)

func testOwner() evidenceModel.OwnerRef {
	return evidenceModel.OwnerRef{
		CaseID:       "case-77",
		OwnerID:      "transcript-3",
		EvidenceType: evidenceModel.EvidenceTranscripts,
	}
}

func TestRedisReceiptStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	receiptStore := store.TestReceiptStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	owner := testOwner()

	receipt := evidenceModel.IndexReceipt{
		Owner:         owner,
		PointCount:    42,
		FailedCount:   1,
		LastIndexedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := receiptStore.SaveReceipt(ctx, receipt); err != nil {
			t.Fatalf("SaveReceipt failed: %v", err)
		}

		got, found := receiptStore.GetReceipt(ctx, owner)
		if !found {
			t.Fatal("Receipt was saved but not found in Redis")
		}
		if got.PointCount != 42 || got.FailedCount != 1 {
			t.Errorf("counts mismatch: %+v", got)
		}
		if !got.LastIndexedAt.Equal(receipt.LastIndexedAt) {
			t.Errorf("LastIndexedAt mismatch: got %v", got.LastIndexedAt)
		}
		if got.Owner != owner {
			t.Errorf("Owner mismatch: %+v", got.Owner)
		}
	})

	t.Run("Overwrite Updates Counts", func(t *testing.T) {
		receipt.PointCount = 50
		if err := receiptStore.SaveReceipt(ctx, receipt); err != nil {
			t.Fatalf("SaveReceipt failed: %v", err)
		}
		got, _ := receiptStore.GetReceipt(ctx, owner)
		if got.PointCount != 50 {
			t.Errorf("expected overwritten PointCount 50, got %d", got.PointCount)
		}
	})

	t.Run("Get Unknown Owner", func(t *testing.T) {
		unknown := owner
		unknown.OwnerID = "ghost"
		if _, found := receiptStore.GetReceipt(ctx, unknown); found {
			t.Error("Expected found=false for unknown owner")
		}
	})

	t.Run("Delete Receipt", func(t *testing.T) {
		if err := receiptStore.DeleteReceipt(ctx, owner); err != nil {
			t.Fatalf("DeleteReceipt failed: %v", err)
		}
		if _, found := receiptStore.GetReceipt(ctx, owner); found {
			t.Error("Receipt still readable after delete")
		}
	})
}

func TestInMemoryReceiptStore(t *testing.T) {
	receiptStore := store.InitInMemoryReceiptStore()
	ctx := context.Background()
	owner := testOwner()

	if _, found := receiptStore.GetReceipt(ctx, owner); found {
		t.Fatal("empty store should not find anything")
	}

	receipt := evidenceModel.IndexReceipt{Owner: owner, PointCount: 7, LastIndexedAt: time.Now()}
	if err := receiptStore.SaveReceipt(ctx, receipt); err != nil {
		t.Fatalf("SaveReceipt failed: %v", err)
	}

	got, found := receiptStore.GetReceipt(ctx, owner)
	if !found || got.PointCount != 7 {
		t.Fatalf("roundtrip failed: found=%v receipt=%+v", found, got)
	}

	if err := receiptStore.DeleteReceipt(ctx, owner); err != nil {
		t.Fatalf("DeleteReceipt failed: %v", err)
	}
	if _, found := receiptStore.GetReceipt(ctx, owner); found {
		t.Error("Receipt still readable after delete")
	}
}

package store

import (
	"context"
	"encoding/json"

	"github.com/veridex/evidenceAPI/internal/config"
	"github.com/veridex/evidenceAPI/internal/data/redisStore"
	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
	"github.com/veridex/evidenceAPI/pkg/logger_i"
)

type RedisReceiptStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisReceiptStore(ctx context.Context) *RedisReceiptStore {
	return &RedisReceiptStore{
		store:  redisStore.GetRedisStore(ctx, config.RedisReceiptStore),
		logger: logger_i.NewLogger("ReceiptStore"),
	}
}

// receiptKey builds the per-owner key. Receipts live in their own redis DB,
// so no extra prefix is needed.
func receiptKey(owner evidenceModel.OwnerRef) string {
	return owner.CaseID + "/" + string(owner.EvidenceType) + "/" + owner.OwnerID
}

func (s *RedisReceiptStore) SaveReceipt(ctx context.Context, receipt evidenceModel.IndexReceipt) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "owner", receiptKey(receipt.Owner))
	data, err := json.Marshal(receipt)
	if err != nil {
		return err
	}

	// receipts outlive jobs, no TTL
	err = s.store.Set(ctx, receiptKey(receipt.Owner), data, 0)
	if err == nil {
		log.Debug("Saved receipt to Redis")
	}
	return err
}

func (s *RedisReceiptStore) GetReceipt(ctx context.Context, owner evidenceModel.OwnerRef) (evidenceModel.IndexReceipt, bool) {
	var receipt evidenceModel.IndexReceipt
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "owner", receiptKey(owner))
	val, err := s.store.Get(ctx, receiptKey(owner))
	if s.store.IsNil(err) {
		return receipt, false
	} else if err != nil {
		log.Error("Failed to read receipt", "err", err)
		return receipt, false
	}

	err = json.Unmarshal([]byte(val), &receipt)
	if err != nil {
		return receipt, false
	}
	return receipt, true
}

func (s *RedisReceiptStore) DeleteReceipt(ctx context.Context, owner evidenceModel.OwnerRef) error {
	err := s.store.Del(ctx, receiptKey(owner))
	if err != nil {
		s.logger.Error("Error deleting receipt from Redis", "owner", receiptKey(owner))
		return err
	}
	s.logger.Debug("Receipt deleted from Redis", "owner", receiptKey(owner))
	return nil
}

func TestReceiptStore(store *redisStore.Store) *RedisReceiptStore {
	return &RedisReceiptStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}

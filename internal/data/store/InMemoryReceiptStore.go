package store

import (
	"context"
	"sync"

	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
)

type InMemoryReceiptStore struct {
	receiptLock *sync.RWMutex
	receiptMap  map[string]evidenceModel.IndexReceipt
}

func InitInMemoryReceiptStore() *InMemoryReceiptStore {
	return &InMemoryReceiptStore{
		receiptLock: new(sync.RWMutex),
		receiptMap:  make(map[string]evidenceModel.IndexReceipt),
	}
}

func (store *InMemoryReceiptStore) SaveReceipt(ctx context.Context, receipt evidenceModel.IndexReceipt) error {
	store.receiptLock.Lock()
	defer store.receiptLock.Unlock()
	store.receiptMap[receiptKey(receipt.Owner)] = receipt
	return nil
}

func (store *InMemoryReceiptStore) GetReceipt(ctx context.Context, owner evidenceModel.OwnerRef) (evidenceModel.IndexReceipt, bool) {
	store.receiptLock.RLock()
	defer store.receiptLock.RUnlock()
	receipt, found := store.receiptMap[receiptKey(owner)]
	return receipt, found
}

func (store *InMemoryReceiptStore) DeleteReceipt(ctx context.Context, owner evidenceModel.OwnerRef) error {
	store.receiptLock.Lock()
	defer store.receiptLock.Unlock()
	delete(store.receiptMap, receiptKey(owner))
	return nil
}

package search_test

import (
	"context"

	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
)

// MockIndexer implements search.Indexer
type MockIndexer struct {
	// Control fields to simulate different behaviors
	OnIndex  func(ctx context.Context, owner evidenceModel.OwnerRef, chunks []evidenceModel.Chunk) (evidenceModel.IndexReport, error)
	OnDelete func(ctx context.Context, owner evidenceModel.OwnerRef) error

	IndexCalls    int
	IndexedChunks []evidenceModel.Chunk
	DeleteCalls   int
}

func (m *MockIndexer) Index(ctx context.Context, owner evidenceModel.OwnerRef, chunks []evidenceModel.Chunk) (evidenceModel.IndexReport, error) {
	m.IndexCalls++
	m.IndexedChunks = chunks
	if m.OnIndex != nil {
		return m.OnIndex(ctx, owner, chunks)
	}
	return evidenceModel.IndexReport{IndexedCount: len(chunks)}, nil
}

func (m *MockIndexer) Delete(ctx context.Context, owner evidenceModel.OwnerRef) error {
	m.DeleteCalls++
	if m.OnDelete != nil {
		return m.OnDelete(ctx, owner)
	}
	return nil
}

// MockSearcher implements search.Searcher
type MockSearcher struct {
	OnSearch func(ctx context.Context, request evidenceModel.SearchRequest) (evidenceModel.SearchResponse, error)
}

func (m *MockSearcher) Search(ctx context.Context, request evidenceModel.SearchRequest) (evidenceModel.SearchResponse, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, request)
	}
	return evidenceModel.SearchResponse{}, nil
}

// MockReceiptStore implements jobModel.ReceiptStore
type MockReceiptStore struct {
	OnGet  func(owner evidenceModel.OwnerRef) (evidenceModel.IndexReceipt, bool)
	OnSave func(receipt evidenceModel.IndexReceipt) error

	GetCalls int
	Saved    []evidenceModel.IndexReceipt
	Deleted  []evidenceModel.OwnerRef
}

func (m *MockReceiptStore) GetReceipt(ctx context.Context, owner evidenceModel.OwnerRef) (evidenceModel.IndexReceipt, bool) {
	m.GetCalls++
	if m.OnGet != nil {
		return m.OnGet(owner)
	}
	return evidenceModel.IndexReceipt{}, false
}

func (m *MockReceiptStore) SaveReceipt(ctx context.Context, receipt evidenceModel.IndexReceipt) error {
	m.Saved = append(m.Saved, receipt)
	if m.OnSave != nil {
		return m.OnSave(receipt)
	}
	return nil
}

func (m *MockReceiptStore) DeleteReceipt(ctx context.Context, owner evidenceModel.OwnerRef) error {
	m.Deleted = append(m.Deleted, owner)
	return nil
}

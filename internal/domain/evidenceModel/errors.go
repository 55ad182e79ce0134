package evidenceModel

import "fmt"

const (
	StoreVector  = "vector"
	StoreKeyword = "keyword"
)

// ValidationError rejects a malformed request before any I/O happens.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// EmbeddingError marks a representation-generation failure. With a ChunkID it
// is a per-chunk failure the batch survives; without one it came from a query
// embedding and fails the whole search.
type EmbeddingError struct {
	ChunkID string
	Err     error
}

func (e *EmbeddingError) Error() string {
	if e.ChunkID == "" {
		return fmt.Sprintf("query embedding failed: %v", e.Err)
	}
	return fmt.Sprintf("embedding failed for chunk %s: %v", e.ChunkID, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// StoreWriteError is a failed write against one of the two stores.
type StoreWriteError struct {
	Store string
	Owner OwnerRef
	Err   error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("%s store write failed (case=%s owner=%s): %v", e.Store, e.Owner.CaseID, e.Owner.OwnerID, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// StoreQueryError is a failed query against one of the two stores.
type StoreQueryError struct {
	Store string
	Err   error
}

func (e *StoreQueryError) Error() string {
	return fmt.Sprintf("%s store query failed: %v", e.Store, e.Err)
}

func (e *StoreQueryError) Unwrap() error { return e.Err }

// RollbackError means the compensating vector-store delete after a keyword
// write failure itself failed. The vector store now holds orphaned points;
// both causes are carried so operators can reconcile.
type RollbackError struct {
	WriteErr    error
	RollbackErr error
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("rollback failed after keyword store failure: %v (original write error: %v)", e.RollbackErr, e.WriteErr)
}

func (e *RollbackError) Unwrap() []error {
	return []error{e.RollbackErr, e.WriteErr}
}

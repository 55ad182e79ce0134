package evidenceModel

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/veridex/evidenceAPI/internal/config"
)

type EvidenceType string
type ChunkType string

const (
	EvidenceDocuments      EvidenceType = "documents"
	EvidenceTranscripts    EvidenceType = "transcripts"
	EvidenceCommunications EvidenceType = "communications"

	ChunkSummary    ChunkType = "Summary"
	ChunkSection    ChunkType = "Section"
	ChunkMicroblock ChunkType = "Microblock"
	ChunkSegment    ChunkType = "Segment"
	ChunkMessage    ChunkType = "Message"
	ChunkOther      ChunkType = "Other"

	GranularitySummary    = "summary"
	GranularitySection    = "section"
	GranularityMicroblock = "microblock"
)

func AllEvidenceTypes() []EvidenceType {
	return []EvidenceType{EvidenceDocuments, EvidenceTranscripts, EvidenceCommunications}
}

func (e EvidenceType) Valid() bool {
	switch e {
	case EvidenceDocuments, EvidenceTranscripts, EvidenceCommunications:
		return true
	}
	return false
}

// Collection is the vector store collection holding this evidence type.
func (e EvidenceType) Collection() string {
	switch e {
	case EvidenceTranscripts:
		return config.TranscriptsCollection
	case EvidenceCommunications:
		return config.CommunicationsCollection
	default:
		return config.DocumentsCollection
	}
}

// KeywordIndex is the RediSearch index name for this evidence type.
func (e EvidenceType) KeywordIndex() string {
	return config.KeywordIndexPrefix + string(e)
}

// KeyPrefix is the redis key prefix the keyword index is built over.
func (e EvidenceType) KeyPrefix() string {
	return config.KeywordKeyPrefix + string(e) + ":"
}

// Granularity maps a chunk type onto the named dense vector it is embedded
// under. Segments ride with sections and messages with microblocks so the
// vector space stays three named vectors wide across all evidence types.
func (t ChunkType) Granularity() string {
	switch t {
	case ChunkSummary:
		return GranularitySummary
	case ChunkMicroblock, ChunkMessage:
		return GranularityMicroblock
	default:
		return GranularitySection
	}
}

// BoundingBox is a normalized rectangle on one page. Coordinates live in the
// unit square.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Page   int     `json:"page"`
}

func (b BoundingBox) InUnitSquare() bool {
	if b.X < 0 || b.Y < 0 || b.Width < 0 || b.Height < 0 {
		return false
	}
	return b.X+b.Width <= 1 && b.Y+b.Height <= 1
}

// PageItem is one extracted span of source text with its spatial placement,
// as produced by layout-aware extraction. Items are what bounding boxes are
// matched against during chunking.
type PageItem struct {
	Text  string        `json:"text"`
	Page  int           `json:"page"`
	Boxes []BoundingBox `json:"boxes,omitempty"`
}

// TranscriptSegment is one diarized speaker turn of an audio/video
// transcript, as delivered by the transcription collaborator.
type TranscriptSegment struct {
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// CommunicationMessage is one message of a digital communication thread
// (email, chat export, SMS dump).
type CommunicationMessage struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Platform  string    `json:"platform,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// ChunkMetadata carries the typed per-evidence fields plus one open map for
// anything genuinely unstructured.
type ChunkMetadata struct {
	DocumentType string            `json:"document_type,omitempty"`
	Speaker      string            `json:"speaker,omitempty"`
	Platform     string            `json:"platform,omitempty"`
	Timestamp    time.Time         `json:"timestamp,omitempty"`
	Participants []string          `json:"participants,omitempty"`
	Extra        map[string]string `json:"extra,omitempty"`
}

type Chunk struct {
	Text          string        `json:"text"`
	ChunkType     ChunkType     `json:"chunk_type"`
	Position      int           `json:"position"`
	PageNumber    *int          `json:"page_number,omitempty"`
	BoundingBoxes []BoundingBox `json:"bounding_boxes,omitempty"`
	Metadata      ChunkMetadata `json:"metadata,omitempty"`
}

func (c Chunk) Validate() error {
	if c.Text == "" {
		return &ValidationError{Reason: "chunk text is empty"}
	}
	if c.Position < 0 {
		return &ValidationError{Reason: fmt.Sprintf("chunk position %d is negative", c.Position)}
	}
	for i, b := range c.BoundingBoxes {
		if !b.InUnitSquare() {
			return &ValidationError{Reason: fmt.Sprintf("bounding box %d escapes the unit square", i)}
		}
	}
	return nil
}

// Representation holds the embeddings for one chunk: one dense vector per
// granularity plus the sparse keyword weights.
type Representation struct {
	Dense         map[string][]float32 `json:"dense"`
	SparseIndices []uint32             `json:"sparse_indices"`
	SparseValues  []float32            `json:"sparse_values"`
}

// OwnerRef identifies the source a chunk belongs to. OwnerID is the
// document, transcript or communication id depending on EvidenceType.
type OwnerRef struct {
	CaseID       string       `json:"case_id"`
	OwnerID      string       `json:"owner_id"`
	EvidenceType EvidenceType `json:"evidence_type"`
}

func (o OwnerRef) Validate() error {
	if o.OwnerID == "" && o.CaseID == "" {
		return &ValidationError{Reason: "owner ref needs a case id or an owner id"}
	}
	if o.OwnerID != "" && !o.EvidenceType.Valid() {
		return &ValidationError{Reason: "owner ref with owner id needs a valid evidence type"}
	}
	return nil
}

// IndexPoint is the unit written to both stores.
type IndexPoint struct {
	ID             string         `json:"id"`
	Owner          OwnerRef       `json:"owner"`
	Chunk          Chunk          `json:"chunk"`
	Representation Representation `json:"representation"`
}

// fixed namespace so point ids survive process restarts
var pointNamespace = uuid.MustParse("b6e9a1d4-3f72-4c58-9a0e-5c21d78ef043")

// NewPointID derives the stable point id from chunk identity. Re-indexing
// the same source yields the same ids, so writes overwrite instead of
// duplicating.
func NewPointID(owner OwnerRef, chunkType ChunkType, position int) string {
	name := fmt.Sprintf("%s/%s/%s/%s/%d", owner.CaseID, owner.EvidenceType, owner.OwnerID, chunkType, position)
	return uuid.NewSHA1(pointNamespace, []byte(name)).String()
}

// IndexReceipt records the last successful write for one owner.
type IndexReceipt struct {
	Owner         OwnerRef  `json:"owner"`
	PointCount    int       `json:"point_count"`
	FailedCount   int       `json:"failed_count,omitempty"`
	LastIndexedAt time.Time `json:"last_indexed_at"`
}

// IndexReport is what callers of the index operation get back.
type IndexReport struct {
	IndexedCount int      `json:"indexed_count"`
	FailedCount  int      `json:"failed_count"`
	FailedIDs    []string `json:"failed_ids,omitempty"`
}

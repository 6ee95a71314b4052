package gemkit

import (
	"context"
	"encoding/json"
	"io"
	"time"
)

// FileSearchStore is a container for document embeddings. Stores persist
// until deleted, unlike raw files which expire after 48 hours.
type FileSearchStore struct {
	Name                  string       `json:"name"`
	DisplayName           string       `json:"displayName,omitempty"`
	CreateTime            *time.Time   `json:"createTime,omitempty"`
	UpdateTime            *time.Time   `json:"updateTime,omitempty"`
	ActiveDocumentsCount  *Int64String `json:"activeDocumentsCount,omitempty"`
	PendingDocumentsCount *Int64String `json:"pendingDocumentsCount,omitempty"`
	FailedDocumentsCount  *Int64String `json:"failedDocumentsCount,omitempty"`
	SizeBytes             *Int64String `json:"sizeBytes,omitempty"`
}

// DocumentState is the lifecycle state of an indexed document.
type DocumentState string

const (
	DocumentStateUnspecified DocumentState = "STATE_UNSPECIFIED"
	// DocumentStatePending means chunks are still being embedded and
	// indexed.
	DocumentStatePending DocumentState = "STATE_PENDING"
	// DocumentStateActive means all chunks are queryable.
	DocumentStateActive DocumentState = "STATE_ACTIVE"
	// DocumentStateFailed means some chunks failed processing.
	DocumentStateFailed DocumentState = "STATE_FAILED"
)

// Document is a file within a file search store, automatically chunked,
// embedded, and indexed.
type Document struct {
	Name           string           `json:"name"`
	DisplayName    string           `json:"displayName,omitempty"`
	CustomMetadata []CustomMetadata `json:"customMetadata,omitempty"`
	CreateTime     *time.Time       `json:"createTime,omitempty"`
	UpdateTime     *time.Time       `json:"updateTime,omitempty"`
	State          DocumentState    `json:"state,omitempty"`
	SizeBytes      Int64String      `json:"sizeBytes,omitempty"`
	MIMEType       string           `json:"mimeType,omitempty"`
}

// CustomMetadata is one filterable key/value entry on a document. Exactly
// one of the value fields is set. Documents carry at most 20 entries.
type CustomMetadata struct {
	Key             string      `json:"key"`
	StringValue     string      `json:"stringValue,omitempty"`
	StringListValue *StringList `json:"stringListValue,omitempty"`
	NumericValue    *float64    `json:"numericValue,omitempty"`
}

// StringList holds a string-list metadata value.
type StringList struct {
	Values []string `json:"values"`
}

// ChunkingConfig controls how documents are split for retrieval.
type ChunkingConfig struct {
	WhiteSpaceConfig *WhiteSpaceConfig `json:"whiteSpaceConfig,omitempty"`
}

// WhiteSpaceConfig is whitespace-based chunking.
type WhiteSpaceConfig struct {
	MaxTokensPerChunk int32 `json:"maxTokensPerChunk"`
	MaxOverlapTokens  int32 `json:"maxOverlapTokens"`
}

// ImportOperation tracks an asynchronous import into a store: chunking,
// embedding, and indexing.
type ImportOperation struct {
	Name     string           `json:"name"`
	Metadata json.RawMessage  `json:"metadata,omitempty"`
	Done     bool             `json:"done,omitempty"`
	Response json.RawMessage  `json:"response,omitempty"`
	Error    *OperationStatus `json:"error,omitempty"`
}

type createFileSearchStoreRequest struct {
	DisplayName string `json:"displayName,omitempty"`
}

// CreateFileSearchStore creates a new store.
func (c *Client) CreateFileSearchStore(ctx context.Context, displayName string) (*FileSearchStore, error) {
	in := createFileSearchStoreRequest{DisplayName: displayName}
	var out FileSearchStore
	if err := c.postJSON(ctx, c.resourceURL("fileSearchStores"), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetFileSearchStore fetches a store by resource name, e.g.
// "fileSearchStores/my-store-123".
func (c *Client) GetFileSearchStore(ctx context.Context, name string) (*FileSearchStore, error) {
	var out FileSearchStore
	if err := c.getJSON(ctx, c.resourceURL(name), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFileSearchStore removes a store. With force, its documents are
// deleted too; without, deleting a non-empty store fails.
func (c *Client) DeleteFileSearchStore(ctx context.Context, name string, force bool) error {
	u := c.resourceURL(name)
	if force {
		u += "?force=true"
	}
	return c.deleteResource(ctx, u)
}

// FileSearchStorePage is one page of stores.
type FileSearchStorePage struct {
	FileSearchStores []FileSearchStore `json:"fileSearchStores,omitempty"`
	NextPageToken    string            `json:"nextPageToken,omitempty"`
}

// ListFileSearchStores returns one page of stores.
func (c *Client) ListFileSearchStores(ctx context.Context, pageSize int, pageToken string) (*FileSearchStorePage, error) {
	var page FileSearchStorePage
	if err := c.getJSON(ctx, listQuery(c.resourceURL("fileSearchStores"), pageSize, pageToken), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ImportFileRequest imports an already-uploaded file into a store.
type ImportFileRequest struct {
	// FileName is the Files API resource name, e.g. "files/abc123".
	FileName       string           `json:"fileName"`
	CustomMetadata []CustomMetadata `json:"customMetadata,omitempty"`
	ChunkingConfig *ChunkingConfig  `json:"chunkingConfig,omitempty"`
}

// ImportFile starts indexing an uploaded file into the named store.
// Indexing is asynchronous; poll the returned operation.
func (c *Client) ImportFile(ctx context.Context, storeName string, req *ImportFileRequest) (*ImportOperation, error) {
	start := time.Now()
	c.telemetry.OnRequestStart(RequestStartEvent{Operation: "fileSearchStores.importFile", Start: start})

	var out ImportOperation
	err := c.postJSON(ctx, c.resourceURL(storeName)+":importFile", req, &out)

	c.telemetry.OnRequestEnd(RequestEndEvent{
		Operation: "fileSearchStores.importFile", Start: start, End: time.Now(), Err: err,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadToFileSearchStoreRequest uploads raw bytes straight into a store,
// skipping the intermediate Files API resource.
type UploadToFileSearchStoreRequest struct {
	// Content is the reader containing the document bytes.
	Content io.Reader
	// DisplayName names the resulting document.
	DisplayName string
	// MIMEType is the MIME type of the content.
	MIMEType       string
	CustomMetadata []CustomMetadata
	ChunkingConfig *ChunkingConfig
}

type uploadToStoreMetadata struct {
	DisplayName    string           `json:"displayName,omitempty"`
	CustomMetadata []CustomMetadata `json:"customMetadata,omitempty"`
	ChunkingConfig *ChunkingConfig  `json:"chunkingConfig,omitempty"`
}

// UploadToFileSearchStore uploads and indexes a document in one call,
// using the same resumable protocol as file uploads. Indexing is
// asynchronous; poll the returned operation.
func (c *Client) UploadToFileSearchStore(ctx context.Context, storeName string, req *UploadToFileSearchStoreRequest) (*ImportOperation, error) {
	start := time.Now()
	c.telemetry.OnRequestStart(RequestStartEvent{Operation: "fileSearchStores.uploadToFileSearchStore", Start: start})

	op, err := c.uploadToStore(ctx, storeName, req)

	c.telemetry.OnRequestEnd(RequestEndEvent{
		Operation: "fileSearchStores.uploadToFileSearchStore", Start: start, End: time.Now(), Err: err,
	})
	return op, err
}

func (c *Client) uploadToStore(ctx context.Context, storeName string, req *UploadToFileSearchStoreRequest) (*ImportOperation, error) {
	initURL := c.config.BaseURL + "/upload/v1beta/" + storeName + ":uploadToFileSearchStore"
	meta := uploadToStoreMetadata{
		DisplayName:    req.DisplayName,
		CustomMetadata: req.CustomMetadata,
		ChunkingConfig: req.ChunkingConfig,
	}
	uploadURL, err := c.startResumableUpload(ctx, initURL, req.MIMEType, meta)
	if err != nil {
		return nil, err
	}

	body, err := c.finishResumableUpload(ctx, uploadURL, req.Content)
	if err != nil {
		return nil, err
	}

	var op ImportOperation
	if err := json.Unmarshal(body, &op); err != nil {
		return nil, newDecodeError(err, body)
	}
	return &op, nil
}

// GetImportOperation refreshes an import operation by name.
func (c *Client) GetImportOperation(ctx context.Context, name string) (*ImportOperation, error) {
	var out ImportOperation
	if err := c.getJSON(ctx, c.resourceURL(name), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DocumentPage is one page of documents.
type DocumentPage struct {
	Documents     []Document `json:"documents,omitempty"`
	NextPageToken string     `json:"nextPageToken,omitempty"`
}

// ListDocuments returns one page of a store's documents.
func (c *Client) ListDocuments(ctx context.Context, storeName string, pageSize int, pageToken string) (*DocumentPage, error) {
	var page DocumentPage
	u := listQuery(c.resourceURL(storeName)+"/documents", pageSize, pageToken)
	if err := c.getJSON(ctx, u, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetDocument fetches a document by full resource name, e.g.
// "fileSearchStores/my-store/documents/doc-123".
func (c *Client) GetDocument(ctx context.Context, name string) (*Document, error) {
	var out Document
	if err := c.getJSON(ctx, c.resourceURL(name), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDocument removes a document from its store.
func (c *Client) DeleteDocument(ctx context.Context, name string) error {
	return c.deleteResource(ctx, c.resourceURL(name))
}

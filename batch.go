package gemkit

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Int64String is an int64 that the API serializes as a decimal string.
// Unmarshaling accepts both the quoted and the bare-number form.
type Int64String int64

// MarshalJSON writes the value as a quoted decimal string.
func (v Int64String) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatInt(int64(v), 10))
}

// UnmarshalJSON accepts "42" and 42 alike.
func (v *Int64String) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return fmt.Errorf("int64 string %q: %w", t, err)
		}
		*v = Int64String(n)
		return nil
	case float64:
		*v = Int64String(int64(t))
		return nil
	default:
		return fmt.Errorf("int64 string: unexpected JSON type %T", raw)
	}
}

// BatchState is the service-side lifecycle state of a batch. Declared as a
// string so future states decode without error.
type BatchState string

const (
	BatchStateUnspecified BatchState = "BATCH_STATE_UNSPECIFIED"
	BatchStatePending     BatchState = "BATCH_STATE_PENDING"
	BatchStateRunning     BatchState = "BATCH_STATE_RUNNING"
	BatchStateSucceeded   BatchState = "BATCH_STATE_SUCCEEDED"
	BatchStateFailed      BatchState = "BATCH_STATE_FAILED"
	BatchStateCancelled   BatchState = "BATCH_STATE_CANCELLED"
	BatchStateExpired     BatchState = "BATCH_STATE_EXPIRED"
)

// Terminal reports whether the state is final. Unknown states report
// non-terminal, so pollers keep polling rather than giving up on a state
// added after this package was built.
func (s BatchState) Terminal() bool {
	switch s {
	case BatchStateSucceeded, BatchStateFailed, BatchStateCancelled, BatchStateExpired:
		return true
	}
	return false
}

// BatchStats counts the requests in a batch by disposition. Counts the
// service has not reported yet are nil.
type BatchStats struct {
	RequestCount           Int64String  `json:"requestCount,omitempty"`
	PendingRequestCount    *Int64String `json:"pendingRequestCount,omitempty"`
	CompletedRequestCount  *Int64String `json:"completedRequestCount,omitempty"`
	FailedRequestCount     *Int64String `json:"failedRequestCount,omitempty"`
	SuccessfulRequestCount *Int64String `json:"successfulRequestCount,omitempty"`
}

// BatchMetadata describes a batch's configuration and progress.
type BatchMetadata struct {
	Model       string      `json:"model,omitempty"`
	DisplayName string      `json:"displayName,omitempty"`
	State       BatchState  `json:"state,omitempty"`
	CreateTime  *time.Time  `json:"createTime,omitempty"`
	UpdateTime  *time.Time  `json:"updateTime,omitempty"`
	EndTime     *time.Time  `json:"endTime,omitempty"`
	BatchStats  *BatchStats `json:"batchStats,omitempty"`
}

// OperationStatus is the google.rpc.Status an operation reports on
// failure.
type OperationStatus struct {
	Code    int32             `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Details []json.RawMessage `json:"details,omitempty"`
}

// Error makes the operation-level failure usable as a Go error.
func (s *OperationStatus) Error() string {
	return fmt.Sprintf("operation error %d: %s", s.Code, s.Message)
}

// RequestMetadata carries the caller's correlation key through the batch.
// The service echoes it back on the matching response.
type RequestMetadata struct {
	Key string `json:"key,omitempty"`
}

// BatchRequestItem pairs one generation request with its correlation
// metadata.
type BatchRequestItem struct {
	Request  *GenerateContentRequest `json:"request"`
	Metadata *RequestMetadata        `json:"metadata,omitempty"`
}

// InlinedResponseItem is one per-request outcome: either a response or an
// error, plus the echoed metadata.
type InlinedResponseItem struct {
	Response *GenerationResponse `json:"response,omitempty"`
	Error    *OperationStatus    `json:"error,omitempty"`
	Metadata *RequestMetadata    `json:"metadata,omitempty"`
}

// Key returns the item's correlation key, or "" when absent.
func (i *InlinedResponseItem) Key() string {
	if i == nil || i.Metadata == nil {
		return ""
	}
	return i.Metadata.Key
}

// InlinedResponses wraps the per-request outcomes of an inline batch.
type InlinedResponses struct {
	InlinedResponses []InlinedResponseItem `json:"inlinedResponses,omitempty"`
}

// BatchOutput is the success payload of a finished batch: results arrive
// either inline or as a file reference, depending on how the batch was
// submitted.
type BatchOutput struct {
	InlinedResponses *InlinedResponses `json:"inlinedResponses,omitempty"`
	ResponsesFile    string            `json:"responsesFile,omitempty"`
}

// BatchOperation is the long-running operation wrapping a batch. Done
// false means in flight; done true means exactly one of Response or Error
// is set.
type BatchOperation struct {
	Name     string           `json:"name"`
	Metadata *BatchMetadata   `json:"metadata,omitempty"`
	Done     bool             `json:"done,omitempty"`
	Response *BatchOutput     `json:"response,omitempty"`
	Error    *OperationStatus `json:"error,omitempty"`
}

// State returns the lifecycle state, tolerating absent metadata.
func (op *BatchOperation) State() BatchState {
	if op == nil || op.Metadata == nil {
		return BatchStateUnspecified
	}
	return op.Metadata.State
}

// InlineResults returns the per-request outcomes of a succeeded batch,
// sorted by numeric correlation key so callers see request order
// regardless of completion order. Non-numeric keys sort last. Nil when the
// batch has no inline results.
func (op *BatchOperation) InlineResults() []InlinedResponseItem {
	if op == nil || op.Response == nil || op.Response.InlinedResponses == nil {
		return nil
	}
	items := append([]InlinedResponseItem(nil), op.Response.InlinedResponses.InlinedResponses...)
	sort.SliceStable(items, func(i, j int) bool {
		return batchKeyRank(items[i].Key()) < batchKeyRank(items[j].Key())
	})
	return items
}

func batchKeyRank(key string) int64 {
	n, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return int64(^uint64(0) >> 1)
	}
	return n
}

// Batch is a handle to a server-side batch operation. The handle observes
// the operation; the service drives all state transitions.
type Batch struct {
	client *Client
	op     BatchOperation
}

// Name returns the operation resource name, e.g. "batches/abc123".
func (b *Batch) Name() string {
	return b.op.Name
}

// Operation returns the last observed operation snapshot without a network
// call.
func (b *Batch) Operation() *BatchOperation {
	return &b.op
}

// Get refreshes the handle with the operation's current server-side state.
func (b *Batch) Get(ctx context.Context) (*BatchOperation, error) {
	c := b.client
	start := time.Now()
	c.telemetry.OnRequestStart(RequestStartEvent{Operation: "batches.get", Start: start})

	var op BatchOperation
	err := c.getJSON(ctx, c.resourceURL(b.op.Name), &op)

	c.telemetry.OnRequestEnd(RequestEndEvent{
		Operation: "batches.get", Start: start, End: time.Now(), Err: err,
	})
	if err != nil {
		return nil, err
	}
	b.op = op
	return &b.op, nil
}

// Cancel asks the service to stop the batch, then reports the state the
// service settled on. Cancellation races completion: a batch observed in
// another terminal state after the cancel attempt is returned as a valid
// observation, not an error.
func (b *Batch) Cancel(ctx context.Context) (*BatchOperation, error) {
	c := b.client
	start := time.Now()
	c.telemetry.OnRequestStart(RequestStartEvent{Operation: "batches.cancel", Start: start})

	cancelErr := c.postJSON(ctx, c.resourceURL(b.op.Name)+":cancel", struct{}{}, nil)

	c.telemetry.OnRequestEnd(RequestEndEvent{
		Operation: "batches.cancel", Start: start, End: time.Now(), Err: cancelErr,
	})

	op, getErr := b.Get(ctx)
	if getErr != nil {
		if cancelErr != nil {
			return nil, cancelErr
		}
		return nil, getErr
	}
	if cancelErr != nil && !op.State().Terminal() {
		return nil, cancelErr
	}
	return op, nil
}

// Delete removes the operation resource. It does not stop a running batch;
// use Cancel for that.
func (b *Batch) Delete(ctx context.Context) error {
	c := b.client
	start := time.Now()
	c.telemetry.OnRequestStart(RequestStartEvent{Operation: "batches.delete", Start: start})

	err := c.deleteResource(ctx, c.resourceURL(b.op.Name))

	c.telemetry.OnRequestEnd(RequestEndEvent{
		Operation: "batches.delete", Start: start, End: time.Now(), Err: err,
	})
	return err
}

// Wait polls the operation until it reaches a terminal state, the context
// is cancelled, or a request fails. The interval is the pause between
// polls; zero defaults to 5 seconds.
func (b *Batch) Wait(ctx context.Context, interval time.Duration) (*BatchOperation, error) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	for {
		op, err := b.Get(ctx)
		if err != nil {
			return nil, err
		}
		if op.State().Terminal() || op.Done {
			return op, nil
		}
		select {
		case <-ctx.Done():
			return nil, newTransportError(ctx.Err())
		case <-time.After(interval):
		}
	}
}

// GetBatch attaches a handle to an existing operation by resource name and
// fetches its current state.
func (c *Client) GetBatch(ctx context.Context, name string) (*Batch, error) {
	b := &Batch{client: c, op: BatchOperation{Name: name}}
	if _, err := b.Get(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// ListBatchesPage is one page of batch operations.
type ListBatchesPage struct {
	Operations    []BatchOperation `json:"operations,omitempty"`
	NextPageToken string           `json:"nextPageToken,omitempty"`
}

// ListBatches fetches one page of batch operations. A zero pageSize lets
// the service choose; an empty pageToken starts from the beginning.
func (c *Client) ListBatches(ctx context.Context, pageSize int, pageToken string) (*ListBatchesPage, error) {
	start := time.Now()
	c.telemetry.OnRequestStart(RequestStartEvent{Operation: "batches.list", Start: start})

	var page ListBatchesPage
	err := c.getJSON(ctx, listQuery(c.resourceURL("batches"), pageSize, pageToken), &page)

	c.telemetry.OnRequestEnd(RequestEndEvent{
		Operation: "batches.list", Start: start, End: time.Now(), Err: err,
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// ListAllBatches walks every page and returns the combined operations.
func (c *Client) ListAllBatches(ctx context.Context) ([]BatchOperation, error) {
	var (
		all   []BatchOperation
		token string
	)
	for {
		page, err := c.ListBatches(ctx, 0, token)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Operations...)
		if page.NextPageToken == "" {
			return all, nil
		}
		token = page.NextPageToken
	}
}

package gemkit

import (
	"context"
	"fmt"
	"time"
)

// CachedContentUsage reports the token footprint of a cache entry.
type CachedContentUsage struct {
	TotalTokenCount *int32 `json:"totalTokenCount,omitempty"`
}

// CachedContent is a server-side cache of conversation prefix, system
// instruction, and tools, billed at a reduced rate when referenced by
// generation requests.
type CachedContent struct {
	Name              string              `json:"name,omitempty"`
	DisplayName       string              `json:"displayName,omitempty"`
	Model             string              `json:"model,omitempty"`
	Contents          []Content           `json:"contents,omitempty"`
	SystemInstruction *Content            `json:"systemInstruction,omitempty"`
	Tools             []Tool              `json:"tools,omitempty"`
	ToolConfig        *ToolConfig         `json:"toolConfig,omitempty"`
	TTL               string              `json:"ttl,omitempty"`
	CreateTime        *time.Time          `json:"createTime,omitempty"`
	UpdateTime        *time.Time          `json:"updateTime,omitempty"`
	ExpireTime        *time.Time          `json:"expireTime,omitempty"`
	UsageMetadata     *CachedContentUsage `json:"usageMetadata,omitempty"`
}

// CacheBuilder assembles a cached-content resource. Obtain one from
// Client.CreateCache.
type CacheBuilder struct {
	client *Client
	cc     CachedContent
}

// CreateCache starts building a cache entry for the client's default
// model.
func (c *Client) CreateCache() *CacheBuilder {
	return &CacheBuilder{client: c, cc: CachedContent{Model: qualifyModel(c.config.Model)}}
}

// Model overrides the model the cache is bound to. Cached content only
// serves requests against the same model.
func (b *CacheBuilder) Model(model string) *CacheBuilder {
	b.cc.Model = qualifyModel(model)
	return b
}

// DisplayName sets a human-readable name.
func (b *CacheBuilder) DisplayName(name string) *CacheBuilder {
	b.cc.DisplayName = name
	return b
}

// System sets the cached system instruction.
func (b *CacheBuilder) System(text string) *CacheBuilder {
	content := Content{Parts: []Part{TextPart(text)}}
	b.cc.SystemInstruction = &content
	return b
}

// User appends a cached user turn.
func (b *CacheBuilder) User(text string) *CacheBuilder {
	b.cc.Contents = append(b.cc.Contents, Text(text).WithRole(RoleUser))
	return b
}

// Message appends a cached conversation turn as-is.
func (b *CacheBuilder) Message(content Content) *CacheBuilder {
	b.cc.Contents = append(b.cc.Contents, content)
	return b
}

// Tool adds a cached tool declaration.
func (b *CacheBuilder) Tool(tool Tool) *CacheBuilder {
	b.cc.Tools = append(b.cc.Tools, tool)
	return b
}

// TTL sets the cache lifetime relative to creation. Mutually exclusive
// with ExpireTime; the later call wins.
func (b *CacheBuilder) TTL(d time.Duration) *CacheBuilder {
	b.cc.TTL = formatTTL(d)
	b.cc.ExpireTime = nil
	return b
}

// ExpireTime sets an absolute expiry. Mutually exclusive with TTL; the
// later call wins.
func (b *CacheBuilder) ExpireTime(t time.Time) *CacheBuilder {
	b.cc.ExpireTime = &t
	b.cc.TTL = ""
	return b
}

// Execute creates the cache entry and returns the server's view of it,
// including the assigned resource name.
func (b *CacheBuilder) Execute(ctx context.Context) (*CachedContent, error) {
	c := b.client
	start := time.Now()
	c.telemetry.OnRequestStart(RequestStartEvent{Operation: "cachedContents.create", Model: b.cc.Model, Start: start})

	var out CachedContent
	err := c.postJSON(ctx, c.resourceURL("cachedContents"), &b.cc, &out)

	c.telemetry.OnRequestEnd(RequestEndEvent{
		Operation: "cachedContents.create", Model: b.cc.Model,
		Start: start, End: time.Now(), Err: err,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// formatTTL renders a duration as the API's seconds string, e.g. "300s".
func formatTTL(d time.Duration) string {
	secs := d.Seconds()
	if secs == float64(int64(secs)) {
		return fmt.Sprintf("%ds", int64(secs))
	}
	return fmt.Sprintf("%gs", secs)
}

// GetCachedContent fetches a cache entry by resource name, e.g.
// "cachedContents/abc123".
func (c *Client) GetCachedContent(ctx context.Context, name string) (*CachedContent, error) {
	var out CachedContent
	if err := c.getJSON(ctx, c.resourceURL(name), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCachedContentTTL extends (or shortens) a cache entry's lifetime.
// Only the expiry is mutable after creation.
func (c *Client) UpdateCachedContentTTL(ctx context.Context, name string, ttl time.Duration) (*CachedContent, error) {
	in := CachedContent{TTL: formatTTL(ttl)}
	u := c.resourceURL(name) + "?updateMask=ttl"

	var out CachedContent
	if err := c.patchJSON(ctx, u, &in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCachedContent removes a cache entry.
func (c *Client) DeleteCachedContent(ctx context.Context, name string) error {
	return c.deleteResource(ctx, c.resourceURL(name))
}

// CachedContentPage is one page of cache entries.
type CachedContentPage struct {
	CachedContents []CachedContent `json:"cachedContents,omitempty"`
	NextPageToken  string          `json:"nextPageToken,omitempty"`
}

// ListCachedContents returns one page of cache entries.
func (c *Client) ListCachedContents(ctx context.Context, pageSize int, pageToken string) (*CachedContentPage, error) {
	var page CachedContentPage
	if err := c.getJSON(ctx, listQuery(c.resourceURL("cachedContents"), pageSize, pageToken), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

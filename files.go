package gemkit

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"
)

const filesUploadPath = "/upload/v1beta/files"

// FileState represents the processing state of a file.
type FileState string

const (
	// FileStateUnspecified is the default/omitted state.
	FileStateUnspecified FileState = "STATE_UNSPECIFIED"
	// FileStateProcessing indicates the file is being processed.
	FileStateProcessing FileState = "PROCESSING"
	// FileStateActive indicates the file is ready for use.
	FileStateActive FileState = "ACTIVE"
	// FileStateFailed indicates processing failed.
	FileStateFailed FileState = "FAILED"
)

// FileSource indicates how the file was created.
type FileSource string

const (
	FileSourceUnspecified FileSource = "SOURCE_UNSPECIFIED"
	FileSourceUploaded    FileSource = "UPLOADED"
	FileSourceGenerated   FileSource = "GENERATED"
)

// File represents a file uploaded to the service. Uploaded files are
// stored for 48 hours before automatic deletion.
type File struct {
	Name           string         `json:"name"`
	DisplayName    string         `json:"displayName,omitempty"`
	MIMEType       string         `json:"mimeType"`
	SizeBytes      Int64String    `json:"sizeBytes,omitempty"`
	CreateTime     *time.Time     `json:"createTime,omitempty"`
	UpdateTime     *time.Time     `json:"updateTime,omitempty"`
	ExpirationTime *time.Time     `json:"expirationTime,omitempty"`
	SHA256Hash     string         `json:"sha256Hash,omitempty"`
	URI            string         `json:"uri"`
	DownloadURI    string         `json:"downloadUri,omitempty"`
	State          FileState      `json:"state,omitempty"`
	Source         FileSource     `json:"source,omitempty"`
	Error          *FileError     `json:"error,omitempty"`
	VideoMetadata  *VideoMetadata `json:"videoMetadata,omitempty"`
}

// AsPart turns the file into a content part referencing it.
func (f *File) AsPart() Part {
	return FileDataPart(f.MIMEType, f.URI)
}

// VideoMetadata contains metadata for video files.
type VideoMetadata struct {
	VideoDuration string `json:"videoDuration,omitempty"`
}

// FileError contains error details if processing failed.
type FileError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// FileUploadRequest contains parameters for uploading a file.
type FileUploadRequest struct {
	// Content is the reader containing file content.
	Content io.Reader
	// DisplayName is the human-readable name (max 512 chars).
	DisplayName string
	// MIMEType is the MIME type of the file.
	MIMEType string
}

// fileUploadMetadata is the JSON body for upload initiation.
type fileUploadMetadata struct {
	File struct {
		DisplayName string `json:"display_name,omitempty"`
	} `json:"file"`
}

// fileUploadResponse wraps the upload response.
type fileUploadResponse struct {
	File File `json:"file"`
}

// UploadFile uploads a file using the resumable upload protocol: one
// request to obtain the session URL, one to send the bytes and finalize.
func (c *Client) UploadFile(ctx context.Context, req *FileUploadRequest) (*File, error) {
	start := time.Now()
	c.telemetry.OnRequestStart(RequestStartEvent{Operation: "files.upload", Start: start})

	file, err := c.uploadFile(ctx, req)

	c.telemetry.OnRequestEnd(RequestEndEvent{
		Operation: "files.upload", Start: start, End: time.Now(), Err: err,
	})
	return file, err
}

func (c *Client) uploadFile(ctx context.Context, req *FileUploadRequest) (*File, error) {
	uploadURL, err := c.initiateResumableUpload(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.uploadFileContent(ctx, uploadURL, req)
}

func (c *Client) initiateResumableUpload(ctx context.Context, req *FileUploadRequest) (string, error) {
	metadata := fileUploadMetadata{}
	metadata.File.DisplayName = req.DisplayName
	return c.startResumableUpload(ctx, c.config.BaseURL+filesUploadPath, req.MIMEType, metadata)
}

func (c *Client) uploadFileContent(ctx context.Context, uploadURL string, req *FileUploadRequest) (*File, error) {
	body, err := c.finishResumableUpload(ctx, uploadURL, req.Content)
	if err != nil {
		return nil, err
	}

	var result fileUploadResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, newDecodeError(err, body)
	}
	return &result.File, nil
}

// startResumableUpload opens a resumable upload session and returns the
// session URL the bytes should be sent to.
func (c *Client) startResumableUpload(ctx context.Context, initURL, mimeType string, metadata any) (string, error) {
	body, err := json.Marshal(metadata)
	if err != nil {
		return "", newDecodeError(err, nil)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, initURL, bytes.NewReader(body))
	if err != nil {
		return "", newTransportError(err)
	}
	httpReq.Header.Set("x-goog-api-key", c.config.APIKey.Expose())
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Upload-Protocol", "resumable")
	httpReq.Header.Set("X-Goog-Upload-Command", "start")
	if mimeType != "" {
		httpReq.Header.Set("X-Goog-Upload-Header-Content-Type", mimeType)
	}

	resp, err := c.config.HTTPClient.Do(httpReq)
	if err != nil {
		return "", newTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", normalizeAPIError(resp.StatusCode, respBody)
	}

	uploadURL := resp.Header.Get("X-Goog-Upload-URL")
	if uploadURL == "" {
		return "", newTransportError(errMissingUploadURL)
	}
	return uploadURL, nil
}

// finishResumableUpload sends the content in one shot and finalizes the
// session, returning the raw response body.
func (c *Client) finishResumableUpload(ctx context.Context, uploadURL string, r io.Reader) ([]byte, error) {
	// The upload protocol needs the exact size up front.
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, newTransportError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(content))
	if err != nil {
		return nil, newTransportError(err)
	}
	httpReq.Header.Set("Content-Length", strconv.Itoa(len(content)))
	httpReq.Header.Set("X-Goog-Upload-Offset", "0")
	httpReq.Header.Set("X-Goog-Upload-Command", "upload, finalize")

	resp, err := c.config.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, newTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError(err)
	}
	if resp.StatusCode >= 400 {
		return nil, normalizeAPIError(resp.StatusCode, body)
	}
	return body, nil
}

// GetFile retrieves metadata for a file by resource name, e.g.
// "files/abc123".
func (c *Client) GetFile(ctx context.Context, name string) (*File, error) {
	var file File
	if err := c.getJSON(ctx, c.resourceURL(name), &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// FileListPage contains one page of file results.
type FileListPage struct {
	Files         []File `json:"files"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

// ListFiles returns one page of files.
func (c *Client) ListFiles(ctx context.Context, pageSize int, pageToken string) (*FileListPage, error) {
	var page FileListPage
	if err := c.getJSON(ctx, listQuery(c.resourceURL("files"), pageSize, pageToken), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListAllFiles returns all files, handling pagination automatically.
func (c *Client) ListAllFiles(ctx context.Context) ([]File, error) {
	var (
		all   []File
		token string
	)
	for {
		page, err := c.ListFiles(ctx, 100, token)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Files...)
		if page.NextPageToken == "" {
			return all, nil
		}
		token = page.NextPageToken
	}
}

// DeleteFile deletes a file by resource name.
func (c *Client) DeleteFile(ctx context.Context, name string) error {
	return c.deleteResource(ctx, c.resourceURL(name))
}

// DownloadFile fetches the raw bytes of a downloadable file. Only files
// the service marks downloadable carry a download URI.
func (c *Client) DownloadFile(ctx context.Context, file *File) ([]byte, error) {
	u := file.DownloadURI
	if u == "" {
		u = c.resourceURL(file.Name) + ":download?alt=media"
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, newTransportError(err)
	}
	httpReq.Header.Set("x-goog-api-key", c.config.APIKey.Expose())

	resp, err := c.config.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, newTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError(err)
	}
	if resp.StatusCode >= 400 {
		return nil, normalizeAPIError(resp.StatusCode, body)
	}
	return body, nil
}

// WaitForFileActive polls until the file reaches ACTIVE state or fails.
// Returns ErrFileFailed if processing fails.
func (c *Client) WaitForFileActive(ctx context.Context, name string) (*File, error) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	// First check immediately
	file, err := c.GetFile(ctx, name)
	if err != nil {
		return nil, err
	}

	for {
		switch file.State {
		case FileStateActive:
			return file, nil
		case FileStateFailed:
			msg := "file processing failed"
			if file.Error != nil {
				msg = file.Error.Message
			}
			return nil, &APIError{Code: "file_failed", Message: msg, Err: ErrFileFailed}
		}

		select {
		case <-ctx.Done():
			return nil, newTransportError(ctx.Err())
		case <-ticker.C:
			file, err = c.GetFile(ctx, name)
			if err != nil {
				return nil, err
			}
		}
	}
}

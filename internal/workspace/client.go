package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"claimdocs/internal/domain/models"
	"claimdocs/internal/domain/services"
)

// Client talks to the documents API. Failed calls never retry; each error is
// surfaced once and the caller decides how to react.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a client for the API at baseURL (e.g.
// "https://host/api"). token is sent as a bearer credential when non-empty.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// apiError is the problem-detail shape the server responds with. Older
// deployments used "error" or "message" instead of "detail", so all three
// are accepted.
type apiError struct {
	Detail  string `json:"detail"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.http.Do(req)
}

// readError converts a non-2xx response into an error, preferring the body's
// detail over the bare status line.
func readError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var ae apiError
	if err := json.Unmarshal(body, &ae); err == nil {
		for _, msg := range []string{ae.Detail, ae.Error, ae.Message} {
			if msg != "" {
				return fmt.Errorf("%s", msg)
			}
		}
	}
	return fmt.Errorf("request failed: %s", resp.Status)
}

// ListDocuments fetches a claim's documents. A 404 means the claim has no
// document list yet and returns an empty slice, not an error.
func (c *Client) ListDocuments(ctx context.Context, eventID string, damageID *string) ([]models.Document, error) {
	q := url.Values{"eventId": {eventID}}
	if damageID != nil && *damageID != "" {
		q.Set("damageId", *damageID)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/documents?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return []models.Document{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}
	var docs []models.Document
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decoding document list: %w", err)
	}
	return docs, nil
}

// UploadDocument posts one file as multipart form data.
func (c *Client) UploadDocument(ctx context.Context, eventID string, damageID *string, categoryCode, fileName, contentType string, content io.Reader) (*models.Document, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, content); err != nil {
		return nil, err
	}
	_ = mw.WriteField("eventId", eventID)
	if damageID != nil && *damageID != "" {
		_ = mw.WriteField("damageId", *damageID)
	}
	_ = mw.WriteField("category", categoryCode)
	if contentType != "" {
		_ = mw.WriteField("contentType", contentType)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}
	var doc models.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding uploaded document: %w", err)
	}
	return &doc, nil
}

// UpdateDocument applies a partial update to one document.
func (c *Client) UpdateDocument(ctx context.Context, id string, upd *services.UpdateDocumentRequest) (*models.Document, error) {
	body, err := json.Marshal(upd)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/documents/"+id, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}
	var doc models.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding updated document: %w", err)
	}
	return &doc, nil
}

// DeleteDocument removes one document.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/documents/"+id, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return readError(resp)
	}
	return nil
}

// GenerateDescription asks the server to describe one document.
func (c *Client) GenerateDescription(ctx context.Context, id string) (*models.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents/"+id+"/generate-description", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}
	var doc models.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding described document: %w", err)
	}
	return &doc, nil
}

// DownloadDocument fetches a document's bytes as served for saving.
func (c *Client) DownloadDocument(ctx context.Context, id string) ([]byte, error) {
	return c.fetchBytes(ctx, c.baseURL+"/documents/"+id+"/download")
}

// PreviewDocument fetches a document's bytes as served for inline display.
func (c *Client) PreviewDocument(ctx context.Context, id string) ([]byte, error) {
	return c.fetchBytes(ctx, c.baseURL+"/documents/"+id+"/preview")
}

func (c *Client) fetchBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}
	return io.ReadAll(resp.Body)
}

// ListRequiredTypes fetches the required-type catalog for a claim.
func (c *Client) ListRequiredTypes(ctx context.Context, objectType, eventID string) (models.Catalog, error) {
	q := url.Values{"eventId": {eventID}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/required-document-types/"+url.PathEscape(objectType)+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return models.Catalog{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}
	var catalog models.Catalog
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("decoding required types: %w", err)
	}
	return catalog, nil
}

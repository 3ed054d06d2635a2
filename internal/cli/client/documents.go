package client

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
)

// DocumentFilter narrows a document listing. Zero values are omitted from
// the query string so the backend applies its defaults.
type DocumentFilter struct {
	Page       int
	Search     string
	CategoryID string
}

func (f DocumentFilter) query() url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.CategoryID != "" {
		q.Set("category_id", f.CategoryID)
	}
	return q
}

// ListDocuments returns one page of documents matching the filter.
func (c *Client) ListDocuments(ctx context.Context, filter DocumentFilter) (*Page[Document], error) {
	body, err := c.do(ctx, http.MethodGet, "/documents", filter.query(), nil)
	if err != nil {
		return nil, err
	}
	return decodePage[Document](body)
}

// GetDocument returns a single document's metadata.
func (c *Client) GetDocument(ctx context.Context, id string) (*Document, error) {
	body, err := c.do(ctx, http.MethodGet, "/documents/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := decodeItem(body, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// UploadDocumentRequest carries the metadata accompanying a file upload.
type UploadDocumentRequest struct {
	Title        string
	Description  string
	CategoryID   string
	DocumentDate string
}

// UploadDocument uploads a file with its metadata as multipart form data
// and returns the created document.
func (c *Client) UploadDocument(ctx context.Context, req UploadDocumentRequest, filePath string) (*Document, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		fields := map[string]string{
			"title":         req.Title,
			"description":   req.Description,
			"category_id":   req.CategoryID,
			"document_date": req.DocumentDate,
		}
		for name, value := range fields {
			if value == "" {
				continue
			}
			if err := writer.WriteField(name, value); err != nil {
				pw.CloseWithError(err)
				return
			}
		}

		part, err := writer.CreateFormFile("file", filepath.Base(filePath))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/documents", nil, pr)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.normalizeTransport(err)
	}
	defer resp.Body.Close()

	body, err := c.readResponse(resp)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := decodeItem(body, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateDocumentRequest carries metadata changes for an existing document.
// Nil fields are left unchanged.
type UpdateDocumentRequest struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	CategoryID   *string `json:"category_id,omitempty"`
	DocumentDate *string `json:"document_date,omitempty"`
	Status       *string `json:"status,omitempty"`
}

// UpdateDocument updates a document's metadata.
func (c *Client) UpdateDocument(ctx context.Context, id string, req UpdateDocumentRequest) (*Document, error) {
	body, err := c.do(ctx, http.MethodPut, "/documents/"+url.PathEscape(id), nil, req)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := decodeItem(body, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteDocument deletes a document by ID.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/documents/"+url.PathEscape(id), nil, nil)
	return err
}

// DownloadDocument streams the document's file into destDir and returns the
// path it was written to. The filename comes from the Content-Disposition
// header, falling back to the document ID.
func (c *Client) DownloadDocument(ctx context.Context, id, destDir string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/documents/"+url.PathEscape(id)+"/download", nil, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.normalizeTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Reuse the standard error path, including 401 eviction.
		_, err := c.readResponse(resp)
		return "", err
	}

	name := id
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			name = filepath.Base(params["filename"])
		}
	}

	destPath := filepath.Join(destDir, name)
	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return destPath, nil
}

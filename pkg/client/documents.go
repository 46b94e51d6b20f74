// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
)

// ErrFileTooLarge is returned by [EncodeFile] when the content exceeds the limit.
var ErrFileTooLarge = errors.New("file exceeds upload limit")

// DocumentsClient provides access to case documents.
//
// Access this client through [Client.Documents]:
//
//	docs, err := c.Documents.List(ctx)
//	dl, err := c.Documents.Download(ctx, 7)
type DocumentsClient struct {
	c    *Client
	path string
}

// List returns the metadata of all documents, newest first.
func (s *DocumentsClient) List(ctx context.Context) ([]Document, error) {
	data, err := s.c.get(ctx, s.path, nil)
	if err != nil {
		return nil, err
	}

	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse documents: %w", err)
	}

	return docs, nil
}

// Get returns the metadata of document id.
func (s *DocumentsClient) Get(ctx context.Context, id int) (*Document, error) {
	data, err := s.c.get(ctx, s.path, idQuery(id))
	if err != nil {
		return nil, err
	}
	if isEmptyRecord(data) {
		return nil, ErrNotFound
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if doc.ID == 0 {
		return nil, ErrNotFound
	}

	return &doc, nil
}

// Create stores a new document and returns its id, or zero when the API
// does not report it. in.ArquivoBase64 must be set.
func (s *DocumentsClient) Create(ctx context.Context, in DocumentInput) (int, error) {
	if in.ArquivoBase64 == nil {
		return 0, errors.New("document content is required on create")
	}
	data, err := s.c.sendJSON(ctx, http.MethodPost, s.path, in)
	if err != nil {
		return 0, err
	}
	return createdID(data, "id_documento"), nil
}

// Update replaces the metadata of document id, and its content when
// in.ArquivoBase64 is set.
func (s *DocumentsClient) Update(ctx context.Context, id int, in DocumentInput) error {
	body := struct {
		ID int `json:"id"`
		DocumentInput
	}{ID: id, DocumentInput: in}
	_, err := s.c.sendJSON(ctx, http.MethodPut, s.path, body)
	return err
}

// Delete removes document id.
func (s *DocumentsClient) Delete(ctx context.Context, id int) error {
	_, err := s.c.send(ctx, http.MethodDelete, s.path, idQuery(id))
	return err
}

// Download is an open document payload. The caller must close Body.
type Download struct {
	Body          io.ReadCloser
	Filename      string
	ContentType   string
	ContentLength int64
}

// Download fetches the binary content of document id.
//
// A non-2xx response is returned as *APIError and no body is handed out.
func (s *DocumentsClient) Download(ctx context.Context, id int) (*Download, error) {
	q := url.Values{"id": {fmt.Sprint(id)}, "download": {"true"}}
	resp, err := s.c.raw(ctx, http.MethodGet, withQuery(s.path, q), nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, newAPIError(resp.StatusCode, body)
	}

	dl := &Download{
		Body:          resp.Body,
		Filename:      attachmentName(resp.Header.Get("Content-Disposition")),
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
	}
	if dl.Filename == "" {
		dl.Filename = fmt.Sprintf("documento-%d", id)
	}
	if dl.ContentType == "" {
		dl.ContentType = GuessContentType(dl.Filename)
	}
	return dl, nil
}

// GuessContentType maps a filename extension to a MIME type, falling back to
// application/octet-stream.
func GuessContentType(name string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return t
	}
	return "application/octet-stream"
}

func attachmentName(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return filepath.Base(params["filename"])
}

// EncodeFile reads r to the end and returns its base64 encoding. Content
// longer than limit bytes fails with ErrFileTooLarge; limit <= 0 disables
// the check.
func EncodeFile(r io.Reader, limit int64) (string, error) {
	var sb strings.Builder
	enc := base64.NewEncoder(base64.StdEncoding, &sb)

	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}
	n, err := io.Copy(enc, src)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if limit > 0 && n > limit {
		return "", ErrFileTooLarge
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode file: %w", err)
	}
	return sb.String(), nil
}

/*
 * Copyright 2024-2025 by the Warden authors
 * https://github.com/kradscan/warden
 * All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	kerrors "github.com/kradscan/warden/pkg/errors"
)

const uploadURL = "https://tmpfiles.org/api/v1/upload"

// uploadResponse mirrors the subset of tmpfiles.org's JSON response
// this scanner reads.
type uploadResponse struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
}

// Uploader writes the rendered report to a temp file through an
// afero filesystem (a real OS fs in production, an in-memory fs in
// tests), multipart-POSTs it to tmpfiles.org, and returns the
// retrieval URL. The temp file is removed on every path, uploaded or
// not.
type Uploader struct {
	FS         afero.Fs
	HTTPClient *http.Client
}

// NewUploader returns an Uploader backed by the real OS filesystem.
func NewUploader() *Uploader {
	return &Uploader{FS: afero.NewOsFs(), HTTPClient: http.DefaultClient}
}

// Upload writes content to a uniquely named temp file and uploads it,
// returning the retrieval URL tmpfiles.org assigns.
func (u *Uploader) Upload(ctx context.Context, content string) (string, error) {
	name := fmt.Sprintf("warden-report-%s.txt", uuid.New().String())
	path := "/tmp/" + name

	if err := afero.WriteFile(u.FS, path, []byte(content), 0o600); err != nil {
		return "", kerrors.Wrapf(kerrors.ErrUploadFailed, "writing temp file: %v", err)
	}
	defer u.FS.Remove(path)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", kerrors.Wrapf(kerrors.ErrUploadFailed, "creating multipart part: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		return "", kerrors.Wrapf(kerrors.ErrUploadFailed, "writing multipart body: %v", err)
	}
	if err := mw.Close(); err != nil {
		return "", kerrors.Wrapf(kerrors.ErrUploadFailed, "closing multipart writer: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &body)
	if err != nil {
		return "", kerrors.Wrapf(kerrors.ErrUploadFailed, "building request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.HTTPClient.Do(req)
	if err != nil {
		return "", kerrors.Wrapf(kerrors.ErrUploadFailed, "posting upload: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", kerrors.Wrapf(kerrors.ErrUploadFailed, "upload returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", kerrors.Wrapf(kerrors.ErrUploadFailed, "reading upload response: %v", err)
	}

	var parsed uploadResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", kerrors.Wrapf(kerrors.ErrUploadFailed, "decoding upload response: %v", err)
	}
	if parsed.Data.URL == "" {
		return "", kerrors.ErrMissingUploadURL
	}
	return parsed.Data.URL, nil
}

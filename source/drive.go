// Copyright 2025 Codemet
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/codemet/dora/core"
)

const (
	mimeFolder       = "application/vnd.google-apps.folder"
	mimeGoogleDoc    = "application/vnd.google-apps.document"
	mimeGoogleSlides = "application/vnd.google-apps.presentation"
	drivePageSize    = 1000
	driveListFields  = "nextPageToken, files(id, name, mimeType, parents, webViewLink)"
)

// supportedMimeTypes are the document types the pipeline can ingest,
// plus folders so traversal sees subdirectories.
var supportedMimeTypes = []string{
	mimeGoogleDoc,
	mimeGoogleSlides,
	mimeFolder,
	mimePDF,
	mimeDOCX,
	mimePPTX,
	"text/plain",
}

// DriveSource implements DocumentSource against the Google Drive v3 API.
type DriveSource struct {
	service *drive.Service
	logger  *slog.Logger
}

// NewDriveSource creates a Drive-backed source authenticated with a
// bearer access token (the per-user OAuth token the frontend obtained).
func NewDriveSource(ctx context.Context, accessToken string) (*DriveSource, error) {
	if accessToken == "" {
		return nil, ErrEmptyAccessToken
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	service, err := drive.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}

	return &DriveSource{
		service: service,
		logger:  slog.Default().With("component", "drive-source"),
	}, nil
}

// listQuery builds the Drive query for one folder's supported children.
func listQuery(folderID string) string {
	clauses := make([]string, len(supportedMimeTypes))
	for i, m := range supportedMimeTypes {
		clauses[i] = fmt.Sprintf("mimeType='%s'", m)
	}
	return fmt.Sprintf("'%s' in parents and trashed = false and (%s)",
		folderID, strings.Join(clauses, " or "))
}

// ListFolder returns the folder's direct children.
func (s *DriveSource) ListFolder(ctx context.Context, folderID string) ([]core.DocumentInfo, error) {
	if folderID == "" {
		return nil, ErrEmptyFolderID
	}

	var infos []core.DocumentInfo
	call := s.service.Files.List().
		Q(listQuery(folderID)).
		PageSize(drivePageSize).
		Fields(driveListFields).
		Context(ctx)

	err := call.Pages(ctx, func(page *drive.FileList) error {
		for _, f := range page.Files {
			infos = append(infos, core.DocumentInfo{
				ID:          f.Id,
				Name:        f.Name,
				MimeType:    f.MimeType,
				Folder:      folderID,
				WebViewLink: f.WebViewLink,
				IsFolder:    f.MimeType == mimeFolder,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list folder %s: %w", folderID, err)
	}

	s.logger.Debug("listed folder", "folder", folderID, "children", len(infos))
	return infos, nil
}

// Fetch downloads one document. Google-native types have no binary
// form, so Drive exports them to text/plain server-side; everything
// else downloads as-is for local extraction.
func (s *DriveSource) Fetch(ctx context.Context, documentID, mimeType string) ([]byte, string, error) {
	if documentID == "" {
		return nil, "", core.ErrEmptyDocumentID
	}

	switch mimeType {
	case mimeGoogleDoc, mimeGoogleSlides:
		resp, err := s.service.Files.Export(documentID, "text/plain").Context(ctx).Download()
		if err != nil {
			return nil, "", fmt.Errorf("failed to export %s: %w", documentID, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read export of %s: %w", documentID, err)
		}
		return data, "text/plain", nil

	default:
		resp, err := s.service.Files.Get(documentID).Context(ctx).Download()
		if err != nil {
			return nil, "", fmt.Errorf("failed to download %s: %w", documentID, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read download of %s: %w", documentID, err)
		}
		return data, mimeType, nil
	}
}

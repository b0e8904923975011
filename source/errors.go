package source

import "errors"

var (
	// ErrEmptyFolderID indicates a listing was requested without a folder.
	ErrEmptyFolderID = errors.New("folder ID is required")

	// ErrEmptyAccessToken indicates the Drive source was constructed
	// without credentials.
	ErrEmptyAccessToken = errors.New("access token is required")
)

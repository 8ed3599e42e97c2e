package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound reports that no object exists at the requested path.
	ErrNotFound = errors.New("object not found")
	// ErrConflict reports a compare-and-swap failure: the supplied version
	// token no longer matches the object's current version.
	ErrConflict = errors.New("object version conflict")
	// ErrUnauthorized reports that the store rejected the bearer credential.
	ErrUnauthorized = errors.New("store credential rejected")
	// ErrUnavailable reports that the store could not be reached or answered
	// with an unexpected status.
	ErrUnavailable = errors.New("store unavailable")
)

// EntryType distinguishes files from directories in listings.
type EntryType string

const (
	// EntryFile marks a regular object.
	EntryFile EntryType = "file"
	// EntryDir marks a directory entry that can be listed further.
	EntryDir EntryType = "dir"
)

// Entry is one member of a directory listing. Version is the store-assigned
// content hash for files; DownloadURL and HTMLURL are store-assigned
// retrieval locations.
type Entry struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Type        EntryType `json:"type"`
	Size        int64     `json:"size"`
	Version     string    `json:"sha"`
	DownloadURL string    `json:"download_url"`
	HTMLURL     string    `json:"html_url"`
}

// Object is a fully fetched object: listing metadata plus decoded content.
type Object struct {
	Entry
	Content []byte
}

// Commit describes the write the store recorded for a mutation.
type Commit struct {
	Version string `json:"sha"`
	URL     string `json:"html_url"`
}

// PutRequest carries a create-or-update. An empty ExpectedVersion means
// "create"; a non-empty one makes the write conditional on that version.
type PutRequest struct {
	Content         []byte
	Message         string
	ExpectedVersion string
}

// DeleteRequest carries a conditional delete. ExpectedVersion is required:
// the store refuses unconditional deletes.
type DeleteRequest struct {
	Message         string
	ExpectedVersion string
}

// PutResult is the outcome of a successful Put: the new object metadata
// (including its fresh version token) and the recorded commit.
type PutResult struct {
	Object Entry
	Commit Commit
}

// Client is the object-store access surface the engine depends on.
// Credential is the caller-held bearer secret; Get and List accept an empty
// credential for anonymous reads where the store allows them.
type Client interface {
	Get(ctx context.Context, path, credential string) (*Object, error)
	List(ctx context.Context, path, credential string) ([]Entry, error)
	Put(ctx context.Context, path string, req PutRequest, credential string) (*PutResult, error)
	Delete(ctx context.Context, path string, req DeleteRequest, credential string) (Commit, error)
}

package metadata

import (
	"path/filepath"
	"strings"
)

// Where an attached metadata file can be read from.
type LocationKind int

const (
	LocationPath LocationKind = iota
	LocationUrl
)

type Location struct {
	Kind  LocationKind
	Value string
}

// FileStore resolves the file reference stored on a source entry to a
// concrete location. The deployment decides whether files live on disk or in
// an object store; the aggregator only sees the resolved location.
type FileStore interface {
	Resolve(fileRef string) Location
}

// DiskFileStore serves files from a base directory on the local filesystem.
type DiskFileStore struct {
	BaseDir string
}

func (store DiskFileStore) Resolve(fileRef string) Location {
	return Location{Kind: LocationPath, Value: filepath.Join(store.BaseDir, fileRef)}
}

// ObjectFileStore addresses files by URL below an object-storage base URL.
type ObjectFileStore struct {
	BaseUrl string
}

func (store ObjectFileStore) Resolve(fileRef string) Location {
	return Location{Kind: LocationUrl, Value: strings.TrimSuffix(store.BaseUrl, "/") + "/" + strings.TrimPrefix(fileRef, "/")}
}

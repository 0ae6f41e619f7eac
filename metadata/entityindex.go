package metadata

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"

	"github.com/uniauth/saml-idp-core/model"
)

// StoreEntityIndex answers whether an entity id is present in the currently
// usable metadata. It scans locally materialized sources; remote and mdq
// presence is resolved by the protocol library and injected behind the same
// interface in deployments that track it.
type StoreEntityIndex struct {
	sourceRepo SourceRepository
	fileStore  FileStore
}

func NewStoreEntityIndex(sourceRepo SourceRepository, fileStore FileStore) *StoreEntityIndex {
	return &StoreEntityIndex{sourceRepo: sourceRepo, fileStore: fileStore}
}

func (index *StoreEntityIndex) HasEntity(entityId string) bool {
	sources, httpErr := index.sourceRepo.GetUsableSources()
	if httpErr != (model.HttpError{}) {
		logger.Warnf("Was not able to load the usable sources. Err: %s", httpErr.Message)
		return false
	}

	for _, source := range sources {
		if source.Kind != model.SourceKindLocal {
			continue
		}
		if source.File != "" {
			location := index.fileStore.Resolve(source.File)
			if location.Kind == LocationPath && fileContainsEntity(location.Value, entityId) {
				return true
			}
		}
		if source.Url != "" && directoryContainsEntity(source.Url, entityId) {
			return true
		}
	}
	return false
}

func directoryContainsEntity(dir string, entityId string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Debugf("Was not able to list metadata directory %s. Err: %v", dir, err)
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if fileContainsEntity(filepath.Join(dir, entry.Name()), entityId) {
			return true
		}
	}
	return false
}

func fileContainsEntity(path string, entityId string) bool {
	document, err := os.ReadFile(path)
	if err != nil {
		logger.Debugf("Was not able to read metadata file %s. Err: %v", path, err)
		return false
	}
	return documentContainsEntity(document, entityId)
}

func documentContainsEntity(document []byte, entityId string) bool {
	decoder := xml.NewDecoder(bytes.NewReader(document))
	for {
		token, err := decoder.Token()
		if err != nil {
			return false
		}
		startElement, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		for _, attr := range startElement.Attr {
			if attr.Name.Local == "entityID" && attr.Value == entityId {
				return true
			}
		}
	}
}

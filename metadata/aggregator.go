package metadata

import (
	"fmt"

	"github.com/uniauth/saml-idp-core/model"
)

// Aggregator produces the consolidated metadata-source snapshot consumed by
// the protocol library, keyed by source kind. Local sources resolve to a
// bare path, remote and mdq sources to a mapping of url, optional cert and
// the configured kwargs.
type Aggregator struct {
	sourceRepo SourceRepository
	fileStore  FileStore
}

func NewAggregator(sourceRepo SourceRepository, fileStore FileStore) *Aggregator {
	return &Aggregator{sourceRepo: sourceRepo, fileStore: fileStore}
}

// ActiveSources builds one descriptor per source passing the activity and
// validity gate. A source that cannot be described only excludes itself from
// the snapshot.
func (aggregator *Aggregator) ActiveSources() (snapshot map[string][]interface{}, httpErr model.HttpError) {
	sources, httpErr := aggregator.sourceRepo.GetUsableSources()
	if httpErr != (model.HttpError{}) {
		return snapshot, httpErr
	}

	snapshot = map[string][]interface{}{}
	for _, source := range sources {
		row, err := aggregator.sourceRow(source)
		if err != nil {
			logger.Warnf("Source %d cannot be described and is excluded from the snapshot. Err: %v", source.Id, err)
			continue
		}

		kind := source.Kind
		// any row that resolved to a mapping carrying a url is served under
		// "remote", whatever its declared kind. Deliberately kept for
		// compatibility with existing federations.
		if mapping, ok := row.(map[string]interface{}); ok {
			if _, hasUrl := mapping["url"]; hasUrl {
				kind = model.SourceKindRemote
			}
		}
		snapshot[kind] = append(snapshot[kind], row)
	}
	return snapshot, model.HttpError{}
}

func (aggregator *Aggregator) sourceRow(source model.MetadataSource) (interface{}, error) {
	switch source.Kind {
	case model.SourceKindRemote, model.SourceKindMdq:
		row := map[string]interface{}{"url": source.Url}
		if source.File != "" {
			row["cert"] = aggregator.fileStore.Resolve(source.File).Value
		}
		kwargs, err := model.ParseKwargs(source.Kwargs)
		if err != nil {
			return nil, err
		}
		for key, value := range kwargs {
			row[key] = value
		}
		return row, nil
	case model.SourceKindLocal:
		if source.File != "" {
			location := aggregator.fileStore.Resolve(source.File)
			if location.Kind == LocationUrl {
				return map[string]interface{}{"url": location.Value}, nil
			}
			return location.Value, nil
		}
		return source.Url, nil
	}
	return nil, fmt.Errorf("source kind %s is not supported", source.Kind)
}

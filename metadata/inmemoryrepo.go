package metadata

import (
	"net/http"
	"sort"
	"time"

	"github.com/uniauth/saml-idp-core/model"
)

/**
* Quick in-memory implementation of the source repository. Should only be used for dev and testing, does not have any persistence.
 */
type InMemoryRepo struct {
	sourceMap *map[int64]model.MetadataSource
	nextId    int64
}

func NewInmemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{sourceMap: &map[int64]model.MetadataSource{}, nextId: 1}
}

func (repo *InMemoryRepo) CreateSource(source model.MetadataSource) (created model.MetadataSource, httpErr model.HttpError) {
	source.Id = repo.nextId
	repo.nextId++
	source.Created = time.Now()
	source.Updated = source.Created
	(*repo.sourceMap)[source.Id] = source
	return source, httpErr
}

func (repo *InMemoryRepo) GetSource(id int64) (source model.MetadataSource, httpErr model.HttpError) {
	source, ok := (*repo.sourceMap)[id]
	if !ok {
		logger.Warnf("No such source %d exists.", id)
		return source, model.HttpError{Status: http.StatusNotFound, Message: "Source not found.", RootError: nil}
	}
	return source, httpErr
}

func (repo *InMemoryRepo) PutSource(source model.MetadataSource) (httpErr model.HttpError) {
	existing, ok := (*repo.sourceMap)[source.Id]
	if !ok {
		logger.Warnf("Source %d not found.", source.Id)
		return model.HttpError{Status: http.StatusNotFound, Message: "Source not found.", RootError: nil}
	}
	source.Created = existing.Created
	source.Updated = time.Now()
	(*repo.sourceMap)[source.Id] = source
	return httpErr
}

func (repo *InMemoryRepo) DeleteSource(id int64) (httpErr model.HttpError) {
	if _, ok := (*repo.sourceMap)[id]; !ok {
		logger.Warnf("No such source %d exists.", id)
		return model.HttpError{Status: http.StatusNotFound, Message: "Source not found.", RootError: nil}
	}
	delete(*repo.sourceMap, id)
	return httpErr
}

func (repo *InMemoryRepo) GetSources(limit int, offset int) (sources []model.MetadataSource, httpErr model.HttpError) {
	for _, id := range repo.sortedIds() {
		if len(sources) == limit {
			return sources, httpErr
		}
		if offset > 0 {
			offset--
			continue
		}
		sources = append(sources, (*repo.sourceMap)[id])
	}
	return sources, httpErr
}

func (repo *InMemoryRepo) GetUsableSources() (sources []model.MetadataSource, httpErr model.HttpError) {
	for _, id := range repo.sortedIds() {
		source := (*repo.sourceMap)[id]
		if source.IsActive && source.IsValid {
			sources = append(sources, source)
		}
	}
	return sources, httpErr
}

func (repo *InMemoryRepo) sortedIds() []int64 {
	ids := []int64{}
	for id := range *repo.sourceMap {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

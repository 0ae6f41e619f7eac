package metadata

import (
	"github.com/uniauth/saml-idp-core/logging"
	"github.com/uniauth/saml-idp-core/model"
)

var logger = logging.Log()

// SourceRepository stores the metadata feed entries.
type SourceRepository interface {
	CreateSource(source model.MetadataSource) (created model.MetadataSource, httpErr model.HttpError)
	GetSource(id int64) (source model.MetadataSource, httpErr model.HttpError)
	PutSource(source model.MetadataSource) model.HttpError
	DeleteSource(id int64) model.HttpError
	GetSources(limit int, offset int) (sources []model.MetadataSource, httpErr model.HttpError)
	// GetUsableSources returns the entries passing the activity and validity
	// gate, the only ones allowed into the runtime snapshot.
	GetUsableSources() (sources []model.MetadataSource, httpErr model.HttpError)
}

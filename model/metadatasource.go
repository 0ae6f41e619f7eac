package model

import (
	"encoding/json"
	"time"
)

// Kinds of metadata feeds.
const (
	SourceKindRemote = "remote"
	SourceKindMdq    = "mdq"
	SourceKindLocal  = "local"
)

// MetadataSource is one metadata feed entry. For remote and mdq sources the
// url is required; for local sources at least one of url (a directory) or
// file (a single document) has to be set. Same validate-then-activate
// lifecycle as ServiceProvider.
type MetadataSource struct {
	Id       int64     `json:"id"`
	Name     string    `json:"name"`
	Kind     string    `json:"kind"`
	Url      string    `json:"url,omitempty"`
	File     string    `json:"file,omitempty"`
	Kwargs   string    `json:"kwargs,omitempty"`
	IsValid  bool      `json:"isValid"`
	IsActive bool      `json:"isActive"`
	Created  time.Time `json:"created,omitempty"`
	Updated  time.Time `json:"updated,omitempty"`
}

// IsKnownSourceKind reports whether kind is one of the supported feed kinds.
func IsKnownSourceKind(kind string) bool {
	return kind == SourceKindRemote || kind == SourceKindMdq || kind == SourceKindLocal
}

// ParseKwargs parses the kind-specific keyword arguments of a source. An
// empty string parses to an empty mapping.
func ParseKwargs(serialized string) (kwargs map[string]interface{}, err error) {
	if serialized == "" {
		return map[string]interface{}{}, nil
	}
	err = json.Unmarshal([]byte(serialized), &kwargs)
	return kwargs, err
}

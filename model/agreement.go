package model

import (
	"strings"
	"time"
)

// AgreementRecord is one consent event of a user for an SP. Records are
// append-only; the most recent record for a (user, sp) pair is the current
// consent. SpEntityId is a snapshot of the identifier at consent time, not a
// foreign key.
type AgreementRecord struct {
	Id         int64     `json:"id"`
	User       string    `json:"user"`
	SpEntityId string    `json:"spEntityId"`
	Attrs      string    `json:"attrs"`
	Created    time.Time `json:"created,omitempty"`
}

// AgreedAttributes returns the attribute names the user consented to.
func (record AgreementRecord) AgreedAttributes() []string {
	if record.Attrs == "" {
		return []string{}
	}
	return strings.Split(record.Attrs, ",")
}

// JoinAttributes serializes an attribute set the way agreement records store
// it.
func JoinAttributes(attrs []string) string {
	return strings.Join(attrs, ",")
}

// PersistentIdentifier is the stable pseudonym representing a user towards
// one SP. Unique per (sp, identifier) and per (sp, user); immutable once
// created.
type PersistentIdentifier struct {
	Id           int64     `json:"id"`
	User         string    `json:"user"`
	SpEntityId   string    `json:"spEntityId"`
	PersistentId string    `json:"persistentId"`
	Created      time.Time `json:"created,omitempty"`
}

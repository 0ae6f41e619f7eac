package consent

import (
	"net/http"
	"time"

	"github.com/uniauth/saml-idp-core/model"
)

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (c RealClock) Now() time.Time {
	return time.Now()
}

// Expired reports whether a recorded agreement is stale. A validity of zero
// or less means agreements never expire.
func Expired(record model.AgreementRecord, validityHours int, now time.Time) bool {
	if validityHours <= 0 {
		return false
	}
	return now.After(record.Created.Add(time.Duration(validityHours) * time.Hour))
}

// NeedsMoreConsent reports whether the requested attribute set exceeds what
// the user already agreed to.
func NeedsMoreConsent(record model.AgreementRecord, requestedAttrs []string) bool {
	agreed := map[string]bool{}
	for _, attr := range record.AgreedAttributes() {
		agreed[attr] = true
	}
	for _, attr := range requestedAttrs {
		if !agreed[attr] {
			return true
		}
	}
	return false
}

// Tracker decides whether a user has to see the consent screen again for an
// attribute release and appends the new agreement when they accept.
type Tracker struct {
	agreementRepo AgreementRepository
	validityHours int
	clock         Clock
}

func NewTracker(agreementRepo AgreementRepository, validityHours int, clock Clock) *Tracker {
	return &Tracker{agreementRepo: agreementRepo, validityHours: validityHours, clock: clock}
}

// NeedsAgreement is true unless a fresh agreement covering the full
// requested attribute set exists for the (user, sp) pair.
func (tracker *Tracker) NeedsAgreement(user string, spEntityId string, requestedAttrs []string) (bool, model.HttpError) {
	record, httpErr := tracker.agreementRepo.LatestAgreement(user, spEntityId)
	if httpErr.Status == http.StatusNotFound {
		return true, model.HttpError{}
	}
	if httpErr != (model.HttpError{}) {
		return true, httpErr
	}
	if Expired(record, tracker.validityHours, tracker.clock.Now()) {
		return true, model.HttpError{}
	}
	return NeedsMoreConsent(record, requestedAttrs), model.HttpError{}
}

// RecordAgreement appends the consent event of a user for an SP. Existing
// records are never touched.
func (tracker *Tracker) RecordAgreement(user string, spEntityId string, attrs []string) (model.AgreementRecord, model.HttpError) {
	record := model.AgreementRecord{
		User:       user,
		SpEntityId: spEntityId,
		Attrs:      model.JoinAttributes(attrs),
		Created:    tracker.clock.Now(),
	}
	return tracker.agreementRepo.CreateAgreement(record)
}

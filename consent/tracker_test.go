package consent

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/uniauth/saml-idp-core/logging"
	"github.com/uniauth/saml-idp-core/model"
)

type fixedClock struct {
	now time.Time
}

func (clock fixedClock) Now() time.Time {
	return clock.now
}

func getRecord(user string, spEntityId string, attrs string, created time.Time) model.AgreementRecord {
	return model.AgreementRecord{User: user, SpEntityId: spEntityId, Attrs: attrs, Created: created}
}

type expiryTest struct {
	testName      string
	validityHours int
	recordAge     time.Duration
	expectExpired bool
}

func getExpiryTests() []expiryTest {
	return []expiryTest{
		{"An agreement never expires when no validity is configured.", 0, 10000 * time.Hour, false},
		{"An agreement never expires on a negative validity.", -1, 10000 * time.Hour, false},
		{"An agreement younger than the validity is not expired.", 24, 1 * time.Hour, false},
		{"An agreement older than the validity is expired.", 24, 25 * time.Hour, true},
		{"An agreement exactly at the validity bound is not expired.", 24, 24 * time.Hour, false},
	}
}

func TestExpired(t *testing.T) {
	logging.Log().SetLevel(log.DebugLevel)

	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	for _, tc := range getExpiryTests() {
		t.Run(tc.testName, func(t *testing.T) {
			log.Infof("TestExpired +++++++++++++++++ Running test: %s", tc.testName)
			record := getRecord("user", "https://sp.example.org/saml", "email", now.Add(-tc.recordAge))
			expired := Expired(record, tc.validityHours, now)
			if expired != tc.expectExpired {
				t.Errorf("%s: Expected expired to be %v, but was %v.", tc.testName, tc.expectExpired, expired)
			}
		})
	}
}

type consentTest struct {
	testName       string
	agreedAttrs    string
	requestedAttrs []string
	expectMore     bool
}

func getConsentTests() []consentTest {
	return []consentTest{
		{"No more consent is needed when the request matches the agreement.", "email,first_name", []string{"email", "first_name"}, false},
		{"No more consent is needed for a subset of the agreement.", "email,first_name", []string{"email"}, false},
		{"More consent is needed when an attribute was never agreed.", "email", []string{"email", "first_name"}, true},
		{"More consent is needed when nothing was agreed.", "", []string{"email"}, true},
		{"No more consent is needed when nothing is requested.", "email", []string{}, false},
	}
}

func TestNeedsMoreConsent(t *testing.T) {
	logging.Log().SetLevel(log.DebugLevel)

	for _, tc := range getConsentTests() {
		t.Run(tc.testName, func(t *testing.T) {
			log.Infof("TestNeedsMoreConsent +++++++++++++++++ Running test: %s", tc.testName)
			record := getRecord("user", "https://sp.example.org/saml", tc.agreedAttrs, time.Now())
			more := NeedsMoreConsent(record, tc.requestedAttrs)
			if more != tc.expectMore {
				t.Errorf("%s: Expected needs-more-consent to be %v, but was %v.", tc.testName, tc.expectMore, more)
			}
		})
	}
}

type agreementTest struct {
	testName       string
	dbRecords      []model.AgreementRecord
	validityHours  int
	user           string
	spEntityId     string
	requestedAttrs []string
	expectNeeded   bool
}

func getAgreementTests(now time.Time) []agreementTest {
	sp := "https://sp.example.org/saml"
	return []agreementTest{
		{"An agreement is needed when none was ever recorded.", []model.AgreementRecord{}, 24, "user", sp, []string{"email"}, true},
		{"No agreement is needed when a fresh one covers the request.", []model.AgreementRecord{getRecord("user", sp, "email,first_name", now.Add(-time.Hour))}, 24, "user", sp, []string{"email"}, false},
		{"An agreement is needed when the latest one expired.", []model.AgreementRecord{getRecord("user", sp, "email", now.Add(-25 * time.Hour))}, 24, "user", sp, []string{"email"}, true},
		{"An agreement is needed when the request exceeds the agreed set.", []model.AgreementRecord{getRecord("user", sp, "email", now.Add(-time.Hour))}, 24, "user", sp, []string{"email", "first_name"}, true},
		{"Agreements of other users do not count.", []model.AgreementRecord{getRecord("anotherUser", sp, "email", now.Add(-time.Hour))}, 24, "user", sp, []string{"email"}, true},
		{"Agreements towards other sps do not count.", []model.AgreementRecord{getRecord("user", "https://other.example.org/saml", "email", now.Add(-time.Hour))}, 24, "user", sp, []string{"email"}, true},
		{"Only the latest agreement decides.", []model.AgreementRecord{getRecord("user", sp, "email,first_name", now.Add(-48 * time.Hour)), getRecord("user", sp, "email", now.Add(-time.Hour))}, 0, "user", sp, []string{"first_name"}, true},
		{"A stale agreement still counts when no validity is configured.", []model.AgreementRecord{getRecord("user", sp, "email", now.Add(-10000 * time.Hour))}, 0, "user", sp, []string{"email"}, false},
	}
}

func TestNeedsAgreement(t *testing.T) {
	logging.Log().SetLevel(log.DebugLevel)

	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	for _, tc := range getAgreementTests(now) {
		t.Run(tc.testName, func(t *testing.T) {
			log.Infof("TestNeedsAgreement +++++++++++++++++ Running test: %s", tc.testName)
			repo := NewInmemoryRepo()
			for _, record := range tc.dbRecords {
				repo.CreateAgreement(record)
			}
			tracker := NewTracker(repo, tc.validityHours, fixedClock{now: now})

			needed, httpErr := tracker.NeedsAgreement(tc.user, tc.spEntityId, tc.requestedAttrs)
			if httpErr != (model.HttpError{}) {
				t.Errorf("%s: The check should not fail, but was %v.", tc.testName, httpErr)
			}
			if needed != tc.expectNeeded {
				t.Errorf("%s: Expected needs-agreement to be %v, but was %v.", tc.testName, tc.expectNeeded, needed)
			}
		})
	}
}

func TestRecordAgreement(t *testing.T) {
	logging.Log().SetLevel(log.DebugLevel)

	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	repo := NewInmemoryRepo()
	tracker := NewTracker(repo, 24, fixedClock{now: now})

	first, httpErr := tracker.RecordAgreement("user", "https://sp.example.org/saml", []string{"email"})
	if httpErr != (model.HttpError{}) {
		t.Errorf("Recording the agreement should succeed, but was %v.", httpErr)
	}
	second, httpErr := tracker.RecordAgreement("user", "https://sp.example.org/saml", []string{"email", "first_name"})
	if httpErr != (model.HttpError{}) {
		t.Errorf("Recording the second agreement should succeed, but was %v.", httpErr)
	}
	if first.Id == second.Id {
		t.Errorf("Agreements are append-only, the second record should not replace the first.")
	}

	latest, httpErr := repo.LatestAgreement("user", "https://sp.example.org/saml")
	if httpErr != (model.HttpError{}) {
		t.Errorf("The latest agreement should be readable, but was %v.", httpErr)
	}
	if latest.Attrs != "email,first_name" {
		t.Errorf("The latest agreement should carry the second attribute set, but was %s.", latest.Attrs)
	}

	needed, _ := tracker.NeedsAgreement("user", "https://sp.example.org/saml", []string{"email", "first_name"})
	if needed {
		t.Errorf("No agreement should be needed after it was just recorded.")
	}
}

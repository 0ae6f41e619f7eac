package metadata

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	log "github.com/sirupsen/logrus"

	"github.com/uniauth/saml-idp-core/logging"
	"github.com/uniauth/saml-idp-core/model"
)

func getSource(kind string, url string, file string, kwargs string, isValid bool, isActive bool) model.MetadataSource {
	return model.MetadataSource{Name: "test-source", Kind: kind, Url: url, File: file, Kwargs: kwargs, IsValid: isValid, IsActive: isActive}
}

type snapshotTest struct {
	testName         string
	dbSources        []model.MetadataSource
	fileStore        FileStore
	expectedSnapshot map[string][]interface{}
}

func getSnapshotTests() []snapshotTest {
	diskStore := DiskFileStore{BaseDir: "/var/lib/idp/media"}
	objectStore := ObjectFileStore{BaseUrl: "https://files.example.org/media"}

	return []snapshotTest{
		{"A remote source is served as a url mapping.",
			[]model.MetadataSource{getSource(model.SourceKindRemote, "https://fed.example.org/metadata.xml", "", "", true, true)},
			diskStore,
			map[string][]interface{}{"remote": {map[string]interface{}{"url": "https://fed.example.org/metadata.xml"}}}},
		{"A remote source carries its verification cert and kwargs.",
			[]model.MetadataSource{getSource(model.SourceKindRemote, "https://fed.example.org/metadata.xml", "fed.crt", "{\"disable_ssl_certificate_validation\":true}", true, true)},
			diskStore,
			map[string][]interface{}{"remote": {map[string]interface{}{"url": "https://fed.example.org/metadata.xml", "cert": "/var/lib/idp/media/fed.crt", "disable_ssl_certificate_validation": true}}}},
		{"An mdq source is served below remote.",
			[]model.MetadataSource{getSource(model.SourceKindMdq, "https://mdq.example.org", "", "", true, true)},
			diskStore,
			map[string][]interface{}{"remote": {map[string]interface{}{"url": "https://mdq.example.org"}}}},
		{"A local source with an attached file resolves to its path.",
			[]model.MetadataSource{getSource(model.SourceKindLocal, "", "sp-metadata.xml", "", true, true)},
			diskStore,
			map[string][]interface{}{"local": {"/var/lib/idp/media/sp-metadata.xml"}}},
		{"A local directory source resolves to the directory.",
			[]model.MetadataSource{getSource(model.SourceKindLocal, "/etc/idp/metadata", "", "", true, true)},
			diskStore,
			map[string][]interface{}{"local": {"/etc/idp/metadata"}}},
		{"A local file from the object store is served below remote.",
			[]model.MetadataSource{getSource(model.SourceKindLocal, "", "sp-metadata.xml", "", true, true)},
			objectStore,
			map[string][]interface{}{"remote": {map[string]interface{}{"url": "https://files.example.org/media/sp-metadata.xml"}}}},
		{"An inactive source is not part of the snapshot.",
			[]model.MetadataSource{getSource(model.SourceKindRemote, "https://fed.example.org/metadata.xml", "", "", true, false)},
			diskStore,
			map[string][]interface{}{}},
		{"An invalid source is not part of the snapshot, also when still flagged active.",
			[]model.MetadataSource{getSource(model.SourceKindRemote, "https://fed.example.org/metadata.xml", "", "", false, true)},
			diskStore,
			map[string][]interface{}{}},
		{"A source with broken kwargs only excludes itself.",
			[]model.MetadataSource{
				getSource(model.SourceKindRemote, "https://broken.example.org/metadata.xml", "", "no-json", true, true),
				getSource(model.SourceKindRemote, "https://fed.example.org/metadata.xml", "", "", true, true)},
			diskStore,
			map[string][]interface{}{"remote": {map[string]interface{}{"url": "https://fed.example.org/metadata.xml"}}}},
	}
}

func TestActiveSources(t *testing.T) {
	logging.Log().SetLevel(log.DebugLevel)

	for _, tc := range getSnapshotTests() {
		t.Run(tc.testName, func(t *testing.T) {
			log.Infof("TestActiveSources +++++++++++++++++ Running test: %s", tc.testName)
			repo := NewInmemoryRepo()
			for _, source := range tc.dbSources {
				repo.CreateSource(source)
			}
			aggregator := NewAggregator(repo, tc.fileStore)

			snapshot, httpErr := aggregator.ActiveSources()
			if httpErr != (model.HttpError{}) {
				t.Errorf("%s: Building the snapshot should not fail, but was %v.", tc.testName, httpErr)
			}
			if !cmp.Equal(tc.expectedSnapshot, snapshot) {
				t.Errorf("%s: The snapshot differs: %s", tc.testName, cmp.Diff(tc.expectedSnapshot, snapshot))
			}
		})
	}
}

package metadata

import (
	"bytes"
	"encoding/xml"
	"io"
)

// CheckXMLDocument decodes the whole document to confirm it is well-formed
// XML. The stdlib decoder never resolves external entities, which keeps the
// check safe against XXE-style payloads in uploaded metadata.
func CheckXMLDocument(document []byte) error {
	decoder := xml.NewDecoder(bytes.NewReader(document))
	readAnyXML := false
	for {
		err := decoder.Decode(new(interface{}))
		if err != nil {
			if err == io.EOF {
				if !readAnyXML {
					return io.ErrUnexpectedEOF
				}
				return nil
			}
			return err
		}
		readAnyXML = true
	}
}

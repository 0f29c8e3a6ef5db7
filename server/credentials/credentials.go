// Package credentials parses uploaded service-account documents.
//
// Any well-formed JSON is accepted; the shape is only checked when the
// document is handed to the Drive authenticator. Fields used for display
// are extracted best-effort.
package credentials

import (
	"encoding/json"
	"os"

	"github.com/TebbyShelby/pricecatcher/pkg/errors"
	"github.com/tidwall/gjson"
)

// Credentials holds an uploaded service-account document. The raw bytes
// are kept verbatim so the file written for the authenticator is exactly
// what the user uploaded. parsed is nil when the document is valid JSON
// but not an object.
type Credentials struct {
	raw    []byte
	parsed map[string]interface{}
}

// Summary is the display-safe subset of a service-account document
type Summary struct {
	ClientEmail string `json:"client_email"`
	ProjectID   string `json:"project_id"`
}

// Load parses raw upload content as JSON. Any well-formed document is
// accepted, objects and non-objects alike; the Drive authenticator is
// the one to complain about shape. Malformed input returns an error and
// no credentials; the caller must leave its stored credentials unset in
// that case.
func Load(raw []byte) (*Credentials, error) {
	if len(raw) == 0 {
		return nil, errors.New(ErrEmptyUpload, "uploaded credentials file is empty", nil)
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.New(ErrInvalidJSON, "invalid credentials file", err)
	}

	parsed, _ := doc.(map[string]interface{})
	return &Credentials{raw: raw, parsed: parsed}, nil
}

// Summary extracts the fields shown in logs and the UI. Missing fields
// come back empty; a service-account document is not required to carry
// them until authentication time.
func (c *Credentials) Summary() Summary {
	return Summary{
		ClientEmail: gjson.GetBytes(c.raw, "client_email").String(),
		ProjectID:   gjson.GetBytes(c.raw, "project_id").String(),
	}
}

// Fields returns the parsed document, or nil when the document is not
// a JSON object
func (c *Credentials) Fields() map[string]interface{} {
	return c.parsed
}

// WriteFile persists the original document for the file-based Drive
// authenticator. The file carries key material, hence 0600.
func (c *Credentials) WriteFile(path string) error {
	if err := os.WriteFile(path, c.raw, 0600); err != nil {
		return errors.New(ErrWriteFailed, "failed to write credentials file", err)
	}
	return nil
}

package credentials

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/TebbyShelby/pricecatcher/pkg/errors"
)

func TestLoadValidJSON(t *testing.T) {
	raw := []byte(`{"type":"service_account","client_email":"svc@example.iam.gserviceaccount.com","project_id":"pricecatcher"}`)

	creds, err := Load(raw)
	if err != nil {
		t.Fatalf("Expected valid JSON to load, got error: %v", err)
	}

	fields := creds.Fields()
	if fields["type"] != "service_account" {
		t.Errorf("Expected parsed type 'service_account', got '%v'", fields["type"])
	}

	summary := creds.Summary()
	if summary.ClientEmail != "svc@example.iam.gserviceaccount.com" {
		t.Errorf("Unexpected client email: '%s'", summary.ClientEmail)
	}
	if summary.ProjectID != "pricecatcher" {
		t.Errorf("Unexpected project id: '%s'", summary.ProjectID)
	}
}

func TestLoadArbitraryJSON(t *testing.T) {
	// No shape validation: any parseable object is accepted
	creds, err := Load([]byte(`{"anything": [1, 2, {"nested": true}]}`))
	if err != nil {
		t.Fatalf("Expected arbitrary JSON object to load, got error: %v", err)
	}

	summary := creds.Summary()
	if summary.ClientEmail != "" || summary.ProjectID != "" {
		t.Errorf("Expected empty summary for document without account fields, got %+v", summary)
	}
}

func TestLoadNonObjectJSON(t *testing.T) {
	// Well-formedness is the only acceptance test: arrays and scalars
	// are stored verbatim like any other document
	docs := []string{
		`[1, 2, 3]`,
		`"just a string"`,
		`42`,
		`true`,
		`null`,
	}

	for _, doc := range docs {
		creds, err := Load([]byte(doc))
		if err != nil {
			t.Errorf("Expected %s to load, got error: %v", doc, err)
			continue
		}
		if creds.Fields() != nil {
			t.Errorf("Expected nil fields for non-object document %s, got %v", doc, creds.Fields())
		}
		summary := creds.Summary()
		if summary.ClientEmail != "" || summary.ProjectID != "" {
			t.Errorf("Expected empty summary for %s, got %+v", doc, summary)
		}
	}
}

func TestLoadNonObjectRoundTrips(t *testing.T) {
	raw := []byte(`["not", "an", "object"]`)
	creds, err := Load(raw)
	if err != nil {
		t.Fatalf("Failed to load array document: %v", err)
	}

	path := filepath.Join(t.TempDir(), "creds.json")
	if err := creds.WriteFile(path); err != nil {
		t.Fatalf("Failed to write credentials file: %v", err)
	}

	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read back credentials file: %v", err)
	}
	if string(written) != string(raw) {
		t.Errorf("Expected verbatim document, got '%s'", written)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	creds, err := Load([]byte(`{"broken":`))
	if err == nil {
		t.Fatal("Expected malformed JSON to be rejected")
	}
	if creds != nil {
		t.Error("Expected no credentials for malformed JSON")
	}
	if !errors.HasCode(err, ErrInvalidJSON) {
		t.Errorf("Expected code %s, got %s", ErrInvalidJSON, errors.GetCode(err))
	}
}

func TestLoadEmpty(t *testing.T) {
	if _, err := Load(nil); !errors.HasCode(err, ErrEmptyUpload) {
		t.Errorf("Expected code %s for empty upload, got %v", ErrEmptyUpload, err)
	}
}

func TestWriteFile(t *testing.T) {
	raw := []byte(`{"client_email": "svc@example.com"}`)
	creds, err := Load(raw)
	if err != nil {
		t.Fatalf("Failed to load credentials: %v", err)
	}

	path := filepath.Join(t.TempDir(), "creds.json")
	if err := creds.WriteFile(path); err != nil {
		t.Fatalf("Failed to write credentials file: %v", err)
	}

	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read back credentials file: %v", err)
	}

	// The document must round-trip byte for byte
	if string(written) != string(raw) {
		t.Errorf("Expected verbatim document, got '%s'", written)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat credentials file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %v", info.Mode().Perm())
	}
}

package filestore

import (
	"errors"
	"strings"
)

// Credentials configure access to the Drive folder documents are stored in.
type Credentials struct {
	ClientID        string
	APIKey          string
	FolderID        string
	CredentialsFile string // service-account JSON; preferred over APIKey
}

// Values shipped in example configs. A credential equal to one of these has
// not been filled in.
var placeholders = map[string]bool{
	"YOUR_GOOGLE_CLIENT_ID": true,
	"YOUR_GOOGLE_API_KEY":   true,
	"YOUR_DRIVE_FOLDER_ID":  true,
	"SEU_CLIENT_ID_AQUI":    true,
	"SUA_API_KEY_AQUI":      true,
	"ID_DA_PASTA_AQUI":      true,
}

// IsPlaceholder reports whether v is empty or an example placeholder.
func IsPlaceholder(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || placeholders[v]
}

// NotConfiguredError lists the credentials that still hold placeholders.
type NotConfiguredError struct {
	Fields []string
}

func (e *NotConfiguredError) Error() string {
	return "drive credentials not configured: " + strings.Join(e.Fields, ", ")
}

// ErrNotConfigured matches any *NotConfiguredError with errors.Is.
var ErrNotConfigured = errors.New("drive credentials not configured")

func (e *NotConfiguredError) Is(target error) bool { return target == ErrNotConfigured }

// Check verifies that every credential has been filled in. A service-account
// file stands in for the client id and API key.
func (c Credentials) Check() error {
	var missing []string
	if c.CredentialsFile == "" {
		if IsPlaceholder(c.ClientID) {
			missing = append(missing, "client_id")
		}
		if IsPlaceholder(c.APIKey) {
			missing = append(missing, "api_key")
		}
	}
	if IsPlaceholder(c.FolderID) {
		missing = append(missing, "folder_id")
	}
	if len(missing) > 0 {
		return &NotConfiguredError{Fields: missing}
	}
	return nil
}

// Placeholders returns the recognised placeholder strings, sorted.
func Placeholders() []string {
	return []string{
		"ID_DA_PASTA_AQUI",
		"SEU_CLIENT_ID_AQUI",
		"SUA_API_KEY_AQUI",
		"YOUR_DRIVE_FOLDER_ID",
		"YOUR_GOOGLE_API_KEY",
		"YOUR_GOOGLE_CLIENT_ID",
	}
}

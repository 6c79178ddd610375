package filestore

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxUploadBytes is the largest document accepted.
const MaxUploadBytes = 25 << 20

// AcceptedTypes maps accepted file extensions to their MIME types.
var AcceptedTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrTooLarge        = fmt.Errorf("file is larger than %d MB", MaxUploadBytes>>20)
	ErrUnsupportedType = errors.New("only PDF, Word and Excel files are accepted")
)

// CheckUpload validates an upload and returns the MIME type to store it with.
// The extension decides the type; a declared type that disagrees with the
// extension is rejected.
func CheckUpload(name string, size int64, declared string) (string, error) {
	if size <= 0 {
		return "", ErrEmptyFile
	}
	if size > MaxUploadBytes {
		return "", ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(name))
	want, ok := AcceptedTypes[ext]
	if !ok {
		return "", ErrUnsupportedType
	}

	if declared != "" && declared != "application/octet-stream" {
		mt, _, err := mime.ParseMediaType(declared)
		if err != nil || mt != want {
			return "", ErrUnsupportedType
		}
	}
	return want, nil
}

// StoredName builds the Drive file name for an upload: the owner prefix keeps
// a group's documents findable, the uuid keeps names unique.
func StoredName(ownerPrefix, original string) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	base = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\'', '"', 0:
			return '_'
		}
		return r
	}, base)
	if base == "" || base == "." {
		base = "document"
	}
	return ownerPrefix + "_" + uuid.NewString() + "_" + base
}

// Package filestore stores uploaded documents in a Google Drive folder.
package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// FolderMimeType is the MIME type Drive reports for folders.
const FolderMimeType = "application/vnd.google-apps.folder"

// FileRef identifies a stored file.
type FileRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FileMeta is what GetFile reports about a file or folder.
type FileMeta struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MimeType      string `json:"mime_type"`
	CanUploadFile bool   `json:"can_upload_file"`
}

// Files is the file-storage gateway.
type Files interface {
	ListFiles(ctx context.Context, pageSize int64) ([]FileRef, error)
	ListFolder(ctx context.Context, nameContains string, pageSize int64) ([]FileRef, error)
	GetFile(ctx context.Context, fileID string) (FileMeta, error)
	Upload(ctx context.Context, name, mimeType string, r io.Reader) (FileRef, error)
	FolderID() string
}

// Drive implements Files on the Drive v3 API.
type Drive struct {
	svc      *drive.Service
	folderID string
	log      *zap.Logger
}

// NewDrive builds a Drive client from creds. A service-account file is used
// when given; otherwise the API key is used, which only allows reads of
// publicly shared folders.
func NewDrive(ctx context.Context, creds Credentials, logger *zap.Logger) (*Drive, error) {
	if err := creds.Check(); err != nil {
		return nil, err
	}

	var opts []option.ClientOption
	if creds.CredentialsFile != "" {
		data, err := os.ReadFile(creds.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read drive credentials: %w", err)
		}
		gc, err := google.CredentialsFromJSON(ctx, data, drive.DriveScope)
		if err != nil {
			return nil, fmt.Errorf("parse drive credentials: %w", err)
		}
		opts = append(opts, option.WithTokenSource(gc.TokenSource))
	} else {
		opts = append(opts, option.WithAPIKey(creds.APIKey))
	}

	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	logger.Info("drive client initialized",
		zap.String("folder_id", creds.FolderID),
		zap.Bool("service_account", creds.CredentialsFile != ""))

	return &Drive{svc: svc, folderID: creds.FolderID, log: logger}, nil
}

// FolderID is the folder uploads go to.
func (d *Drive) FolderID() string { return d.folderID }

func (d *Drive) ListFiles(ctx context.Context, pageSize int64) ([]FileRef, error) {
	res, err := d.svc.Files.List().
		Spaces("drive").
		PageSize(pageSize).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return refs(res.Files), nil
}

// ListFolder lists files in the upload folder whose name contains nameContains.
func (d *Drive) ListFolder(ctx context.Context, nameContains string, pageSize int64) ([]FileRef, error) {
	q := fmt.Sprintf("'%s' in parents and trashed = false", escapeQuery(d.folderID))
	if nameContains != "" {
		q += fmt.Sprintf(" and name contains '%s'", escapeQuery(nameContains))
	}
	res, err := d.svc.Files.List().
		Q(q).
		PageSize(pageSize).
		OrderBy("createdTime desc").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return refs(res.Files), nil
}

func (d *Drive) GetFile(ctx context.Context, fileID string) (FileMeta, error) {
	f, err := d.svc.Files.Get(fileID).
		SupportsAllDrives(true).
		Fields("id, name, mimeType, capabilities(canAddChildren)").
		Context(ctx).
		Do()
	if err != nil {
		return FileMeta{}, err
	}
	return metaFromFile(f), nil
}

// metaFromFile maps a Drive file to FileMeta. Drive reports the right to
// upload into a folder as canAddChildren.
func metaFromFile(f *drive.File) FileMeta {
	meta := FileMeta{ID: f.Id, Name: f.Name, MimeType: f.MimeType}
	if f.Capabilities != nil {
		meta.CanUploadFile = f.Capabilities.CanAddChildren
	}
	return meta
}

func (d *Drive) Upload(ctx context.Context, name, mimeType string, r io.Reader) (FileRef, error) {
	f, err := d.svc.Files.Create(&drive.File{
		Name:     name,
		MimeType: mimeType,
		Parents:  []string{d.folderID},
	}).
		Media(r).
		SupportsAllDrives(true).
		Fields("id, name").
		Context(ctx).
		Do()
	if err != nil {
		return FileRef{}, err
	}
	d.log.Info("document uploaded", zap.String("file_id", f.Id), zap.String("name", f.Name))
	return FileRef{ID: f.Id, Name: f.Name}, nil
}

func refs(files []*drive.File) []FileRef {
	out := make([]FileRef, 0, len(files))
	for _, f := range files {
		out = append(out, FileRef{ID: f.Id, Name: f.Name})
	}
	return out
}

// escapeQuery escapes a value for a single-quoted Drive query literal.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

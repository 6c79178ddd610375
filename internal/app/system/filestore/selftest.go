package filestore

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Step is one check of the connectivity self-test.
type Step struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// Report is the outcome of SelfTest. Steps after the first failure are not run.
type Report struct {
	Steps  []Step `json:"steps"`
	Passed bool   `json:"passed"`
}

// Opener builds a Files client for creds.
type Opener func(ctx context.Context, creds Credentials) (Files, error)

// DriveOpener opens the real Drive client.
func DriveOpener(logger *zap.Logger) Opener {
	return func(ctx context.Context, creds Credentials) (Files, error) {
		return NewDrive(ctx, creds, logger)
	}
}

// SelfTest checks, in order, that credentials are filled in, that a client
// can be built, that files can be listed, that the folder id names a folder
// and that the folder accepts uploads.
func SelfTest(ctx context.Context, creds Credentials, open Opener, logger *zap.Logger) Report {
	var rep Report
	pass := func(name, detail string) {
		rep.Steps = append(rep.Steps, Step{Name: name, OK: true, Detail: detail})
		logger.Info("drive self-test step passed", zap.String("step", name))
	}
	fail := func(name string, err error) Report {
		rep.Steps = append(rep.Steps, Step{Name: name, Detail: err.Error()})
		logger.Warn("drive self-test step failed", zap.String("step", name), zap.Error(err))
		return rep
	}

	if err := creds.Check(); err != nil {
		return fail("credentials", err)
	}
	pass("credentials", "configured")

	files, err := open(ctx, creds)
	if err != nil {
		return fail("client", err)
	}
	pass("client", "drive client ready")

	if _, err := files.ListFiles(ctx, 1); err != nil {
		return fail("list", err)
	}
	pass("list", "files listed")

	meta, err := files.GetFile(ctx, creds.FolderID)
	if err != nil {
		return fail("folder", err)
	}
	if meta.MimeType != FolderMimeType {
		return fail("folder", fmt.Errorf("%s is %s, not a folder", creds.FolderID, meta.MimeType))
	}
	pass("folder", fmt.Sprintf("folder found: %q", meta.Name))

	if !meta.CanUploadFile {
		return fail("permissions", fmt.Errorf("no upload permission on %q", meta.Name))
	}
	pass("permissions", "upload allowed")

	rep.Passed = true
	return rep
}

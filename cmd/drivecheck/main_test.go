package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/caiosarava/cadastramento/internal/app/system/filestore"
	"go.uber.org/zap"
)

type fakeFiles struct {
	meta filestore.FileMeta
}

func (f *fakeFiles) ListFiles(context.Context, int64) ([]filestore.FileRef, error) {
	return []filestore.FileRef{{ID: "1", Name: "a.pdf"}}, nil
}

func (f *fakeFiles) ListFolder(context.Context, string, int64) ([]filestore.FileRef, error) {
	return nil, nil
}

func (f *fakeFiles) GetFile(context.Context, string) (filestore.FileMeta, error) {
	return f.meta, nil
}

func (f *fakeFiles) Upload(context.Context, string, string, io.Reader) (filestore.FileRef, error) {
	return filestore.FileRef{}, nil
}

func (f *fakeFiles) FolderID() string { return f.meta.ID }

func openerFor(files filestore.Files) func(*zap.Logger) filestore.Opener {
	return func(*zap.Logger) filestore.Opener {
		return func(context.Context, filestore.Credentials) (filestore.Files, error) {
			return files, nil
		}
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{envClientID, envAPIKey, envFolderID, envCredentialsFile} {
		t.Setenv(k, "")
	}
}

func execute(t *testing.T, opener func(*zap.Logger) filestore.Opener, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd(opener)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

var goodFolder = filestore.FileMeta{
	ID:            "folder-1",
	Name:          "Documentos",
	MimeType:      filestore.FolderMimeType,
	CanUploadFile: true,
}

func TestRun_Passes(t *testing.T) {
	clearEnv(t)
	out, err := execute(t, openerFor(&fakeFiles{meta: goodFolder}),
		"run", "--client-id", "cid", "--api-key", "key", "--folder-id", "folder-1")
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Drive is ready for uploads.") {
		t.Errorf("output missing success line:\n%s", out)
	}
	for _, step := range []string{"credentials", "client", "list", "folder", "permissions"} {
		if !strings.Contains(out, step) {
			t.Errorf("output missing step %q", step)
		}
	}
}

func TestRun_JSON(t *testing.T) {
	clearEnv(t)
	out, err := execute(t, openerFor(&fakeFiles{meta: goodFolder}),
		"run", "--json", "--credentials-file", "/tmp/sa.json", "--folder-id", "folder-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var rep filestore.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if !rep.Passed || len(rep.Steps) != 5 {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestRun_FailsOnPlaceholders(t *testing.T) {
	clearEnv(t)
	out, err := execute(t, openerFor(&fakeFiles{meta: goodFolder}),
		"run", "--client-id", "SEU_CLIENT_ID_AQUI", "--api-key", "key", "--folder-id", "folder-1")
	if !errors.Is(err, errFailed) {
		t.Fatalf("err = %v, want errFailed", err)
	}
	if !strings.Contains(out, "FAIL") || !strings.Contains(out, "client_id") {
		t.Errorf("output should name the failing credential:\n%s", out)
	}
}

func TestRun_FailsWithoutUploadPermission(t *testing.T) {
	clearEnv(t)
	meta := goodFolder
	meta.CanUploadFile = false
	_, err := execute(t, openerFor(&fakeFiles{meta: meta}),
		"run", "--client-id", "cid", "--api-key", "key", "--folder-id", "folder-1")
	if !errors.Is(err, errFailed) {
		t.Fatalf("err = %v, want errFailed", err)
	}
}

func TestRun_ReadsEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(envClientID, "cid")
	t.Setenv(envAPIKey, "key")
	t.Setenv(envFolderID, "folder-1")

	var got filestore.Credentials
	opener := func(*zap.Logger) filestore.Opener {
		return func(_ context.Context, c filestore.Credentials) (filestore.Files, error) {
			got = c
			return &fakeFiles{meta: goodFolder}, nil
		}
	}
	if _, err := execute(t, opener, "run", "--api-key", "flag-key"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ClientID != "cid" || got.FolderID != "folder-1" {
		t.Errorf("env not applied: %+v", got)
	}
	if got.APIKey != "flag-key" {
		t.Errorf("APIKey = %q, want the flag value", got.APIKey)
	}
}

func TestPlaceholders(t *testing.T) {
	out, err := execute(t, openerFor(nil), "placeholders")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(filestore.Placeholders()) {
		t.Fatalf("got %d lines, want %d", len(lines), len(filestore.Placeholders()))
	}
}

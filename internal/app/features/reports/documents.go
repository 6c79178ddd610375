// internal/app/features/reports/documents.go
package reports

import (
	"context"
	"errors"
	"net/http"

	"github.com/caiosarava/cadastramento/internal/app/features/shared/stageguard"
	"github.com/caiosarava/cadastramento/internal/app/registration"
	"github.com/caiosarava/cadastramento/internal/app/system/filestore"
	"github.com/caiosarava/cadastramento/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// multipart overhead allowed on top of the file itself
const formSlack = 1 << 20

// Upload outcomes, used as the metric label.
const (
	uploadOK       = "ok"
	uploadRejected = "rejected"
	uploadFailed   = "failed"
	uploadDisabled = "disabled"
)

// HandleUpload stores one document for the group in the Drive folder.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	dec, _, ok := stageguard.Guard(w, r, h.Flow, h.SessionMgr, h.ErrLog, registration.StageView)
	if !ok {
		return
	}
	if h.Files == nil {
		h.Metrics.Uploads.WithLabelValues(uploadDisabled).Inc()
		h.renderView(w, r, dec.Outcome, "Document storage is not configured.", "")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, filestore.MaxUploadBytes+formSlack)
	if err := r.ParseMultipartForm(filestore.MaxUploadBytes); err != nil {
		h.Metrics.Uploads.WithLabelValues(uploadRejected).Inc()
		var tooBig *http.MaxBytesError
		msg := "Could not read the uploaded file."
		if errors.As(err, &tooBig) {
			msg = filestore.ErrTooLarge.Error() + "."
		}
		h.renderView(w, r, dec.Outcome, msg, "")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, hdr, err := r.FormFile("document")
	if err != nil {
		h.Metrics.Uploads.WithLabelValues(uploadRejected).Inc()
		h.renderView(w, r, dec.Outcome, "Choose a file to upload.", "")
		return
	}
	defer file.Close()

	mimeType, err := filestore.CheckUpload(hdr.Filename, hdr.Size, hdr.Header.Get("Content-Type"))
	if err != nil {
		h.Metrics.Uploads.WithLabelValues(uploadRejected).Inc()
		h.renderView(w, r, dec.Outcome, capitalize(err.Error())+".", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	name := filestore.StoredName(dec.Group.ID.Hex(), hdr.Filename)
	ref, err := h.Files.Upload(ctx, name, mimeType, file)
	if err != nil {
		h.Metrics.Uploads.WithLabelValues(uploadFailed).Inc()
		h.Log.Error("document upload failed", zap.String("name", name), zap.Error(err))
		h.renderView(w, r, dec.Outcome, "The document could not be stored. Please try again.", "")
		return
	}

	h.Metrics.Uploads.WithLabelValues(uploadOK).Inc()
	h.Log.Info("document uploaded",
		zap.String("group_id", dec.Group.ID.Hex()),
		zap.String("file_id", ref.ID),
		zap.Int64("bytes", hdr.Size))
	http.Redirect(w, r, "/view?uploaded=1", http.StatusSeeOther)
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

package server

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"snookerviz/internal/workbook"
)

const uploadField = "file"

// uploadHandler reads a workbook from the multipart field "file" and makes it
// the dataset of the session. On success it redirects to the dashboard.
func (ar *Router) uploadHandler(w http.ResponseWriter, r *http.Request) {
	token := ar.token(w, r)
	r.Body = http.MaxBytesReader(w, r.Body, ar.opts.UploadLimit)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		if tooLarge(err) {
			slog.Warn("Upload too large", "limit", ar.opts.UploadLimit)
			http.Error(w, "workbook is too large", http.StatusRequestEntityTooLarge)
			return
		}
		slog.Warn("Upload without workbook", "error", err)
		http.Error(w, "a workbook must be sent in the \"file\" field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	ds, err := workbook.Load(file, name)
	if err != nil {
		if tooLarge(err) {
			http.Error(w, "workbook is too large", http.StatusRequestEntityTooLarge)
			return
		}
		slog.Warn("Unable to read workbook", "file", name, "error", err)
		http.Error(w, "unable to read workbook: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	ar.sessions.Put(token, ds, name)
	slog.Info("Workbook uploaded", "file", name, "games", len(ds.Games), "skipped", ds.Skipped)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// tooLarge reports whether err comes from the upload body limit. Some
// multipart errors flatten the cause, so the message is checked as well.
func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

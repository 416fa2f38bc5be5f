package http

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/internal/service"
	"github.com/MKhiriev/golden-glimpses/internal/utils"
	"github.com/MKhiriev/golden-glimpses/models"
)

const (
	uploadFormField = "file"

	// multipartMemory is how much of a multipart body is kept in memory
	// before spilling to temporary files.
	multipartMemory = 8 << 20

	// multipartOverhead allows for boundaries and headers on top of the
	// file itself.
	multipartOverhead = 1 << 20
)

func (h *Handler) uploadMedia(w http.ResponseWriter, r *http.Request) {
	upload, cleanup, err := h.readUpload(w, r)
	if err != nil {
		writeError(w, r, "*Handler.uploadMedia", err)
		return
	}
	defer cleanup()

	uploaded, err := h.services.MediaService.Upload(r.Context(), requesterID(r), upload)
	if err != nil {
		writeError(w, r, "*Handler.uploadMedia", err)
		return
	}

	logger.FromRequest(r).Info().
		Str("public_id", uploaded.PublicID).
		Str("type", string(uploaded.Type)).
		Msg("media uploaded")

	utils.WriteJSON(w, uploaded, http.StatusCreated)
}

// readUpload extracts the "file" part of a multipart body. The returned
// cleanup releases the part and any temporary files.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (models.Upload, func(), error) {
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return models.Upload{}, nil, fmt.Errorf("%w: %w", service.ErrUploadTooLarge, err)
		}
		return models.Upload{}, nil, fmt.Errorf("%w: %w", ErrInvalidMultipart, err)
	}

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		removeMultipart(r.MultipartForm)
		return models.Upload{}, nil, fmt.Errorf("%w: %w", ErrMissingFile, err)
	}

	cleanup := func() {
		file.Close()
		removeMultipart(r.MultipartForm)
	}

	return models.Upload{
		Body:        file,
		Size:        header.Size,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}, cleanup, nil
}

func removeMultipart(form *multipart.Form) {
	if form != nil {
		form.RemoveAll()
	}
}

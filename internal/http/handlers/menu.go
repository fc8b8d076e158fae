package handlers

import (
	"errors"
	"io"
	"net/http"

	"restaurant-order-services/internal/apperror"
	"restaurant-order-services/internal/menu"
	"restaurant-order-services/pkg/response"
)

const photoField = "photo"

func (h *Handler) MenuList(w http.ResponseWriter, r *http.Request) {
	available, err := parseQueryBool(r.URL.Query().Get("available"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, string(apperror.KindValidation), "available must be true or false")
		return
	}
	items, err := h.Menu.List(r.Context(), available)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, items)
}

func (h *Handler) MenuGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	item, err := h.Menu.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, item)
}

func (h *Handler) MenuCreate(w http.ResponseWriter, r *http.Request) {
	var body menu.ItemInput
	if !decodeJSON(w, r, &body) {
		return
	}
	item, err := h.Menu.Create(r.Context(), body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Created(w, item)
}

func (h *Handler) MenuUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body menu.ItemInput
	if !decodeJSON(w, r, &body) {
		return
	}
	item, err := h.Menu.Update(r.Context(), id, body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, item)
}

func (h *Handler) MenuDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Menu.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, map[string]any{"deleted": true})
}

// MenuUploadPhoto accepts a multipart "photo" field no larger than
// MAX_FILE_SIZE.
func (h *Handler) MenuUploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	maxSize := h.Config.MaxFileSizeBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1024*1024)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Photo exceeds the upload limit")
			return
		}
		response.Error(w, http.StatusBadRequest, string(apperror.KindValidation), "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile(photoField)
	if err != nil {
		response.Error(w, http.StatusBadRequest, string(apperror.KindValidation), "photo file is required")
		return
	}
	defer file.Close()
	if header.Size > maxSize {
		response.Error(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Photo exceeds the upload limit")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(w, http.StatusBadRequest, string(apperror.KindValidation), "Could not read photo")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "application/octet-stream" {
		contentType = ""
	}

	item, err := h.Menu.UploadPhoto(r.Context(), id, data, contentType)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, item)
}

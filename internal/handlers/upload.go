package handlers

import (
	"net/http"
	"strings"
)

// maxUploadSize caps multipart parsing at 10MB.
const maxUploadSize = 10 << 20

// UploadImage handles POST /api/upload (admin or car_owner): a multipart
// image goes to Cloudinary and the secure URL comes back for use on a
// listing.
func UploadImage(w http.ResponseWriter, r *http.Request) {
	if cloudinarySvc == nil {
		writeError(w, http.StatusServiceUnavailable, "upload_unavailable", "File uploads are not configured")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "image file is required")
		return
	}
	defer file.Close()

	if ct := header.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		writeError(w, http.StatusBadRequest, "validation_error", "only image uploads are allowed")
		return
	}

	folder := r.FormValue("folder")
	if folder == "" {
		folder = "listings"
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	url, err := cloudinarySvc.UploadFile(ctx, file, folder)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

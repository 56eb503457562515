package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dishly/restaurant-api/internal/apperr"
)

const maxUploadSize = 5 << 20 // 5MB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.fail(w, apperr.Wrap(apperr.Validation, "file upload failed, please retry", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, apperr.New(apperr.Validation, "no file received"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageTypes[contentType] || !allowedImageExts[ext] {
		h.fail(w, apperr.New(apperr.Validation, "only jpeg, png and gif images are accepted"))
		return
	}

	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		h.fail(w, err)
		return
	}

	filename := fmt.Sprintf("%d%s", time.Now().UnixMilli(), ext)
	dst, err := os.Create(filepath.Join(h.cfg.UploadDir, filename))
	if err != nil {
		h.fail(w, err)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		h.fail(w, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"filename": filename,
		"size":     header.Size,
	}).Info("Image uploaded")

	path := "/uploads/" + filename
	h.respondWithData(w, http.StatusOK, map[string]string{
		"path": path,
		"url":  h.cfg.ServerURL + path,
	})
}

package web

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

var errNoFile = errors.New("no image selected")

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// saveUploadedImage stores the multipart file in the upload dir and returns
// its public path, e.g. "/uploads/1712345678.jpg".
func (s *Server) saveUploadedImage(c *gin.Context, field string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", errNoFile
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExts[ext] {
		return "", fmt.Errorf("unsupported image format")
	}
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(s.cfg.UploadDir, name)); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

// removeUpload deletes the file behind a public upload path. Paths outside
// /uploads are ignored.
func (s *Server) removeUpload(url string) {
	if !strings.HasPrefix(url, "/uploads/") {
		return
	}
	p := filepath.Join(s.cfg.UploadDir, path.Base(url))
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		s.log.Warn("remove upload", "path", p, "err", err)
	}
}

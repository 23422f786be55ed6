package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxUploadBytes = 10 << 20

var numericFields = map[string]bool{"price": true, "rating": true, "availableRooms": true, "id": true}

// Upload turns a multipart hotel form into the JSON body the hotel handlers
// expect. The "image" file part is stored in dir as image-<uuid><ext> and the
// image field becomes its public path under /uploads/. "amenities" may be a
// JSON array string or a comma separated list. Non-multipart requests pass
// through untouched.
func Upload(dir string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPut {
				next.ServeHTTP(w, r)
				return
			}
			mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if mt != "multipart/form-data" {
				next.ServeHTTP(w, r)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
			if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
				writeProblem(w, http.StatusBadRequest, "Invalid Upload", err.Error())
				return
			}
			defer func() { _ = r.MultipartForm.RemoveAll() }()

			body := formToBody(r.MultipartForm.Value)
			saved := ""
			if fhs := r.MultipartForm.File["image"]; len(fhs) > 0 {
				if dir == "" {
					writeProblem(w, http.StatusBadRequest, "Invalid Upload", "uploads are disabled")
					return
				}
				name, err := saveUpload(dir, fhs[0])
				if err != nil {
					log.Error().Err(err).Msg("store upload failed")
					writeProblem(w, http.StatusInternalServerError, "Upload Failed", "could not store image")
					return
				}
				saved = filepath.Join(dir, name)
				body["image"] = "/uploads/" + name
			}

			raw, err := json.Marshal(body)
			if err != nil {
				removeUpload(saved)
				writeProblem(w, http.StatusBadRequest, "Invalid Upload", err.Error())
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))
			r.ContentLength = int64(len(raw))
			r.Header.Set("Content-Type", "application/json")

			sw := &srw{ResponseWriter: w}
			next.ServeHTTP(sw, r)
			// A rejected hotel must not leave its image behind.
			if sw.Status() >= http.StatusBadRequest {
				removeUpload(saved)
			}
		})
	}
}

func formToBody(values map[string][]string) map[string]any {
	body := make(map[string]any, len(values))
	for k, vs := range values {
		if len(vs) == 0 {
			continue
		}
		v := vs[0]
		switch {
		case k == "amenities":
			body[k] = parseAmenities(v)
		case numericFields[k]:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				body[k] = f
			} else {
				body[k] = v
			}
		default:
			body[k] = v
		}
	}
	return body
}

func parseAmenities(v string) []string {
	var out []string
	if err := json.Unmarshal([]byte(v), &out); err == nil {
		return out
	}
	out = []string{}
	for _, p := range strings.Split(v, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func saveUpload(dir string, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filepath.Base(fh.Filename)))
	name := fmt.Sprintf("image-%s%s", uuid.NewString(), ext)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		removeUpload(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		removeUpload(dst.Name())
		return "", err
	}
	return name, nil
}

func removeUpload(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("remove orphaned upload failed")
	}
}

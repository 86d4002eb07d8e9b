package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	errTooLarge  = errors.New("upload exceeds size limit")
	errBadUpload = errors.New("bad upload")
)

// allowedContentTypes lists client-declared types accepted for a ledger.
var allowedContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"text/plain":               true,
	"application/vnd.ms-excel": true, // Excel's CSV type
}

// upload is a validated ledger body.
type upload struct {
	Name string
	Data []byte
}

// readUpload accepts either a multipart form with a "file" field or a raw
// CSV body. The body is capped at limit bytes.
func readUpload(w http.ResponseWriter, r *http.Request, limit int64) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("%w: missing or invalid Content-Type", errBadUpload)
	}

	var up *upload
	if mediaType == "multipart/form-data" {
		up, err = readMultipart(r, limit)
	} else {
		up, err = readRaw(r, mediaType)
	}
	if err != nil {
		return nil, err
	}

	if err := validateContent(up.Data); err != nil {
		return nil, err
	}
	return up, nil
}

func readMultipart(r *http.Request, limit int64) (*upload, error) {
	if err := r.ParseMultipartForm(limit); err != nil {
		return nil, classifyReadErr(err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: expected a \"file\" form field", errBadUpload)
	}
	defer func() { _ = file.Close() }()

	if ct := header.Header.Get("Content-Type"); ct != "" {
		if err := checkContentType(ct); err != nil {
			return nil, err
		}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, classifyReadErr(err)
	}
	return &upload{Name: filepath.Base(header.Filename), Data: data}, nil
}

func readRaw(r *http.Request, mediaType string) (*upload, error) {
	if err := checkContentType(mediaType); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, classifyReadErr(err)
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.csv"
	}
	return &upload{Name: filepath.Base(name), Data: data}, nil
}

func checkContentType(ct string) error {
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		mediaType = ct
	}
	if !allowedContentTypes[strings.ToLower(mediaType)] {
		return fmt.Errorf("%w: content type %q is not allowed for a CSV ledger", errBadUpload, mediaType)
	}
	return nil
}

// validateContent rejects empty and binary bodies, then checks the sniffed
// type is text.
func validateContent(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: file is empty", errBadUpload)
	}

	head := data[:min(len(data), 1024)]
	if bytes.IndexByte(head, 0) != -1 || !utf8.Valid(trimPartialRune(head)) {
		return fmt.Errorf("%w: file appears to be binary, not CSV", errBadUpload)
	}

	detected := http.DetectContentType(head)
	detected = strings.ToLower(strings.TrimSpace(strings.Split(detected, ";")[0]))
	if detected != "text/plain" && detected != "text/csv" {
		return fmt.Errorf("%w: detected content type %q is not allowed", errBadUpload, detected)
	}
	return nil
}

// trimPartialRune drops a multi-byte rune cut off by the sniff window.
func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return b
		}
		b = b[:len(b)-1]
	}
	return b
}

func classifyReadErr(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w (max %d bytes)", errTooLarge, maxErr.Limit)
	}
	return fmt.Errorf("%w: %v", errBadUpload, err)
}

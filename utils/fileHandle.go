package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

// ErrAttachmentTooLarge is returned when an upload exceeds the configured limit.
var ErrAttachmentTooLarge = errors.New("attachment too large")

// Attachment is an uploaded file inlined as a data URL.
type Attachment struct {
	FileName string
	FileType string
	FileURL  string
	FileSize int64
}

// ReadAttachment reads an uploaded file, detects its MIME type from the
// content and returns it as a base64 data URL.
func ReadAttachment(file *multipart.FileHeader, maxBytes int64) (*Attachment, error) {
	if maxBytes > 0 && file.Size > maxBytes {
		return nil, ErrAttachmentTooLarge
	}

	// Open the uploaded file
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return ReadAttachmentFrom(src, file.Filename, maxBytes)
}

// ReadAttachmentFrom is ReadAttachment for an arbitrary reader.
func ReadAttachmentFrom(r io.Reader, filename string, maxBytes int64) (*Attachment, error) {
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, ErrAttachmentTooLarge
	}

	mtype := mimetype.Detect(data)
	return &Attachment{
		FileName: cleanFilename(filename),
		FileType: mtype.String(),
		FileURL:  DataURL(mtype.String(), data),
		FileSize: int64(len(data)),
	}, nil
}

// DataURL encodes data as an RFC 2397 base64 data URL.
func DataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func cleanFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	if len(name) > 255 {
		ext := filepath.Ext(name)
		if len(ext) > 16 {
			ext = ""
		}
		cut := 255 - len(ext)
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = name[:cut] + ext
	}
	return name
}

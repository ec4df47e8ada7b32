package core

import (
	"encoding/base64"
	"errors"
	"strings"
)

const PDFMimeType = "application/pdf"

var ErrUnsupportedFileType = errors.New("only PDF files are supported")

// Attachment is the transport form of a user-supplied document: a base64
// payload plus its media type and original filename. It lives only from
// selection until the next send.
type Attachment struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64 payload, no data-URL header
	Name     string `json:"name"`
}

// EncodeAttachment validates and encodes a raw document. Anything that is not
// declared as a PDF is rejected before it enters any state.
func EncodeAttachment(name, mimeType string, raw []byte) (*Attachment, error) {
	if mimeType != PDFMimeType {
		return nil, ErrUnsupportedFileType
	}
	return &Attachment{
		MimeType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(raw),
		Name:     name,
	}, nil
}

// StripDataURL drops a "data:<mime>;base64," header if the encoder that
// produced the payload added one, keeping only the payload portion.
func StripDataURL(encoded string) string {
	if strings.HasPrefix(encoded, "data:") {
		if i := strings.Index(encoded, ","); i >= 0 {
			return encoded[i+1:]
		}
	}
	return encoded
}

func (a *Attachment) Decode() ([]byte, error) {
	return base64.StdEncoding.DecodeString(StripDataURL(a.Data))
}

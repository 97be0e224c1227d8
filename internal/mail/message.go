// Package mail provides Mailer implementations. The SMTP mailer builds a
// MIME multipart message with the decrypted file as a base64 attachment;
// the memory mailer records sends for tests.
package mail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/textproto"

	"sealpost/internal/sealpost"
)

// base64LineLength is the RFC 2045 maximum encoded line length.
const base64LineLength = 76

// BuildMIME renders a message as a MIME multipart/mixed document suitable
// for SMTP DATA.
func BuildMIME(from string, msg *sealpost.Message) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n", mw.Boundary())
	fmt.Fprintf(&buf, "\r\n")

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=utf-8")
	textPart, err := mw.CreatePart(textHeader)
	if err != nil {
		return nil, fmt.Errorf("mail: creating body part: %w", err)
	}
	if _, err := textPart.Write([]byte(msg.Body)); err != nil {
		return nil, fmt.Errorf("mail: writing body: %w", err)
	}

	if msg.Attachment != nil {
		attHeader := textproto.MIMEHeader{}
		attHeader.Set("Content-Type", "application/octet-stream")
		attHeader.Set("Content-Transfer-Encoding", "base64")
		attHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", msg.Attachment.FileName))
		attPart, err := mw.CreatePart(attHeader)
		if err != nil {
			return nil, fmt.Errorf("mail: creating attachment part: %w", err)
		}
		if err := writeBase64(attPart, msg.Attachment.Data); err != nil {
			return nil, fmt.Errorf("mail: writing attachment: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("mail: finalizing message: %w", err)
	}
	return buf.Bytes(), nil
}

// writeBase64 encodes data as base64 split into RFC 2045 length lines.
func writeBase64(w interface{ Write([]byte) (int, error) }, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 0 {
		n := base64LineLength
		if n > len(encoded) {
			n = len(encoded)
		}
		if _, err := w.Write([]byte(encoded[:n])); err != nil {
			return err
		}
		if _, err := w.Write([]byte("\r\n")); err != nil {
			return err
		}
		encoded = encoded[n:]
	}
	return nil
}

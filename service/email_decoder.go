package service

import (
	"bytes"
	"log"
	"strings"

	"github.com/jhillyerd/enmime"

	"github.com/salesops/contract-extractor/dto"
)

// DecodeMessage unwraps a raw email container into a text/HTML body pair.
// enmime handles multipart alternatives, base64 and quoted-printable
// transfer encodings, and charset conversion. Malformed input never
// returns an error: downstream stages treat "no table found" as a normal,
// reportable outcome, so a broken container decodes to an empty body pair
// a human can still inspect.
func DecodeMessage(raw []byte) *dto.DecodedMessage {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		log.Printf("Envelope parse failed, treating input as bare body: %v", err)
		return decodeBare(raw)
	}

	msg := &dto.DecodedMessage{
		Text: env.Text,
		HTML: env.HTML,
	}

	for _, part := range env.Attachments {
		msg.Attachments = append(msg.Attachments, dto.DecodedAttachment{
			Filename:    part.FileName,
			ContentType: part.ContentType,
			Data:        part.Content,
		})
	}

	// Some senders stuff the whole contract into a text part that is
	// actually markup.
	if msg.HTML == "" && looksLikeHTML(msg.Text) {
		msg.HTML = msg.Text
	}

	return msg
}

// decodeBare handles input that is not a MIME container at all: a saved
// HTML page or a plain-text dump.
func decodeBare(raw []byte) *dto.DecodedMessage {
	body := string(raw)
	if looksLikeHTML(body) {
		return &dto.DecodedMessage{HTML: body, Text: body}
	}
	return &dto.DecodedMessage{Text: body, HTML: ""}
}

func looksLikeHTML(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "<html") ||
		strings.Contains(lower, "<table") ||
		strings.Contains(lower, "<body") ||
		strings.Contains(lower, "<div")
}

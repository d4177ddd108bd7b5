package document

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText parses PDF bytes and returns their normalized plain text:
// runs of whitespace collapsed to single spaces, leading and trailing
// whitespace trimmed.
//
// Bytes that cannot be parsed as a PDF fail with ErrUnparseable. This is
// terminal for the enclosing job; there is no retry.
func ExtractText(data []byte) (text string, err error) {
	if !IsPDF(data) {
		return "", fmt.Errorf("%w: missing PDF header", ErrUnparseable)
	}

	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrUnparseable, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnparseable, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnparseable, err)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnparseable, err)
	}

	return NormalizeWhitespace(sb.String()), nil
}

// NormalizeWhitespace collapses every run of whitespace to a single space
// and trims the ends.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

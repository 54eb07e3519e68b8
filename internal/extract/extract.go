// Package extract turns uploaded file bytes into analysable text.
package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	LabelText        = "text file"
	LabelJSON        = "JSON file"
	LabelTabular     = "tabular file"
	LabelUnknown     = "unknown format, best-effort parsed"
	LabelUnsupported = "unsupported file type"
	LabelError       = "error"

	TabularPlaceholder = "tabular file content (detailed parsing not supported)"
	UnparsableMessage  = "cannot parse file"
)

// AcceptedExtensions are offered by upload widgets.
var AcceptedExtensions = []string{".txt", ".md", ".json", ".csv"}

var spreadsheetTypes = map[string]bool{
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// Payload is the extracted text plus a human readable description of the source.
type Payload struct {
	Text  string
	Label string
}

// Extract decodes data according to the declared MIME type and file name.
// It reports false when no file was supplied at all.
func Extract(data []byte, mimeType, name string) (Payload, bool) {
	if data == nil && name == "" {
		return Payload{}, false
	}
	mimeType = baseMIME(mimeType)
	ext := strings.ToLower(filepath.Ext(name))

	switch {
	case mimeType == "text/plain" || ext == ".txt":
		if !utf8.Valid(data) {
			return parseError(fmt.Errorf("invalid utf-8 byte sequence"))
		}
		return Payload{Text: string(data), Label: LabelText}, true
	case mimeType == "application/json" || ext == ".json":
		text, err := prettyJSON(data)
		if err != nil {
			return parseError(err)
		}
		return Payload{Text: text, Label: LabelJSON}, true
	case spreadsheetTypes[mimeType] || ext == ".csv":
		return Payload{Text: TabularPlaceholder, Label: LabelTabular}, true
	default:
		if bytes.IndexByte(data, 0) >= 0 {
			return Payload{Text: UnparsableMessage, Label: LabelUnsupported}, true
		}
		return Payload{Text: strings.ToValidUTF8(string(data), "�"), Label: LabelUnknown}, true
	}
}

func parseError(err error) (Payload, bool) {
	return Payload{Text: "file parse error: " + err.Error(), Label: LabelError}, true
}

// prettyJSON re-serializes a JSON document with two-space indentation.
// Key order and number literals are kept; string escapes are decoded so
// non-ASCII text reaches the prompt as written.
func prettyJSON(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("invalid utf-8 byte sequence")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var b strings.Builder
	if err := writeValue(&b, dec, 0); err != nil {
		return "", err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return "", err
	}
	return b.String(), nil
}

func writeValue(b *strings.Builder, dec *json.Decoder, depth int) error {
	tok, err := nextToken(dec)
	if err != nil {
		return err
	}
	switch v := tok.(type) {
	case json.Delim:
		return writeContainer(b, dec, v, depth)
	case string:
		return writeString(b, v)
	case json.Number:
		b.WriteString(v.String())
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case nil:
		b.WriteString("null")
	default:
		return fmt.Errorf("unexpected token %v", tok)
	}
	return nil
}

func writeContainer(b *strings.Builder, dec *json.Decoder, open json.Delim, depth int) error {
	closing := "}"
	if open == '[' {
		closing = "]"
	}
	b.WriteRune(rune(open))
	n := 0
	for dec.More() {
		if n > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
		b.WriteString(strings.Repeat("  ", depth+1))
		if open == '{' {
			tok, err := nextToken(dec)
			if err != nil {
				return err
			}
			key, ok := tok.(string)
			if !ok {
				return fmt.Errorf("unexpected object key %v", tok)
			}
			if err := writeString(b, key); err != nil {
				return err
			}
			b.WriteString(": ")
		}
		if err := writeValue(b, dec, depth+1); err != nil {
			return err
		}
		n++
	}
	if _, err := nextToken(dec); err != nil {
		return err
	}
	if n > 0 {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat("  ", depth))
	}
	b.WriteString(closing)
	return nil
}

// nextToken reports a document that ends mid-value as unexpected EOF.
func nextToken(dec *json.Decoder) (json.Token, error) {
	tok, err := dec.Token()
	if err == io.EOF {
		return nil, io.ErrUnexpectedEOF
	}
	return tok, err
}

func writeString(b *strings.Builder, s string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	b.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return nil
}

// baseMIME strips parameters such as "; charset=utf-8".
func baseMIME(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(strings.TrimSpace(s))
}

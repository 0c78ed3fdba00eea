package converter

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DetectEncoding returns the charset name of content. Valid UTF-8 is
// reported as "utf-8"; otherwise BOMs and <meta charset> are consulted,
// falling back to windows-1252.
func DetectEncoding(content []byte) string {
	if utf8.Valid(content) {
		return "utf-8"
	}
	_, name, _ := charset.DetermineEncoding(content, "")
	if name == "" {
		return "utf-8"
	}
	return name
}

// ToUTF8 decodes content to UTF-8. Content in an unknown charset is returned unchanged.
func ToUTF8(content []byte) ([]byte, error) {
	enc := DetectEncoding(content)
	if enc == "utf-8" {
		return content, nil
	}

	e, err := htmlindex.Get(enc)
	if err != nil {
		return content, nil
	}

	reader := transform.NewReader(bytes.NewReader(content), e.NewDecoder())
	return io.ReadAll(reader)
}

// Package table reads the material and recipe tables.
// Files are exported from spreadsheets, so they arrive either as UTF-8
// (often with a BOM) or in the legacy GB18030 code page.
package table

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"

	"craft-cost/internal/errors"
)

// Encoding names reported by Decode
const (
	EncodingUTF8    = "utf-8"
	EncodingUTF8BOM = "utf-8-bom"
	EncodingGB18030 = "gb18030"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts raw file bytes to UTF-8 and reports the detected
// encoding. Valid UTF-8 is taken as is after stripping a BOM; anything
// else is decoded as GB18030, a superset of GBK and GB2312.
func Decode(raw []byte) ([]byte, string, error) {
	var dec *encoding.Decoder
	name := EncodingUTF8

	switch {
	case bytes.HasPrefix(raw, utf8BOM):
		dec = unicode.UTF8BOM.NewDecoder()
		name = EncodingUTF8BOM
	case utf8.Valid(raw):
		return raw, name, nil
	default:
		dec = simplifiedchinese.GB18030.NewDecoder()
		name = EncodingGB18030
	}

	out, err := dec.Bytes(raw)
	if err != nil {
		return nil, name, errors.Parsing("cannot decode table as "+name, err)
	}
	return out, name, nil
}

// Package textenc converts between raw bytes and Unicode text for the closed
// set of encodings the file readers accept.
package textenc

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	"github.com/bamsammich/fsio/internal/fserr"
)

// Encoding is a label from the supported set.
type Encoding string

const (
	Unicode11UTF8       Encoding = "unicode-1-1-utf-8"
	UTF8                Encoding = "utf-8"
	UTF8Alias           Encoding = "utf8"
	UTF16BE             Encoding = "utf-16be"
	CSShiftJIS          Encoding = "cssshiftjis"
	MSKanji             Encoding = "ms_kanji"
	ShiftJIS            Encoding = "shift-jis"
	SJIS                Encoding = "sjis"
	Windows31J          Encoding = "windows-31j"
	XSJIS               Encoding = "x-sjis"
	CSEUCPkdFmtJapanese Encoding = "cseucpkdfmtjapanese"
	EUCJP               Encoding = "euc-jp"
	XEUCJP              Encoding = "x-euc-jp"

	Default = UTF8
)

type family int

const (
	familyUTF8 family = iota + 1
	familyUTF16BE
	familyShiftJIS
	familyEUCJP
)

// labels keeps declaration order for Labels.
var labels = []Encoding{
	Unicode11UTF8, UTF8, UTF8Alias,
	UTF16BE,
	CSShiftJIS, MSKanji, ShiftJIS, SJIS, Windows31J, XSJIS,
	CSEUCPkdFmtJapanese, EUCJP, XEUCJP,
}

var families = map[Encoding]family{
	Unicode11UTF8: familyUTF8, UTF8: familyUTF8, UTF8Alias: familyUTF8,
	UTF16BE:    familyUTF16BE,
	CSShiftJIS: familyShiftJIS, MSKanji: familyShiftJIS, ShiftJIS: familyShiftJIS,
	SJIS: familyShiftJIS, Windows31J: familyShiftJIS, XSJIS: familyShiftJIS,
	CSEUCPkdFmtJapanese: familyEUCJP, EUCJP: familyEUCJP, XEUCJP: familyEUCJP,
}

// Labels returns every accepted label.
func Labels() []Encoding {
	out := make([]Encoding, len(labels))
	copy(out, labels)
	return out
}

// Parse resolves a label case-insensitively. An empty label selects Default.
func Parse(label string) (Encoding, error) {
	l := Encoding(strings.ToLower(strings.TrimSpace(label)))
	if l == "" {
		return Default, nil
	}
	if _, ok := families[l]; !ok {
		return "", fserr.Configf("encoding", "unsupported encoding %q", label)
	}
	return l, nil
}

func (e Encoding) codec() (encoding.Encoding, family, error) {
	f, ok := families[e]
	if !ok {
		return nil, 0, fserr.Configf("encoding", "unsupported encoding %q", string(e))
	}
	switch f {
	case familyUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), f, nil
	case familyShiftJIS:
		return japanese.ShiftJIS, f, nil
	case familyEUCJP:
		return japanese.EUCJP, f, nil
	default:
		return unicode.UTF8BOM, f, nil
	}
}

// Decode converts b to a string. Malformed input is replaced with U+FFFD and
// reported as DecodeFailure alongside the best-effort text.
func Decode(b []byte, enc Encoding) (string, error) {
	codec, fam, err := enc.codec()
	if err != nil {
		return "", err
	}
	out, terr := codec.NewDecoder().Bytes(b)
	if terr != nil {
		return string(out), fserr.New(fserr.DecodeFailure, "decode", string(enc), terr)
	}
	if malformed(b, out, fam) {
		return string(out), fserr.New(fserr.DecodeFailure, "decode", string(enc), nil)
	}
	return string(out), nil
}

// Encode converts s to bytes in enc. Characters the target cannot represent
// fail with DecodeFailure.
func Encode(s string, enc Encoding) ([]byte, error) {
	codec, _, err := enc.codec()
	if err != nil {
		return nil, err
	}
	if enc.isUTF8() {
		return []byte(s), nil
	}
	out, terr := codec.NewEncoder().Bytes([]byte(s))
	if terr != nil {
		return nil, fserr.New(fserr.DecodeFailure, "encode", string(enc), terr)
	}
	return out, nil
}

func (e Encoding) isUTF8() bool { return families[e] == familyUTF8 }

func malformed(in, out []byte, fam family) bool {
	switch fam {
	case familyUTF8:
		return !utf8.Valid(in)
	case familyUTF16BE:
		return len(in)%2 != 0
	default:
		return bytes.ContainsRune(out, utf8.RuneError)
	}
}

// ToUTF8 decodes b as UTF-8.
func ToUTF8(b []byte) (string, error) { return Decode(b, UTF8) }

// ToShiftJIS decodes b as Shift-JIS.
func ToShiftJIS(b []byte) (string, error) { return Decode(b, ShiftJIS) }

// ToEUCJP decodes b as EUC-JP.
func ToEUCJP(b []byte) (string, error) { return Decode(b, EUCJP) }

package telnet

import (
	"errors"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

// ErrorPolicy is the encoder/decoder error handling policy
// ("encoding_errors"): strict, replace, or ignore.
type ErrorPolicy int

const (
	PolicyStrict ErrorPolicy = iota
	PolicyReplace
	PolicyIgnore
)

// ParseErrorPolicy resolves a config string to an ErrorPolicy.
func ParseErrorPolicy(s string) (ErrorPolicy, bool) {
	switch strings.ToLower(s) {
	case "strict", "":
		return PolicyStrict, true
	case "replace":
		return PolicyReplace, true
	case "ignore":
		return PolicyIgnore, true
	}
	return PolicyStrict, false
}

// cp037 is the EBCDIC code page offered as an alternative
// NEW-ENVIRON encoding "for EBCDIC hosts" (RFC 1572).
var cp037 = charmap.CodePage037

// Codec resolves an RFC 2066 charset name (case/hyphen-insensitive)
// to a golang.org/x/text Encoding, supporting the ASCII default and
// the cp037 EBCDIC alternative alongside whatever IANA-registered
// name golang.org/x/text/encoding knows.
type Codec struct {
	name string
	enc  encoding.Encoding // nil means plain ASCII passthrough
}

// NewCodec resolves name to a Codec. An empty or "ASCII"/"US-ASCII"
// name, or any name golang.org/x/text doesn't recognize, falls back
// to the ASCII passthrough codec: strings are default-ASCII per
// RFC 1572.
func NewCodec(name string) *Codec {
	norm := canonicalCharsetName(name)
	if norm == "" || norm == "ascii" || norm == "us-ascii" {
		return &Codec{name: "ASCII"}
	}
	if norm == "cp037" || norm == "ebcdic-cp-us" || norm == "ibm037" {
		return &Codec{name: "cp037", enc: cp037}
	}
	e, err := htmlindex.Get(name)
	if err != nil {
		e, err = htmlindex.Get(norm)
	}
	if err == nil {
		canon, _ := htmlindex.Name(e)
		return &Codec{name: canon, enc: e}
	}
	return &Codec{name: "ASCII"}
}

// Name reports the codec's canonical charset name.
func (c *Codec) Name() string {
	if c.name == "" {
		return "ASCII"
	}
	return c.name
}

// Supported reports whether NewCodec recognizes name (ASCII, cp037, or
// a name golang.org/x/text knows) rather than falling back to ASCII
// for an unrecognized name (used by ChooseCharset's supported
// predicate).
func Supported(name string) bool {
	norm := canonicalCharsetName(name)
	if norm == "ascii" || norm == "us-ascii" || norm == "cp037" || norm == "ebcdic-cp-us" || norm == "ibm037" {
		return true
	}
	if _, err := htmlindex.Get(name); err == nil {
		return true
	}
	_, err := htmlindex.Get(norm)
	return err == nil
}

var errNonASCII = errors.New("telnet: non-ASCII byte under strict policy")

// Encode transcodes UTF-8 text to the codec's byte encoding under the
// given error policy.
func (c *Codec) Encode(text string, policy ErrorPolicy) ([]byte, error) {
	if c.enc == nil {
		return encodeASCII(text, policy)
	}
	enc := c.enc.NewEncoder()
	b, err := enc.Bytes([]byte(text))
	if err != nil && policy == PolicyStrict {
		return nil, newError(ErrEncoding, "encode to "+c.Name(), err)
	}
	return b, nil
}

// Decode transcodes wire bytes in the codec's encoding to UTF-8 text
// under the given error policy.
func (c *Codec) Decode(data []byte, policy ErrorPolicy) (string, error) {
	if c.enc == nil {
		return decodeASCII(data, policy)
	}
	dec := c.enc.NewDecoder()
	b, err := dec.Bytes(data)
	if err != nil && policy == PolicyStrict {
		return "", newError(ErrEncoding, "decode from "+c.Name(), err)
	}
	return string(b), nil
}

func encodeASCII(text string, policy ErrorPolicy) ([]byte, error) {
	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		b := text[i]
		if b < 0x80 {
			out = append(out, b)
			continue
		}
		switch policy {
		case PolicyStrict:
			return nil, newError(ErrEncoding, "non-ASCII byte in strict ASCII encode", errNonASCII)
		case PolicyReplace:
			out = append(out, '?')
		case PolicyIgnore:
			// drop the byte
		}
	}
	return out, nil
}

func decodeASCII(data []byte, policy ErrorPolicy) (string, error) {
	out := make([]byte, 0, len(data))
	for _, b := range data {
		if b < 0x80 {
			out = append(out, b)
			continue
		}
		switch policy {
		case PolicyStrict:
			return "", newError(ErrEncoding, "non-ASCII byte in strict ASCII decode", errNonASCII)
		case PolicyReplace:
			out = append(out, '?')
		case PolicyIgnore:
		}
	}
	return string(out), nil
}

package telnet

import (
	"bytes"
	"strings"
)

// --- TTYPE (RFC 1091) ---

// EncodeTTYPESend builds the payload for "IAC SB TTYPE SEND IAC SE".
func EncodeTTYPESend() []byte { return []byte{TelOptSEND} }

// EncodeTTYPEIs builds the payload for "IAC SB TTYPE IS <name> IAC SE".
func EncodeTTYPEIs(name string) []byte {
	return append([]byte{TelOptIS}, []byte(name)...)
}

// DecodeTTYPE parses a TTYPE sub-negotiation payload, returning the
// command byte (IS or SEND) and, for IS, the terminal name.
func DecodeTTYPE(payload []byte) (cmd byte, name string, ok bool) {
	if len(payload) < 1 {
		return 0, "", false
	}
	return payload[0], string(payload[1:]), true
}

// defaultTTYPECycleMax bounds the repeated-SEND TTYPE cycle at 8
// rounds before giving up on a distinct value.
const defaultTTYPECycleMax = 8

// TTYPETracker drives the repeated-SEND TTYPE cycle: it re-issues
// SEND until the peer returns the same value twice in a row, or the
// cycle cap is hit, then reports the terminal identity as the last
// distinct value received.
type TTYPETracker struct {
	Max    int
	values []string
}

// NewTTYPETracker creates a tracker with the default cycle cap.
func NewTTYPETracker() *TTYPETracker {
	return &TTYPETracker{Max: defaultTTYPECycleMax}
}

// Observe records a received IS value and reports whether the cycle
// should continue (another SEND should be issued).
func (t *TTYPETracker) Observe(name string) (shouldContinue bool) {
	t.values = append(t.values, name)
	n := len(t.values)
	if n >= 2 && t.values[n-1] == t.values[n-2] {
		return false
	}
	if n >= t.Max {
		return false
	}
	return true
}

// Identity returns the terminal identity (the last distinct value
// observed), or "" if nothing has been observed yet.
func (t *TTYPETracker) Identity() string {
	if len(t.values) == 0 {
		return ""
	}
	return t.values[len(t.values)-1]
}

// Values returns the observed values in order, with consecutive
// repeats collapsed.
func (t *TTYPETracker) Values() []string {
	var out []string
	for i, v := range t.values {
		if i == 0 || v != t.values[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// --- NAWS (RFC 1073) ---

// EncodeNAWS builds the 4-byte big-endian width/height payload.
func EncodeNAWS(cols, rows uint16) []byte {
	return []byte{byte(cols >> 8), byte(cols), byte(rows >> 8), byte(rows)}
}

// DecodeNAWS parses a NAWS payload into (cols, rows).
func DecodeNAWS(payload []byte) (cols, rows uint16, ok bool) {
	if len(payload) < 4 {
		return 0, 0, false
	}
	cols = uint16(payload[0])<<8 | uint16(payload[1])
	rows = uint16(payload[2])<<8 | uint16(payload[3])
	return cols, rows, true
}

// --- NEW-ENVIRON (RFC 1572) ---

// EnvVar is one (name, value) NEW-ENVIRON entry. IsUser distinguishes
// USERVAR from VAR.
type EnvVar struct {
	Name   string
	Value  string
	IsUser bool
}

// EncodeEnvironSend builds a NEW-ENVIRON SEND request naming the
// variables to request (an empty slice requests everything).
func EncodeEnvironSend(names []string) []byte {
	buf := []byte{TelOptSEND}
	for _, n := range names {
		buf = append(buf, EnvVAR)
		buf = append(buf, escapeEnviron(n)...)
	}
	return buf
}

// EncodeEnvironIs builds a NEW-ENVIRON IS response carrying the given
// variables.
func EncodeEnvironIs(vars []EnvVar) []byte {
	buf := []byte{TelOptIS}
	for _, v := range vars {
		if v.IsUser {
			buf = append(buf, EnvUSERVAR)
		} else {
			buf = append(buf, EnvVAR)
		}
		buf = append(buf, escapeEnviron(v.Name)...)
		buf = append(buf, EnvVALUE)
		buf = append(buf, escapeEnviron(v.Value)...)
	}
	return buf
}

// escapeEnviron ESC-prefixes any VAR/VALUE/ESC/USERVAR token byte
// occurring inside a name or value.
func escapeEnviron(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch b {
		case EnvVAR, EnvVALUE, EnvESC, EnvUSERVAR:
			out = append(out, EnvESC, b)
		default:
			out = append(out, b)
		}
	}
	return out
}

// DecodeEnviron parses a NEW-ENVIRON IS/SEND payload into its command
// byte and the list of name/value (or bare name, for SEND) entries.
func DecodeEnviron(payload []byte) (cmd byte, vars []EnvVar, ok bool) {
	if len(payload) < 1 {
		return 0, nil, false
	}
	cmd = payload[0]
	body := payload[1:]

	var cur *EnvVar
	var tok []byte
	field := EnvVAR // which field `tok` is accumulating
	flush := func() {
		if cur == nil {
			return
		}
		switch field {
		case EnvVAR, EnvUSERVAR:
			cur.Name = string(tok)
		case EnvVALUE:
			cur.Value = string(tok)
		}
		tok = nil
	}

	i := 0
	for i < len(body) {
		b := body[i]
		switch b {
		case EnvVAR, EnvUSERVAR:
			flush()
			if cur != nil {
				vars = append(vars, *cur)
			}
			cur = &EnvVar{IsUser: b == EnvUSERVAR}
			field = b
			i++
		case EnvVALUE:
			flush()
			field = EnvVALUE
			i++
		case EnvESC:
			i++
			if i < len(body) {
				tok = append(tok, body[i])
				i++
			}
		default:
			tok = append(tok, b)
			i++
		}
	}
	flush()
	if cur != nil {
		vars = append(vars, *cur)
	}
	return cmd, vars, true
}

// --- CHARSET (RFC 2066) ---

// EncodeCharsetRequest builds a CHARSET REQUEST payload offering the
// given charset names, separated by sep (typically a space).
func EncodeCharsetRequest(sep byte, charsets []string) []byte {
	buf := []byte{CharsetREQUEST}
	for _, c := range charsets {
		buf = append(buf, sep)
		buf = append(buf, []byte(c)...)
	}
	return buf
}

// EncodeCharsetAccepted builds a CHARSET ACCEPTED payload.
func EncodeCharsetAccepted(chosen string) []byte {
	return append([]byte{CharsetACCEPTED}, []byte(chosen)...)
}

// EncodeCharsetRejected builds a CHARSET REJECTED payload.
func EncodeCharsetRejected() []byte { return []byte{CharsetREJECTED} }

// DecodeCharsetRequest parses a CHARSET REQUEST payload into the
// offered charset names.
func DecodeCharsetRequest(payload []byte) (charsets []string, ok bool) {
	if len(payload) < 2 || payload[0] != CharsetREQUEST {
		return nil, false
	}
	sep := payload[1]
	rest := payload[2:]
	if len(rest) == 0 {
		return nil, true
	}
	parts := bytes.Split(rest, []byte{sep})
	for _, p := range parts {
		if len(p) > 0 {
			charsets = append(charsets, string(p))
		}
	}
	return charsets, true
}

// ChooseCharset picks the first offered charset this runtime can
// decode, preferring an explicit preference if it appears in the
// offer. Canonicalization handles hyphenation/case variance, e.g.
// "ISO-8859-02" ≡ "iso-8859-2".
func ChooseCharset(offered []string, preferred string, supported func(string) bool) (string, bool) {
	normPreferred := canonicalCharsetName(preferred)
	for _, o := range offered {
		if preferred != "" && canonicalCharsetName(o) == normPreferred && supported(o) {
			return o, true
		}
	}
	for _, o := range offered {
		if supported(o) {
			return o, true
		}
	}
	return "", false
}

func canonicalCharsetName(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", "-")
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if p != "" && strings.Trim(p, "0123456789") == "" {
			if p = strings.TrimLeft(p, "0"); p == "" {
				p = "0"
			}
			parts[i] = p
		}
	}
	return strings.Join(parts, "-")
}

// --- TSPEED (RFC 1079), XDISPLOC (RFC 1096), SNDLOC (RFC 779) ---
// Simple ASCII SEND/IS string sub-negotiations.

// EncodeSimpleSend builds a bare SEND payload (TSPEED/XDISPLOC/SNDLOC).
func EncodeSimpleSend() []byte { return []byte{TelOptSEND} }

// EncodeSimpleIs builds an IS payload carrying a literal string.
func EncodeSimpleIs(value string) []byte {
	return append([]byte{TelOptIS}, []byte(value)...)
}

// DecodeSimple parses a SEND/IS payload into its command byte and
// string value (empty for SEND).
func DecodeSimple(payload []byte) (cmd byte, value string, ok bool) {
	if len(payload) < 1 {
		return 0, "", false
	}
	return payload[0], string(payload[1:]), true
}

// ParseTSpeed splits a TSPEED IS value "<rx>,<tx>" into its two
// figures; telnetlib3 and most clients encode "38400,38400".
func ParseTSpeed(value string) (rx, tx string, ok bool) {
	parts := strings.SplitN(value, ",", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// --- LFLOW (RFC 1372) ---

// DecodeLFlow parses a single-byte LFLOW sub-option.
func DecodeLFlow(payload []byte) (byte, bool) {
	if len(payload) < 1 {
		return 0, false
	}
	return payload[0], true
}

package telnet

// LINEMODE sub-functions (RFC 1184 §2).
const (
	LMMODE        byte = 1
	LMFORWARDMASK byte = 2
	LMSLC         byte = 3
)

// MODE byte bit flags (RFC 1184 §3).
const (
	ModeEDIT    byte = 1
	ModeTRAPSIG byte = 2
	ModeACK     byte = 4
	ModeSOFTTAB byte = 8
	ModeLITECHO byte = 16
)

// DefaultLinemodeMode is the MODE byte the server proposes once
// LINEMODE is negotiated: local line editing with signal trapping.
const DefaultLinemodeMode byte = ModeEDIT | ModeTRAPSIG

// Mode is the derived line-editing discipline: the engine never
// stores this — it is always computed from current option state.
type Mode int

const (
	ModeKludge Mode = iota
	ModeLocal
	ModeRemote
)

// DeriveMode computes the line mode from current negotiation state:
//   - remote: LINEMODE active and the remote side set EDIT
//   - local:  LINEMODE active and the local side set EDIT
//   - kludge: otherwise
func DeriveMode(linemodeActive bool, localModeByte, remoteModeByte byte) Mode {
	if linemodeActive {
		if remoteModeByte&ModeEDIT != 0 {
			return ModeRemote
		}
		if localModeByte&ModeEDIT != 0 {
			return ModeLocal
		}
	}
	return ModeKludge
}

// EncodeLinemodeMode builds a MODE sub-negotiation payload.
func EncodeLinemodeMode(mode byte) []byte {
	return []byte{LMMODE, mode}
}

// DecodeLinemodeMode parses a MODE sub-negotiation payload.
func DecodeLinemodeMode(payload []byte) (mode byte, ok bool) {
	if len(payload) < 2 || payload[0] != LMMODE {
		return 0, false
	}
	return payload[1], true
}

// SLCTriple is one <func><flags><value> entry of an SLC
// sub-negotiation.
type SLCTriple struct {
	Func  byte
	Flags byte
	Value byte
}

// EncodeSLCTriples builds an SLC sub-negotiation payload from a list
// of triples.
func EncodeSLCTriples(triples []SLCTriple) []byte {
	buf := []byte{LMSLC}
	for _, t := range triples {
		buf = append(buf, t.Func, t.Flags, t.Value)
	}
	return buf
}

// DecodeSLCTriples parses an SLC sub-negotiation payload into its
// triples. Malformed (non-multiple-of-3 remainder) input is truncated
// to whole triples; the trailing partial triple is dropped without
// raising a warning or an error.
func DecodeSLCTriples(payload []byte) (triples []SLCTriple, ok bool) {
	if len(payload) < 1 || payload[0] != LMSLC {
		return nil, false
	}
	body := payload[1:]
	for i := 0; i+3 <= len(body); i += 3 {
		triples = append(triples, SLCTriple{Func: body[i], Flags: body[i+1], Value: body[i+2]})
	}
	return triples, true
}

// ReconcileSLC applies one incoming SLC triple against our table,
// returning the (possibly updated) table and the reply triple to
// send, if any. A nil reply means no response is
// needed (e.g. the incoming triple is ACKed and matches our
// definition already — "we do not reply to ACKed triples that match
// our current definition", preventing loops).
func ReconcileSLC(table SLCTable, in SLCTriple) (SLCTable, *SLCTriple) {
	level := in.Flags & slcLevelBits
	cur := table[in.Func]

	if in.Flags&SLCACK != 0 {
		if cur.Mask == in.Flags&^SLCACK && cur.Value == in.Value {
			return table, nil
		}
	}

	switch level {
	case SLCNOSUPPORT:
		if cur.NoSupport() {
			return table, nil
		}
		table[in.Func] = SLCDef{Mask: SLCNOSUPPORT, Value: posixVDisable}
		return table, nil

	case SLCDEFAULT:
		reply := SLCTriple{Func: in.Func, Flags: cur.Mask | SLCACK, Value: cur.Value}
		return table, &reply

	case SLCVARIABLE:
		table[in.Func] = SLCDef{Mask: in.Flags, Value: in.Value}
		reply := SLCTriple{Func: in.Func, Flags: in.Flags | SLCACK, Value: in.Value}
		return table, &reply

	case SLCCANTCHANGE:
		table[in.Func] = SLCDef{Mask: cur.Mask, Value: in.Value}
		reply := SLCTriple{Func: in.Func, Flags: cur.Mask | SLCACK, Value: in.Value}
		return table, &reply
	}
	return table, nil
}

// EncodeForwardmaskRequest builds a "DO FORWARDMASK <value>" payload
// (the server requests the client apply a specific forward mask).
func EncodeForwardmaskRequest(fm *Forwardmask) []byte {
	return append([]byte{LMFORWARDMASK}, fm.Value...)
}

// DecodeForwardmask parses a FORWARDMASK sub-negotiation payload.
func DecodeForwardmask(payload []byte) (*Forwardmask, bool) {
	if len(payload) < 1 || payload[0] != LMFORWARDMASK {
		return nil, false
	}
	return NewForwardmask(payload[1:], false)
}

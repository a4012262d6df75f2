package telnet

// Special Line Character function codes (RFC 1184 §3, telnetlib3
// slc.py NSLC=30 constants).
const (
	SLCSYNCH byte = iota + 1
	SLCBRK
	SLCIP
	SLCAO
	SLCAYT
	SLCEOR
	SLCABORT
	SLCEOF
	SLCSUSP
	SLCEC
	SLCEL
	SLCEW
	SLCRP
	SLCLNEXT
	SLCXON
	SLCXOFF
	SLCFORW1
	SLCFORW2
	SLCMCL
	SLCMCR
	SLCMCWL
	SLCMCWR
	SLCMCBOL
	SLCMCEOL
	SLCINSRT
	SLCOVER
	SLCECR
	SLCEWR
	SLCEBOL
	SLCEEOL

	nslc = 30
)

// SLC mask level bits (low 2 bits of the mask byte) and flag bits.
const (
	SLCNOSUPPORT byte = 0
	SLCCANTCHANGE byte = 1
	SLCVARIABLE  byte = 2
	SLCDEFAULT   byte = 3
	slcLevelBits byte = 0x03

	SLCFLUSHIN  byte = 0x20
	SLCFLUSHOUT byte = 0x40
	SLCACK      byte = 0x80
)

// posixVDisable is the sentinel value meaning "this function has no
// keyboard code", matching POSIX's _POSIX_VDISABLE.
const posixVDisable byte = 0xFF

// SLCDef is one Special Line Character's negotiated definition: a
// support-level+flags mask and a keyboard value.
type SLCDef struct {
	Mask  byte
	Value byte
}

// Level returns the support level (low 2 bits of Mask).
func (d SLCDef) Level() byte { return d.Mask & slcLevelBits }

// NoSupport reports whether this slot is unsupported.
func (d SLCDef) NoSupport() bool { return d.Level() == SLCNOSUPPORT }

// Ack reports whether the ACK flag is set.
func (d SLCDef) Ack() bool { return d.Mask&SLCACK != 0 }

// FlushIn reports whether the FLUSHIN flag is set.
func (d SLCDef) FlushIn() bool { return d.Mask&SLCFLUSHIN != 0 }

// FlushOut reports whether the FLUSHOUT flag is set.
func (d SLCDef) FlushOut() bool { return d.Mask&SLCFLUSHOUT != 0 }

// SLCTable maps an SLC function byte to its definition. Function
// bytes run 1..30 (SLCSYNCH..SLCEEOL); index 0 is unused.
type SLCTable [nslc + 1]SLCDef

// variableFIO/FI/FO are the common "may be changed, flushes ..."
// masks used by the BSD default table (telnetlib3 slc.py).
const (
	slcVariableFIO = SLCVARIABLE | SLCFLUSHIN | SLCFLUSHOUT
	slcVariableFI  = SLCVARIABLE | SLCFLUSHIN
	slcVariableFO  = SLCVARIABLE | SLCFLUSHOUT
)

// DefaultSLCTable offers nearly all characters for negotiation but
// has no default values of its own, soliciting them from the peer
// (telnetlib3 slc.py DEFAULT_SLC_TAB).
func DefaultSLCTable() SLCTable {
	var t SLCTable
	t[SLCFORW1] = SLCDef{Mask: SLCNOSUPPORT, Value: posixVDisable}
	t[SLCFORW2] = SLCDef{Mask: SLCNOSUPPORT, Value: posixVDisable}
	for _, fn := range []byte{
		SLCEOF, SLCEC, SLCEL, SLCIP, SLCABORT, SLCXON, SLCXOFF,
		SLCEW, SLCRP, SLCLNEXT, SLCAO, SLCSUSP, SLCAYT, SLCBRK,
		SLCSYNCH, SLCEOR,
	} {
		t[fn] = SLCDef{Mask: SLCDEFAULT, Value: 0}
	}
	return t
}

// BSDSLCTable matches common BSD ttydefaults.h values; a peer whose
// own table already matches these warrants no reply round-trip
// (telnetlib3 slc.py BSD_SLC_TAB). The engine defaults servers to
// this table.
func BSDSLCTable() SLCTable {
	var t SLCTable
	t[SLCFORW1] = SLCDef{Mask: SLCNOSUPPORT, Value: posixVDisable}
	t[SLCFORW2] = SLCDef{Mask: SLCNOSUPPORT, Value: posixVDisable}
	t[SLCEOF] = SLCDef{Mask: SLCVARIABLE, Value: 0x04}     // ^D VEOF
	t[SLCEC] = SLCDef{Mask: SLCVARIABLE, Value: 0x7f}      // DEL VERASE
	t[SLCEL] = SLCDef{Mask: SLCVARIABLE, Value: 0x15}      // ^U VKILL
	t[SLCIP] = SLCDef{Mask: slcVariableFIO, Value: 0x03}   // ^C VINTR
	t[SLCABORT] = SLCDef{Mask: slcVariableFIO, Value: 0x1c} // ^\ VQUIT
	t[SLCXON] = SLCDef{Mask: SLCVARIABLE, Value: 0x11}     // ^Q VSTART
	t[SLCXOFF] = SLCDef{Mask: SLCVARIABLE, Value: 0x13}    // ^S VSTOP
	t[SLCEW] = SLCDef{Mask: SLCVARIABLE, Value: 0x17}      // ^W VWERASE
	t[SLCRP] = SLCDef{Mask: SLCVARIABLE, Value: 0x12}      // ^R VREPRINT
	t[SLCLNEXT] = SLCDef{Mask: SLCVARIABLE, Value: 0x16}   // ^V VLNEXT
	t[SLCAO] = SLCDef{Mask: slcVariableFO, Value: 0x0f}    // ^O VDISCARD
	t[SLCSUSP] = SLCDef{Mask: slcVariableFI, Value: 0x1a}  // ^Z VSUSP
	t[SLCAYT] = SLCDef{Mask: SLCVARIABLE, Value: 0x14}     // ^T VSTATUS
	t[SLCBRK] = SLCDef{Mask: SLCDEFAULT, Value: 0}
	t[SLCSYNCH] = SLCDef{Mask: SLCDEFAULT, Value: 0}
	t[SLCEOR] = SLCDef{Mask: SLCDEFAULT, Value: 0}
	return t
}

// kludgeSLCByValue maps an in-band control byte to the SLC function
// it triggers in kludge line mode. Bytes not present here generate no
// SLC event.
var kludgeSLCByValue = map[byte]byte{
	0x03: SLCIP,    // ^C
	0x1c: SLCABORT, // ^\
	0x1a: SLCSUSP,  // ^Z
	0x04: SLCEOF,   // ^D
	0x7f: SLCEC,    // ^? / DEL
	0x08: SLCEC,    // ^H
	0x15: SLCEL,    // ^U
	0x17: SLCEW,    // ^W
	0x12: SLCRP,    // ^R
	0x16: SLCLNEXT, // ^V
	0x0f: SLCAO,    // ^O
	0x14: SLCAYT,   // ^T
	0x13: SLCXOFF,  // ^S
	0x11: SLCXON,   // ^Q
}

// KludgeSLCFunc returns the SLC function a byte triggers in kludge
// mode, and whether one is defined.
func KludgeSLCFunc(b byte) (byte, bool) {
	fn, ok := kludgeSLCByValue[b]
	return fn, ok
}

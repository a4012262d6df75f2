package telnet

import "testing"

func TestDeriveModeKludgeWhenLinemodeInactive(t *testing.T) {
	if mode := DeriveMode(false, ModeEDIT, 0); mode != ModeKludge {
		t.Fatalf("expected kludge mode when linemode is inactive, got %v", mode)
	}
}

func TestDeriveModeRemoteWhenRemoteEdit(t *testing.T) {
	if mode := DeriveMode(true, 0, ModeEDIT); mode != ModeRemote {
		t.Fatalf("expected remote mode, got %v", mode)
	}
}

func TestDeriveModeLocalWhenOnlyLocalEdit(t *testing.T) {
	if mode := DeriveMode(true, ModeEDIT, 0); mode != ModeLocal {
		t.Fatalf("expected local mode, got %v", mode)
	}
}

func TestLinemodeModeRoundTrip(t *testing.T) {
	payload := EncodeLinemodeMode(ModeEDIT | ModeTRAPSIG)
	mode, ok := DecodeLinemodeMode(payload)
	if !ok || mode != ModeEDIT|ModeTRAPSIG {
		t.Fatalf("round trip failed: mode=0x%02x ok=%v", mode, ok)
	}
}

func TestSLCTriplesRoundTrip(t *testing.T) {
	triples := []SLCTriple{
		{Func: SLCEOF, Flags: SLCVARIABLE, Value: 0x04},
		{Func: SLCEC, Flags: SLCVARIABLE, Value: 0x7f},
	}
	payload := EncodeSLCTriples(triples)
	decoded, ok := DecodeSLCTriples(payload)
	if !ok || len(decoded) != 2 {
		t.Fatalf("decode failed: ok=%v decoded=%+v", ok, decoded)
	}
	if decoded[0] != triples[0] || decoded[1] != triples[1] {
		t.Fatalf("round trip mismatch: got %+v want %+v", decoded, triples)
	}
}

func TestDecodeSLCTriplesTruncatesPartialTrailer(t *testing.T) {
	payload := []byte{LMSLC, SLCEOF, SLCVARIABLE, 0x04, SLCEC, SLCVARIABLE} // trailing partial triple
	decoded, ok := DecodeSLCTriples(payload)
	if !ok || len(decoded) != 1 {
		t.Fatalf("expected exactly 1 whole triple, got ok=%v decoded=%+v", ok, decoded)
	}
}

func TestReconcileSLCVariableAcksAndUpdates(t *testing.T) {
	var table SLCTable
	in := SLCTriple{Func: SLCEOF, Flags: SLCVARIABLE, Value: 0x04}
	updated, reply := ReconcileSLC(table, in)
	if updated[SLCEOF].Value != 0x04 {
		t.Fatalf("expected table updated with new value, got %+v", updated[SLCEOF])
	}
	if reply == nil || reply.Flags&SLCACK == 0 {
		t.Fatalf("expected an ACKed reply, got %+v", reply)
	}
}

func TestReconcileSLCAckedMatchNoReply(t *testing.T) {
	var table SLCTable
	table[SLCEOF] = SLCDef{Mask: SLCVARIABLE, Value: 0x04}
	in := SLCTriple{Func: SLCEOF, Flags: SLCVARIABLE | SLCACK, Value: 0x04}
	_, reply := ReconcileSLC(table, in)
	if reply != nil {
		t.Fatalf("expected no reply to an ACKed triple matching our current definition, got %+v", reply)
	}
}

func TestReconcileSLCNoSupportIsSticky(t *testing.T) {
	var table SLCTable
	table[SLCFORW1] = SLCDef{Mask: SLCNOSUPPORT, Value: posixVDisable}
	in := SLCTriple{Func: SLCFORW1, Flags: SLCNOSUPPORT, Value: 0}
	updated, reply := ReconcileSLC(table, in)
	if reply != nil {
		t.Fatalf("expected no reply when both sides already agree NOSUPPORT, got %+v", reply)
	}
	if !updated[SLCFORW1].NoSupport() {
		t.Fatalf("expected NOSUPPORT to remain set")
	}
}

func TestForwardmaskRequestRoundTrip(t *testing.T) {
	fm := DefaultForwardmask16()
	payload := EncodeForwardmaskRequest(fm)
	decoded, ok := DecodeForwardmask(payload)
	if !ok {
		t.Fatalf("decode failed")
	}
	for i, b := range fm.Value {
		if decoded.Value[i] != b {
			t.Fatalf("forward mask round trip mismatch at byte %d: got %02x want %02x", i, decoded.Value[i], b)
		}
	}
}

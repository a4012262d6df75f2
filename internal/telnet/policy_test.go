package telnet

import "testing"

func TestUnknownOptionRefusedByDefault(t *testing.T) {
	p := NewPolicy()
	if p.WillAccept(OptCOM_PORT) || p.DoAccept(OptCOM_PORT) {
		t.Fatalf("expected an unconfigured option to be refused in both directions")
	}
}

func TestServerPolicyOffersExpectedOptions(t *testing.T) {
	p := ServerPolicy()
	for _, opt := range []byte{OptBINARY, OptSGA, OptECHO} {
		if !p.WillAccept(opt) {
			t.Errorf("expected server policy to accept local option %d", opt)
		}
	}
	for _, opt := range []byte{OptTTYPE, OptNAWS, OptNEW_ENVIRON, OptCHARSET, OptLINEMODE, OptTSPEED, OptXDISPLOC} {
		if !p.DoAccept(opt) {
			t.Errorf("expected server policy to accept remote option %d", opt)
		}
	}
}

func TestClientPolicyOffersExpectedOptions(t *testing.T) {
	p := ClientPolicy()
	for _, opt := range []byte{OptTTYPE, OptNAWS, OptNEW_ENVIRON, OptTSPEED, OptXDISPLOC} {
		if !p.WillAccept(opt) {
			t.Errorf("expected client policy to offer local option %d", opt)
		}
	}
	for _, opt := range []byte{OptBINARY, OptSGA, OptECHO} {
		if !p.DoAccept(opt) {
			t.Errorf("expected client policy to accept remote option %d", opt)
		}
	}
}

func TestAcceptLocalDoesNotImplyAcceptRemote(t *testing.T) {
	p := NewPolicy()
	p.AcceptLocal(OptTTYPE)
	if !p.WillAccept(OptTTYPE) {
		t.Fatalf("expected WillAccept true after AcceptLocal")
	}
	if p.DoAccept(OptTTYPE) {
		t.Fatalf("expected DoAccept false when only AcceptLocal was called")
	}
}

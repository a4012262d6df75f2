package telnet

import "testing"

func TestParseErrorPolicy(t *testing.T) {
	cases := map[string]ErrorPolicy{
		"":        PolicyStrict,
		"strict":  PolicyStrict,
		"Replace": PolicyReplace,
		"IGNORE":  PolicyIgnore,
	}
	for in, want := range cases {
		got, ok := ParseErrorPolicy(in)
		if !ok || got != want {
			t.Errorf("ParseErrorPolicy(%q) = %v, %v; want %v, true", in, got, ok, want)
		}
	}
	if _, ok := ParseErrorPolicy("bogus"); ok {
		t.Errorf("expected an unrecognized policy name to fail")
	}
}

func TestNewCodecDefaultsToASCII(t *testing.T) {
	c := NewCodec("")
	if c.Name() != "ASCII" {
		t.Fatalf("expected ASCII default, got %q", c.Name())
	}
}

func TestASCIICodecStrictRejectsHighBytes(t *testing.T) {
	c := NewCodec("ASCII")
	if _, err := c.Decode([]byte{0xC3, 0xA9}, PolicyStrict); err == nil {
		t.Fatalf("expected strict ASCII decode to reject a non-ASCII byte")
	}
}

func TestASCIICodecReplacePolicy(t *testing.T) {
	c := NewCodec("ASCII")
	out, err := c.Decode([]byte{'a', 0xFF, 'b'}, PolicyReplace)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "a?b" {
		t.Fatalf("expected replacement character, got %q", out)
	}
}

func TestASCIICodecIgnorePolicy(t *testing.T) {
	c := NewCodec("ASCII")
	out, err := c.Decode([]byte{'a', 0xFF, 'b'}, PolicyIgnore)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ab" {
		t.Fatalf("expected dropped byte, got %q", out)
	}
}

func TestNewCodecResolvesCP037(t *testing.T) {
	c := NewCodec("cp037")
	if c.Name() != "cp037" {
		t.Fatalf("expected cp037 codec name, got %q", c.Name())
	}
}

func TestNewCodecResolvesUTF8ViaHtmlindex(t *testing.T) {
	c := NewCodec("UTF-8")
	if c.Name() == "ASCII" {
		t.Fatalf("expected UTF-8 to resolve to a non-ASCII-fallback codec")
	}
}

func TestSupportedRecognizesKnownNames(t *testing.T) {
	if !Supported("ASCII") || !Supported("UTF-8") {
		t.Fatalf("expected ASCII and UTF-8 to be reported as supported")
	}
	if Supported("this-is-not-a-real-charset") {
		t.Fatalf("expected a bogus charset name to be unsupported")
	}
}

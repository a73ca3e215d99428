package hash

import "testing"

func TestSHA256HexLength(t *testing.T) {
	d := SHA256Hex([]byte("airtrace"))
	if len(d) != 64 {
		t.Fatalf("want 64 hex chars, got %d", len(d))
	}
	if !ValidHex64(d) {
		t.Fatal("digest should be valid hex64")
	}
}

func TestEqualHexCaseInsensitive(t *testing.T) {
	a := "AABBCC"
	b := "aabbcc"
	if !EqualHex(a, b) {
		t.Fatal("expected case-insensitive equality")
	}
}

func TestValidHex64RejectsWrongLength(t *testing.T) {
	if ValidHex64("abc") {
		t.Fatal("expected short string to be invalid")
	}
	if ValidHex64("zz" + SHA256Hex([]byte("x"))[2:]) {
		t.Fatal("expected non-hex characters to be invalid")
	}
}

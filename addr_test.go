package tsnet

import "testing"

func TestParseAddress_Accepts(t *testing.T) {
	cases := []struct {
		addr string
		ipv6 bool
	}{
		{"80", false},
		{"127.0.0.1:8080", false},
		{"[::1]:8080", true},
	}
	for _, c := range cases {
		if _, err := ParseAddress(c.addr, true); err != nil {
			t.Errorf("ParseAddress(%q) with ipv6 enabled: unexpected error: %v", c.addr, err)
		}
	}
}

func TestParseAddress_RejectsMalformed(t *testing.T) {
	cases := []string{"80x", ":80", "1.2.3:80", "65536", "0"}
	for _, addr := range cases {
		if _, err := ParseAddress(addr, true); err == nil {
			t.Errorf("ParseAddress(%q): expected error, got none", addr)
		}
	}
}

func TestParseAddress_IPv6RequiresOptIn(t *testing.T) {
	if _, err := ParseAddress("[::1]:8080", false); err == nil {
		t.Fatalf("expected [::1]:8080 to be rejected when IPv6 is disabled")
	}
}

func TestParseAddress_PortZeroRejected(t *testing.T) {
	if _, err := ParseAddress("0", false); err == nil {
		t.Fatalf("expected port 0 to be rejected")
	}
}

package resolve

import (
	"net/netip"
	"testing"
)

func TestParseServerEndpointVariants(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in       string
		wantHost string
		wantPort uint16
	}{
		{"8.8.8.8", "8.8.8.8", 53},
		{"8.8.8.8:53", "8.8.8.8", 53},
		{"8.8.8.8:5353", "8.8.8.8", 5353},
		{"2001:4860:4860::8888", "2001:4860:4860::8888", 53},
		{"[2001:4860:4860::8888]:53", "2001:4860:4860::8888", 53},
	}
	for _, c := range cases {
		ep, err := ParseServerEndpoint(c.in)
		if err != nil {
			t.Fatalf("ParseServerEndpoint(%q): %v", c.in, err)
		}
		if ep.AddrPort().Port() != c.wantPort {
			t.Errorf("ParseServerEndpoint(%q) port = %d, want %d", c.in, ep.AddrPort().Port(), c.wantPort)
		}
	}
}

func TestServerEndpointIsValidRejectsUnspecified(t *testing.T) {
	t.Parallel()
	ep := NewServerEndpoint(netip.IPv4Unspecified(), 53)
	if ep.IsValid() {
		t.Fatal("expected unspecified address to be invalid")
	}
	good := NewServerEndpoint(netip.MustParseAddr("1.1.1.1"), 53)
	if !good.IsValid() {
		t.Fatal("expected 1.1.1.1 to be valid")
	}
}

func TestServerEndpointUDPPayloadHint(t *testing.T) {
	t.Parallel()
	ep := NewServerEndpoint(netip.MustParseAddr("1.1.1.1"), 53)
	if ep.UDPPayloadHint() != 0 {
		t.Fatal("expected zero hint before any OPT record observed")
	}
	ep.SetUDPPayloadHint(1232)
	if ep.UDPPayloadHint() != 1232 {
		t.Fatalf("got %d, want 1232", ep.UDPPayloadHint())
	}
}

func TestServerEndpointRTTHintUnprobed(t *testing.T) {
	t.Parallel()
	ep := NewServerEndpoint(netip.MustParseAddr("1.1.1.1"), 53)
	if got := ep.RTTHint(); got != -1 {
		t.Fatalf("expected -1 for an unprobed endpoint, got %d", got)
	}
}

func TestServerEndpointEqual(t *testing.T) {
	t.Parallel()
	a := NewServerEndpoint(netip.MustParseAddr("1.1.1.1"), 53)
	b := NewServerEndpoint(netip.MustParseAddr("1.1.1.1"), 53)
	c := NewServerEndpoint(netip.MustParseAddr("1.1.1.2"), 53)
	if !a.Equal(b) {
		t.Fatal("expected equal endpoints to compare equal")
	}
	if a.Equal(c) {
		t.Fatal("expected different addresses to compare unequal")
	}
}

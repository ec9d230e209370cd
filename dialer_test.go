package resolve

import (
	"errors"
	"net/netip"
	"syscall"
	"testing"
)

func TestDegradingDialerDisablesIPv6OnUnreachable(t *testing.T) {
	t.Parallel()
	d := NewDegradingDialer(nil)
	if !d.UsingIPv6() {
		t.Fatal("expected IPv6 enabled by default")
	}
	if !d.NoteError("udp", syscall.ENETUNREACH) {
		t.Fatal("expected NoteError to report it disabled something")
	}
	if d.UsingIPv6() {
		t.Fatal("expected IPv6 disabled after ENETUNREACH")
	}
}

func TestDegradingDialerDisablesUDPOnProtocolNotSupported(t *testing.T) {
	t.Parallel()
	d := NewDegradingDialer(nil)
	if !d.NoteError("udp4", syscall.EPROTONOSUPPORT) {
		t.Fatal("expected NoteError to disable UDP")
	}
	if d.UsingUDP() {
		t.Fatal("expected UDP disabled after EPROTONOSUPPORT")
	}
}

func TestDegradingDialerIgnoresUnrelatedErrors(t *testing.T) {
	t.Parallel()
	d := NewDegradingDialer(nil)
	if d.NoteError("udp", errors.New("some other failure")) {
		t.Fatal("did not expect an unrelated error to disable anything")
	}
	if !d.UsingIPv6() || !d.UsingUDP() {
		t.Fatal("expected both IPv6 and UDP to remain enabled")
	}
}

func TestDegradingDialerUsable(t *testing.T) {
	t.Parallel()
	d := NewDegradingDialer(nil)
	v6 := netip.MustParseAddr("2001:db8::1")
	if !d.Usable("udp4", v6) {
		t.Fatal("expected v6 address usable while IPv6 is enabled")
	}
	d.NoteError("udp", syscall.EHOSTUNREACH)
	if d.Usable("udp4", v6) {
		t.Fatal("expected v6 address unusable after IPv6 was disabled")
	}
}

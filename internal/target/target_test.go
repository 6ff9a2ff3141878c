package target

import (
	"net"
	"testing"

	"github.com/hnsresolve/resolver/internal/pointer"
	"github.com/hnsresolve/resolver/internal/protocol"
	"github.com/hnsresolve/resolver/internal/wire"
)

func TestRead_Inet4(t *testing.T) {
	data := []byte{byte(protocol.TagINET4), 192, 0, 2, 1}
	tgt, err := Read(wire.NewReader(data))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if tgt.Kind != KindInet4 || !tgt.Inet4.Equal(net.IPv4(192, 0, 2, 1)) {
		t.Errorf("Read() = %+v, want KindInet4 192.0.2.1", tgt)
	}
}

func TestRead_Inet6(t *testing.T) {
	data := append([]byte{byte(protocol.TagINET6)}, net.ParseIP("2001:db8::1").To16()...)
	tgt, err := Read(wire.NewReader(data))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if tgt.Kind != KindInet6 || !tgt.Inet6.Equal(net.ParseIP("2001:db8::1")) {
		t.Errorf("Read() = %+v, want KindInet6 2001:db8::1", tgt)
	}
}

func TestRead_Onion(t *testing.T) {
	data := append([]byte{byte(protocol.TagONION)}, make([]byte, 33)...)
	tgt, err := Read(wire.NewReader(data))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if tgt.Kind != KindOnion {
		t.Errorf("Read() kind = %v, want KindOnion", tgt.Kind)
	}
}

func TestRead_OnionNG(t *testing.T) {
	data := append([]byte{byte(protocol.TagONIONNG)}, make([]byte, 33)...)
	tgt, err := Read(wire.NewReader(data))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if tgt.Kind != KindOnionNG {
		t.Errorf("Read() kind = %v, want KindOnionNG", tgt.Kind)
	}
}

func TestRead_Name(t *testing.T) {
	data := []byte{byte(protocol.TagNAME), 3, 'n', 's', '1', 0}
	tgt, err := Read(wire.NewReader(data))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if tgt.Kind != KindName || tgt.Name != "ns1." {
		t.Errorf("Read() = %+v, want KindName ns1.", tgt)
	}
}

func TestRead_Glue(t *testing.T) {
	data := []byte{byte(protocol.TagGLUE), 3, 'n', 's', '1', 0}
	data = append(data, 192, 0, 2, 53)
	data = append(data, net.ParseIP("2001:db8::53").To16()...)

	tgt, err := Read(wire.NewReader(data))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if tgt.Kind != KindGlue || tgt.Name != "ns1." {
		t.Errorf("Read() = %+v, want KindGlue ns1.", tgt)
	}
	if !tgt.Inet4.Equal(net.IPv4(192, 0, 2, 53)) {
		t.Errorf("Read() inet4 = %v, want 192.0.2.53", tgt.Inet4)
	}
	if !tgt.Inet6.Equal(net.ParseIP("2001:db8::53")) {
		t.Errorf("Read() inet6 = %v, want 2001:db8::53", tgt.Inet6)
	}
}

func TestRead_UnknownSelectorRejected(t *testing.T) {
	data := []byte{0x63}
	if _, err := Read(wire.NewReader(data)); err == nil {
		t.Error("Read(unknown selector) error = nil, want error")
	}
}

func TestRead_TruncatedPayloadRejected(t *testing.T) {
	data := []byte{byte(protocol.TagINET4), 192, 0}
	if _, err := Read(wire.NewReader(data)); err == nil {
		t.Error("Read(truncated inet4) error = nil, want error")
	}
}

func TestToHost_NameAndGlueReturnStoredFQDN(t *testing.T) {
	tests := []Target{
		{Kind: KindName, Name: "www.alice."},
		{Kind: KindGlue, Name: "ns1.alice."},
	}
	for _, tgt := range tests {
		host, ok := ToHost(tgt, "sub.alice.")
		if !ok || host != tgt.Name {
			t.Errorf("ToHost(%+v) = (%q, %v), want (%q, true)", tgt, host, ok, tgt.Name)
		}
	}
}

func TestToHost_Inet4SynthesizesPointerUnderQueryTLD(t *testing.T) {
	ip := net.IPv4(198, 51, 100, 7)
	tgt := Target{Kind: KindInet4, Inet4: ip}

	host, ok := ToHost(tgt, "sub.alice.")
	if !ok {
		t.Fatal("ToHost() ok = false, want true")
	}

	wantLabel, err := pointer.EncodeV4(ip)
	if err != nil {
		t.Fatalf("EncodeV4() error = %v", err)
	}
	want := wantLabel + ".alice."
	if host != want {
		t.Errorf("ToHost() = %q, want %q", host, want)
	}
}

func TestToHost_Inet6SynthesizesPointerUnderQueryTLD(t *testing.T) {
	ip := net.ParseIP("2001:db8::53")
	tgt := Target{Kind: KindInet6, Inet6: ip}

	host, ok := ToHost(tgt, "deep.sub.example.")
	if !ok {
		t.Fatal("ToHost() ok = false, want true")
	}

	wantLabel, err := pointer.EncodeV6(ip)
	if err != nil {
		t.Fatalf("EncodeV6() error = %v", err)
	}
	want := wantLabel + ".example."
	if host != want {
		t.Errorf("ToHost() = %q, want %q", host, want)
	}
}

func TestToHost_OnionKindsFail(t *testing.T) {
	tests := []Target{
		{Kind: KindOnion},
		{Kind: KindOnionNG},
	}
	for _, tgt := range tests {
		if _, ok := ToHost(tgt, "alice."); ok {
			t.Errorf("ToHost(%+v) ok = true, want false", tgt)
		}
	}
}

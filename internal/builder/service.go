package builder

import (
	"strings"

	"github.com/miekg/dns"

	"github.com/hnsresolve/resolver/internal/protocol"
	"github.com/hnsresolve/resolver/internal/resource"
	"github.com/hnsresolve/resolver/internal/target"
)

// MX appends one MX RR per SERVICE record whose (service, protocol)
// is the case-insensitive pair ("smtp.", "tcp."). Every other SERVICE
// record is ignored here — use SRV for the generic case.
func MX(res *resource.Resource, owner, queryName string) []dns.RR {
	var out []dns.RR
	for _, svc := range serviceRecords(res, "smtp.", "tcp.") {
		host, ok := target.ToHost(svc.Target, queryName)
		if !ok {
			continue
		}
		out = append(out, &dns.MX{
			Hdr:        dns.RR_Header{Name: owner, Rrtype: dns.TypeMX, Class: dns.ClassINET, Ttl: res.TTL},
			Preference: uint16(svc.Priority),
			Mx:         host,
		})
	}
	return out
}

// SRV appends one SRV RR per SERVICE record matching the given
// (service, protocol) pair — the generic, parameterized builder §4.5
// describes for arbitrary service discovery names.
func SRV(res *resource.Resource, owner, queryName, service, proto string) []dns.RR {
	var out []dns.RR
	for _, svc := range serviceRecords(res, service, proto) {
		host, ok := target.ToHost(svc.Target, queryName)
		if !ok {
			continue
		}
		out = append(out, &dns.SRV{
			Hdr:      dns.RR_Header{Name: owner, Rrtype: dns.TypeSRV, Class: dns.ClassINET, Ttl: res.TTL},
			Priority: uint16(svc.Priority),
			Weight:   uint16(svc.Weight),
			Port:     svc.Port,
			Target:   host,
		})
	}
	return out
}

func serviceRecords(res *resource.Resource, service, proto string) []resource.ServiceRecord {
	var out []resource.ServiceRecord
	for _, rec := range res.Records {
		svc, ok := rec.(resource.ServiceRecord)
		if !ok || svc.Tag() != protocol.TagSERVICE {
			continue
		}
		if !strings.EqualFold(svc.Service, service) || !strings.EqualFold(svc.Protocol, proto) {
			continue
		}
		out = append(out, svc)
	}
	return out
}

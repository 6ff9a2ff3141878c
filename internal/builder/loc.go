package builder

import (
	"github.com/miekg/dns"

	"github.com/hnsresolve/resolver/internal/protocol"
	"github.com/hnsresolve/resolver/internal/resource"
)

// LOC appends one LOC RR per LOCATION record, copying the version,
// size, precision, and lat/lon/alt fields straight through.
func LOC(res *resource.Resource, owner string) []dns.RR {
	var out []dns.RR
	for _, rec := range res.Records {
		loc, ok := rec.(resource.LocationRecord)
		if !ok {
			continue
		}
		out = append(out, &dns.LOC{
			Hdr:       dns.RR_Header{Name: owner, Rrtype: dns.TypeLOC, Class: dns.ClassINET, Ttl: res.TTL},
			Version:   loc.Version,
			Size:      loc.Size,
			HorizPre:  loc.HorizPre,
			VertPre:   loc.VertPre,
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			Altitude:  loc.Altitude,
		})
	}
	return out
}

// DS appends one DS RR per DS record, copying the digest bytes.
func DS(res *resource.Resource, owner string) []dns.RR {
	var out []dns.RR
	for _, rec := range res.Records {
		ds, ok := rec.(resource.DSRecord)
		if !ok {
			continue
		}
		out = append(out, &dns.DS{
			Hdr:        dns.RR_Header{Name: owner, Rrtype: dns.TypeDS, Class: dns.ClassINET, Ttl: res.TTL},
			KeyTag:     ds.KeyTag,
			Algorithm:  ds.Algorithm,
			DigestType: ds.DigestType,
			Digest:     hexEncode(ds.Digest),
		})
	}
	return out
}

// SSHFP appends one SSHFP RR per SSH record.
func SSHFP(res *resource.Resource, owner string) []dns.RR {
	var out []dns.RR
	for _, rec := range res.Records {
		ssh, ok := rec.(resource.SSHRecord)
		if !ok || ssh.TagValue != protocol.TagSSH {
			continue
		}
		out = append(out, &dns.SSHFP{
			Hdr:         dns.RR_Header{Name: owner, Rrtype: dns.TypeSSHFP, Class: dns.ClassINET, Ttl: res.TTL},
			Algorithm:   ssh.Algorithm,
			Type:        ssh.KeyType,
			FingerPrint: hexEncode(ssh.Fingerprint),
		})
	}
	return out
}

package resource

import (
	"net"

	"github.com/hnsresolve/resolver/internal/errors"
	"github.com/hnsresolve/resolver/internal/protocol"
	"github.com/hnsresolve/resolver/internal/target"
	"github.com/hnsresolve/resolver/internal/wire"
)

// Decode turns raw resource bytes into a Resource, or rejects the
// whole value. The decode is total: either every byte is consumed by
// a well-formed record and the whole string parses cleanly, or decode
// returns an error and no partial Resource is visible — §4.2/§7.
func Decode(data []byte) (*Resource, error) {
	r := wire.NewReader(data)

	version, err := r.ReadU8()
	if err != nil {
		return nil, &errors.WireFormatError{Operation: "decode resource", Offset: 0, Message: "missing version byte", Err: err}
	}
	if version != protocol.ResourceVersion0 {
		return nil, &errors.WireFormatError{Operation: "decode resource", Offset: 0, Message: "unsupported resource version"}
	}

	res := &Resource{Version: version, TTL: protocol.DefaultTTL}

	for !r.Done() {
		if len(res.Records) >= protocol.MaxRecords {
			return nil, &errors.WireFormatError{Operation: "decode resource", Offset: r.Offset(), Message: "resource exceeds maximum record count"}
		}

		tagByte, err := r.ReadU8()
		if err != nil {
			return nil, &errors.WireFormatError{Operation: "decode resource", Offset: r.Offset(), Message: "truncated record type", Err: err}
		}

		tag := protocol.Tag(tagByte)
		if !tag.IsKnown() {
			return nil, &errors.WireFormatError{Operation: "decode resource", Offset: r.Offset(), Message: "unknown record type"}
		}

		rec, err := readRecord(r, tag)
		if err != nil {
			return nil, err
		}
		res.Records = append(res.Records, rec)
	}

	return res, nil
}

func readRecord(r *wire.Reader, tag protocol.Tag) (Record, error) {
	switch tag {
	case protocol.TagINET4:
		b, err := r.ReadBytes(4)
		if err != nil {
			return nil, err
		}
		return HostRecord{TagValue: tag, Target: target.Target{Kind: target.KindInet4, Inet4: net.IP(b)}}, nil

	case protocol.TagINET6:
		b, err := r.ReadBytes(16)
		if err != nil {
			return nil, err
		}
		return HostRecord{TagValue: tag, Target: target.Target{Kind: target.KindInet6, Inet6: net.IP(b)}}, nil

	case protocol.TagONION, protocol.TagONIONNG:
		b, err := r.ReadBytes(protocol.MaxOnionLength)
		if err != nil {
			return nil, err
		}
		var onion [33]byte
		copy(onion[:], b)
		kind := target.KindOnion
		if tag == protocol.TagONIONNG {
			kind = target.KindOnionNG
		}
		return HostRecord{TagValue: tag, Target: target.Target{Kind: kind, Onion: onion}}, nil

	case protocol.TagNAME:
		name, err := r.ReadName()
		if err != nil {
			return nil, err
		}
		return HostRecord{TagValue: tag, Target: target.Target{Kind: target.KindName, Name: name}}, nil

	case protocol.TagGLUE:
		name, err := r.ReadName()
		if err != nil {
			return nil, err
		}
		v4, err := r.ReadBytes(4)
		if err != nil {
			return nil, err
		}
		v6, err := r.ReadBytes(16)
		if err != nil {
			return nil, err
		}
		return HostRecord{TagValue: tag, Target: target.Target{Kind: target.KindGlue, Name: name, Inet4: net.IP(v4), Inet6: net.IP(v6)}}, nil

	case protocol.TagCANONICAL, protocol.TagDELEGATE, protocol.TagNS:
		tgt, err := target.Read(r)
		if err != nil {
			return nil, err
		}
		return HostRecord{TagValue: tag, Target: tgt}, nil

	case protocol.TagSERVICE:
		return readService(r)

	case protocol.TagURL, protocol.TagEMAIL, protocol.TagTEXT:
		text, err := readText(r, protocol.MaxTextLength)
		if err != nil {
			return nil, err
		}
		return TextRecord{TagValue: tag, Text: text}, nil

	case protocol.TagLOCATION:
		return readLocation(r)

	case protocol.TagMAGNET:
		return readMagnet(r)

	case protocol.TagDS:
		return readDS(r)

	case protocol.TagTLS:
		return readTLS(r)

	case protocol.TagSSH, protocol.TagPGP:
		return readSSH(r, tag)

	case protocol.TagADDR:
		return readAddr(r)

	case protocol.TagEXTRA:
		return readExtra(r)

	default:
		return nil, &errors.WireFormatError{Operation: "decode record", Offset: r.Offset(), Message: "unhandled record type"}
	}
}

func readService(r *wire.Reader) (Record, error) {
	service, err := readText(r, protocol.MaxLabelField)
	if err != nil {
		return nil, err
	}
	proto, err := readText(r, protocol.MaxLabelField)
	if err != nil {
		return nil, err
	}
	priority, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	weight, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	tgt, err := target.Read(r)
	if err != nil {
		return nil, err
	}
	port, err := r.ReadU16BE()
	if err != nil {
		return nil, err
	}
	return ServiceRecord{Service: service, Protocol: proto, Priority: priority, Weight: weight, Target: tgt, Port: port}, nil
}

func readLocation(r *wire.Reader) (Record, error) {
	var rec LocationRecord
	var err error
	if rec.Version, err = r.ReadU8(); err != nil {
		return nil, err
	}
	if rec.Size, err = r.ReadU8(); err != nil {
		return nil, err
	}
	if rec.HorizPre, err = r.ReadU8(); err != nil {
		return nil, err
	}
	if rec.VertPre, err = r.ReadU8(); err != nil {
		return nil, err
	}
	if rec.Latitude, err = r.ReadU32BE(); err != nil {
		return nil, err
	}
	if rec.Longitude, err = r.ReadU32BE(); err != nil {
		return nil, err
	}
	if rec.Altitude, err = r.ReadU32BE(); err != nil {
		return nil, err
	}
	return rec, nil
}

func readMagnet(r *wire.Reader) (Record, error) {
	nid, err := readText(r, protocol.MaxLabelField)
	if err != nil {
		return nil, err
	}
	nin, err := r.ReadSized(protocol.MaxMagnetNin)
	if err != nil {
		return nil, err
	}
	return MagnetRecord{NID: nid, NIN: nin}, nil
}

func readDS(r *wire.Reader) (Record, error) {
	keyTag, err := r.ReadU16BE()
	if err != nil {
		return nil, err
	}
	algorithm, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	digestType, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	digest, err := r.ReadSized(protocol.MaxDigestLength)
	if err != nil {
		return nil, err
	}
	return DSRecord{KeyTag: keyTag, Algorithm: algorithm, DigestType: digestType, Digest: digest}, nil
}

func readTLS(r *wire.Reader) (Record, error) {
	proto, err := readText(r, protocol.MaxLabelField)
	if err != nil {
		return nil, err
	}
	port, err := r.ReadU16BE()
	if err != nil {
		return nil, err
	}
	usage, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	selector, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	matchType, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	cert, err := r.ReadSized(protocol.MaxCertLength)
	if err != nil {
		return nil, err
	}
	return TLSRecord{Protocol: proto, Port: port, Usage: usage, Selector: selector, MatchType: matchType, Certificate: cert}, nil
}

func readSSH(r *wire.Reader, tag protocol.Tag) (Record, error) {
	algorithm, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	keyType, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	fingerprint, err := r.ReadSized(protocol.MaxHashLength)
	if err != nil {
		return nil, err
	}
	return SSHRecord{TagValue: tag, Algorithm: algorithm, KeyType: keyType, Fingerprint: fingerprint}, nil
}

func readAddr(r *wire.Reader) (Record, error) {
	currency, err := readText(r, protocol.MaxLabelField)
	if err != nil {
		return nil, err
	}
	address, err := readText(r, protocol.MaxFQDNLength)
	if err != nil {
		return nil, err
	}
	ctype, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	testnetByte, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	version, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	hash, err := r.ReadSized(protocol.MaxHashLength)
	if err != nil {
		return nil, err
	}
	return AddrRecord{Currency: currency, Address: address, CType: ctype, Testnet: testnetByte != 0, Version: version, Hash: hash}, nil
}

func readExtra(r *wire.Reader) (Record, error) {
	rtype, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	data, err := r.ReadSized(protocol.MaxExtraDataLen)
	if err != nil {
		return nil, err
	}
	return ExtraRecord{RType: rtype, Data: data}, nil
}

// readText reads a size-prefixed character-string and rejects any
// byte outside printable ASCII (0x20..0x7e) plus TAB/LF/CR — §3's
// text-field invariant.
func readText(r *wire.Reader, cap int) (string, error) {
	raw, err := r.ReadSized(cap)
	if err != nil {
		return "", err
	}
	for _, ch := range raw {
		printable := ch >= 0x20 && ch <= 0x7e
		whitespace := ch == 0x09 || ch == 0x0a || ch == 0x0d
		if !printable && !whitespace {
			return "", &errors.WireFormatError{Operation: "read text field", Offset: r.Offset(), Message: "non-printable byte in text field"}
		}
	}
	return string(raw), nil
}

// Package dagcbor implements the canonical CBOR encoding (RFC 8949 §4.2.1
// deterministic encoding) used as the wire format for every oxide, plus the
// IPLD-style tag-42 link convention used to represent a Key.
//
// This is hand-rolled rather than routed through a general-purpose CBOR
// library because the one property the whole DAG depends on - "same
// logical value always produces the same bytes" - must hold for the
// Structure.Map case, where keys are an arbitrary oxide type rather than a
// Go-native map key. Driving the encoder directly gives full, auditable
// control over integer shortest-form, float width, and map-key ordering in
// one place instead of straddling a library's canonical mode for most kinds
// and a hand patch for the one it can't express.
package dagcbor

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/erigontech/polyepoxide/key"
)

// Kind discriminates the shape of an Item.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindUint
	KindInt
	KindFloat32
	KindFloat64
	KindText
	KindBytes
	KindArray
	KindMap
	KindLink
)

// Entry is one key/value pair of a KindMap Item.
type Entry struct {
	Key   Item
	Value Item
}

// Item is the in-memory IR both Marshal and Unmarshal operate over: a
// minimal CBOR value tree restricted to the shapes the oxide wire format
// actually uses.
type Item struct {
	Kind Kind
	B    bool
	U    uint64
	I    int64
	F32  float32
	F64  float64
	Text string
	Bin  []byte
	Arr  []Item
	Ent  []Entry
	Link key.Key
}

func Null() Item                { return Item{Kind: KindNull} }
func Bool(b bool) Item          { return Item{Kind: KindBool, B: b} }
func Uint(u uint64) Item        { return Item{Kind: KindUint, U: u} }
func Int(i int64) Item          { return Item{Kind: KindInt, I: i} }
func Float32(f float32) Item    { return Item{Kind: KindFloat32, F32: f} }
func Float64(f float64) Item    { return Item{Kind: KindFloat64, F64: f} }
func Text(s string) Item        { return Item{Kind: KindText, Text: s} }
func Bytes(b []byte) Item       { return Item{Kind: KindBytes, Bin: b} }
func Array(items ...Item) Item  { return Item{Kind: KindArray, Arr: items} }
func LinkItem(k key.Key) Item   { return Item{Kind: KindLink, Link: k} }

// Map builds a KindMap Item. Entries are re-sorted into canonical order (by
// the bytewise order of each key's own canonical encoding) regardless of
// the order passed in, so callers never need to pre-sort.
func Map(entries ...Entry) Item {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sortEntriesCanonical(sorted)
	return Item{Kind: KindMap, Ent: sorted}
}

// OrderedMap builds a KindMap Item that preserves the given entry order
// (used for Structure.Record/Tagged/OrderedMap, whose wire order is the
// schema's declared field order, not a sorted order).
func OrderedMap(entries ...Entry) Item {
	return Item{Kind: KindMap, Ent: entries}
}

func sortEntriesCanonical(entries []Entry) {
	keyBytes := make([][]byte, len(entries))
	for i, e := range entries {
		b, err := Marshal(e.Key)
		if err != nil {
			// Keys built from this package's own constructors always encode;
			// a failure here means a caller hand-built an invalid Item.
			panic(fmt.Sprintf("dagcbor: unencodable map key: %v", err))
		}
		keyBytes[i] = b
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return bytes.Compare(keyBytes[i], keyBytes[j]) < 0
	})
}

// Marshal encodes an Item as canonical CBOR.
func Marshal(item Item) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, item); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, item Item) error {
	switch item.Kind {
	case KindNull:
		buf.WriteByte(0xf6)
	case KindBool:
		if item.B {
			buf.WriteByte(0xf5)
		} else {
			buf.WriteByte(0xf4)
		}
	case KindUint:
		writeHead(buf, 0, item.U)
	case KindInt:
		if item.I >= 0 {
			writeHead(buf, 0, uint64(item.I))
		} else {
			writeHead(buf, 1, uint64(-1-item.I))
		}
	case KindFloat32:
		buf.WriteByte(7<<5 | 26)
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], math.Float32bits(item.F32))
		buf.Write(b[:])
	case KindFloat64:
		buf.WriteByte(7<<5 | 27)
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], math.Float64bits(item.F64))
		buf.Write(b[:])
	case KindText:
		writeHead(buf, 3, uint64(len(item.Text)))
		buf.WriteString(item.Text)
	case KindBytes:
		writeHead(buf, 2, uint64(len(item.Bin)))
		buf.Write(item.Bin)
	case KindArray:
		writeHead(buf, 4, uint64(len(item.Arr)))
		for _, el := range item.Arr {
			if err := encode(buf, el); err != nil {
				return err
			}
		}
	case KindMap:
		writeHead(buf, 5, uint64(len(item.Ent)))
		for _, e := range item.Ent {
			if err := encode(buf, e.Key); err != nil {
				return err
			}
			if err := encode(buf, e.Value); err != nil {
				return err
			}
		}
	case KindLink:
		writeHead(buf, 6, 42) // tag 42: IPLD-style link
		writeHead(buf, 2, key.Size)
		buf.Write(item.Link[:])
	default:
		return fmt.Errorf("dagcbor: unknown item kind %d", item.Kind)
	}
	return nil
}

// writeHead writes a CBOR major-type/argument head using the shortest
// encoding for n, per RFC 8949 §3.1/§4.2.1.
func writeHead(buf *bytes.Buffer, major byte, n uint64) {
	switch {
	case n < 24:
		buf.WriteByte(major<<5 | byte(n))
	case n <= 0xff:
		buf.WriteByte(major<<5 | 24)
		buf.WriteByte(byte(n))
	case n <= 0xffff:
		buf.WriteByte(major<<5 | 25)
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(n))
		buf.Write(b[:])
	case n <= 0xffffffff:
		buf.WriteByte(major<<5 | 26)
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(n))
		buf.Write(b[:])
	default:
		buf.WriteByte(major<<5 | 27)
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], n)
		buf.Write(b[:])
	}
}

// Unmarshal decodes canonical CBOR produced by Marshal. It tolerates
// non-canonical (but well-formed) input on read; only Marshal's output is
// guaranteed canonical.
func Unmarshal(b []byte) (Item, error) {
	item, rest, err := decodeItem(b)
	if err != nil {
		return Item{}, err
	}
	if len(rest) != 0 {
		return Item{}, fmt.Errorf("dagcbor: %d trailing bytes after value", len(rest))
	}
	return item, nil
}

func decodeItem(b []byte) (Item, []byte, error) {
	if len(b) == 0 {
		return Item{}, nil, io.ErrUnexpectedEOF
	}
	first := b[0]
	major := first >> 5
	ai := first & 0x1f
	b = b[1:]

	switch major {
	case 0:
		n, rest, err := decodeArg(ai, b)
		if err != nil {
			return Item{}, nil, err
		}
		return Uint(n), rest, nil
	case 1:
		n, rest, err := decodeArg(ai, b)
		if err != nil {
			return Item{}, nil, err
		}
		return Int(-1 - int64(n)), rest, nil
	case 2:
		n, rest, err := decodeArg(ai, b)
		if err != nil {
			return Item{}, nil, err
		}
		if uint64(len(rest)) < n {
			return Item{}, nil, io.ErrUnexpectedEOF
		}
		data := append([]byte(nil), rest[:n]...)
		return Bytes(data), rest[n:], nil
	case 3:
		n, rest, err := decodeArg(ai, b)
		if err != nil {
			return Item{}, nil, err
		}
		if uint64(len(rest)) < n {
			return Item{}, nil, io.ErrUnexpectedEOF
		}
		return Text(string(rest[:n])), rest[n:], nil
	case 4:
		n, rest, err := decodeArg(ai, b)
		if err != nil {
			return Item{}, nil, err
		}
		items := make([]Item, 0, n)
		for i := uint64(0); i < n; i++ {
			var el Item
			el, rest, err = decodeItem(rest)
			if err != nil {
				return Item{}, nil, err
			}
			items = append(items, el)
		}
		return Item{Kind: KindArray, Arr: items}, rest, nil
	case 5:
		n, rest, err := decodeArg(ai, b)
		if err != nil {
			return Item{}, nil, err
		}
		entries := make([]Entry, 0, n)
		for i := uint64(0); i < n; i++ {
			var k, v Item
			k, rest, err = decodeItem(rest)
			if err != nil {
				return Item{}, nil, err
			}
			v, rest, err = decodeItem(rest)
			if err != nil {
				return Item{}, nil, err
			}
			entries = append(entries, Entry{Key: k, Value: v})
		}
		return Item{Kind: KindMap, Ent: entries}, rest, nil
	case 6:
		tag, rest, err := decodeArg(ai, b)
		if err != nil {
			return Item{}, nil, err
		}
		if tag != 42 {
			return Item{}, nil, fmt.Errorf("dagcbor: unsupported tag %d", tag)
		}
		inner, rest, err := decodeItem(rest)
		if err != nil {
			return Item{}, nil, err
		}
		if inner.Kind != KindBytes || len(inner.Bin) != key.Size {
			return Item{}, nil, fmt.Errorf("dagcbor: tag 42 link must wrap a %d-byte string", key.Size)
		}
		k, err := key.FromBytes(inner.Bin)
		if err != nil {
			return Item{}, nil, err
		}
		return Item{Kind: KindLink, Link: k}, rest, nil
	case 7:
		switch ai {
		case 20:
			return Bool(false), b, nil
		case 21:
			return Bool(true), b, nil
		case 22:
			return Null(), b, nil
		case 26:
			if len(b) < 4 {
				return Item{}, nil, io.ErrUnexpectedEOF
			}
			f := math.Float32frombits(binary.BigEndian.Uint32(b[:4]))
			return Float32(f), b[4:], nil
		case 27:
			if len(b) < 8 {
				return Item{}, nil, io.ErrUnexpectedEOF
			}
			f := math.Float64frombits(binary.BigEndian.Uint64(b[:8]))
			return Float64(f), b[8:], nil
		default:
			return Item{}, nil, fmt.Errorf("dagcbor: unsupported simple value %d", ai)
		}
	default:
		return Item{}, nil, fmt.Errorf("dagcbor: unsupported major type %d", major)
	}
}

func decodeArg(ai byte, b []byte) (uint64, []byte, error) {
	switch {
	case ai < 24:
		return uint64(ai), b, nil
	case ai == 24:
		if len(b) < 1 {
			return 0, nil, io.ErrUnexpectedEOF
		}
		return uint64(b[0]), b[1:], nil
	case ai == 25:
		if len(b) < 2 {
			return 0, nil, io.ErrUnexpectedEOF
		}
		return uint64(binary.BigEndian.Uint16(b[:2])), b[2:], nil
	case ai == 26:
		if len(b) < 4 {
			return 0, nil, io.ErrUnexpectedEOF
		}
		return uint64(binary.BigEndian.Uint32(b[:4])), b[4:], nil
	case ai == 27:
		if len(b) < 8 {
			return 0, nil, io.ErrUnexpectedEOF
		}
		return binary.BigEndian.Uint64(b[:8]), b[8:], nil
	default:
		return 0, nil, fmt.Errorf("dagcbor: unsupported additional info %d", ai)
	}
}

// AsMap returns the item's entries as a name->value lookup, for the common
// case of a text-keyed Record/Tagged map. Returns nil if item is not a map
// or contains non-text keys.
func AsMap(item Item) map[string]Item {
	if item.Kind != KindMap {
		return nil
	}
	out := make(map[string]Item, len(item.Ent))
	for _, e := range item.Ent {
		if e.Key.Kind != KindText {
			return nil
		}
		out[e.Key.Text] = e.Value
	}
	return out
}

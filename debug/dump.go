// Package debug provides non-correctness-critical inspection tools for
// oxide values and solvents: a human-readable JSON dump, a table
// summary of solvent statistics, and a reference-graph renderer.
package debug

import (
	"fmt"

	"github.com/ugorji/go/codec"

	"github.com/erigontech/polyepoxide/internal/dagcbor"
	"github.com/erigontech/polyepoxide/oxide"
)

// DumpJSON renders value's canonical encoding as indented JSON, for
// humans reading logs or test failures - never for round-tripping, since
// JSON can't distinguish all the CBOR shapes this module cares about
// (e.g. a Link vs a byte string of the same length).
func DumpJSON(value oxide.Oxide) ([]byte, error) {
	bytes, err := value.Encode()
	if err != nil {
		return nil, err
	}
	return DumpEncodedJSON(bytes)
}

// DumpEncodedJSON renders already-encoded canonical CBOR bytes as
// indented JSON.
func DumpEncodedJSON(encoded []byte) ([]byte, error) {
	item, err := dagcbor.Unmarshal(encoded)
	if err != nil {
		return nil, err
	}
	native := toNative(item)

	var out []byte
	handle := &codec.JsonHandle{Indent: 2}
	enc := codec.NewEncoderBytes(&out, handle)
	if err := enc.Encode(native); err != nil {
		return nil, err
	}
	return out, nil
}

// toNative converts a dagcbor.Item tree into plain Go values
// (map[string]any, []any, string, []byte, uint64, int64, float32, float64,
// bool, nil) that ugorji's JSON encoder can render directly.
func toNative(item dagcbor.Item) any {
	switch item.Kind {
	case dagcbor.KindNull:
		return nil
	case dagcbor.KindBool:
		return item.B
	case dagcbor.KindUint:
		return item.U
	case dagcbor.KindInt:
		return item.I
	case dagcbor.KindFloat32:
		return item.F32
	case dagcbor.KindFloat64:
		return item.F64
	case dagcbor.KindText:
		return item.Text
	case dagcbor.KindBytes:
		return item.Bin
	case dagcbor.KindLink:
		return map[string]any{"/": item.Link.String()}
	case dagcbor.KindArray:
		out := make([]any, len(item.Arr))
		for i, e := range item.Arr {
			out[i] = toNative(e)
		}
		return out
	case dagcbor.KindMap:
		out := make(map[string]any, len(item.Ent))
		for _, e := range item.Ent {
			out[nativeKeyString(e.Key)] = toNative(e.Value)
		}
		return out
	default:
		return nil
	}
}

func nativeKeyString(k dagcbor.Item) string {
	if k.Kind == dagcbor.KindText {
		return k.Text
	}
	// Non-text map keys still need a JSON object key; render their own
	// dump as the key string rather than dropping the entry.
	if k.Kind == dagcbor.KindLink {
		return k.Link.String()
	}
	if k.Kind == dagcbor.KindBytes {
		return string(k.Bin)
	}
	return fmt.Sprint(toNative(k))
}

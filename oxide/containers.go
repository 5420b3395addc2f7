package oxide

import (
	"github.com/erigontech/polyepoxide/internal/dagcbor"
	"github.com/erigontech/polyepoxide/key"
)

// Seq is a homogeneous sequence oxide, wire-compatible with Structure's
// Sequence schema kind.
type Seq[T Oxide] []Ref[T]

// NewSeq builds a Seq of resolved refs around values.
func NewSeq[T Oxide](values ...T) Seq[T] {
	out := make(Seq[T], len(values))
	for i, v := range values {
		out[i] = NewRef(v)
	}
	return out
}

func (s Seq[T]) Schema() Structure {
	var zero T
	return Sequence(Bond(zero.Schema()))
}

func (s Seq[T]) Encode() ([]byte, error) {
	items := make([]dagcbor.Item, len(s))
	for i, r := range s {
		items[i] = dagcbor.LinkItem(r.Key())
	}
	return dagcbor.Marshal(dagcbor.Array(items...))
}

func (s Seq[T]) ComputeKey() key.Key { return computeKey(s) }

func (s Seq[T]) VisitRefs(visit RefVisitor) {
	for _, r := range s {
		r.VisitRefs(visit)
	}
}

func (s Seq[T]) InternRefs(sv *Solvent) Oxide {
	out := make(Seq[T], len(s))
	for i, r := range s {
		out[i] = r.internRefs(sv)
	}
	return out
}

// Opt is an optional value, encoded the same way as the Rust original's
// Option<T>: as a Sequence of zero or one elements.
type Opt[T Oxide] struct {
	Has bool
	Val Ref[T]
}

// Some builds a present Opt around value.
func Some[T Oxide](value T) Opt[T] { return Opt[T]{Has: true, Val: NewRef(value)} }

// None builds an absent Opt.
func None[T Oxide]() Opt[T] { return Opt[T]{} }

func (o Opt[T]) Schema() Structure {
	var zero T
	return Option(Bond(zero.Schema()))
}

func (o Opt[T]) Encode() ([]byte, error) {
	if !o.Has {
		return dagcbor.Marshal(dagcbor.Array())
	}
	return dagcbor.Marshal(dagcbor.Array(dagcbor.LinkItem(o.Val.Key())))
}

func (o Opt[T]) ComputeKey() key.Key { return computeKey(o) }

func (o Opt[T]) VisitRefs(visit RefVisitor) {
	if o.Has {
		o.Val.VisitRefs(visit)
	}
}

func (o Opt[T]) InternRefs(sv *Solvent) Oxide {
	if !o.Has {
		return o
	}
	return Opt[T]{Has: true, Val: o.Val.internRefs(sv)}
}

// Res is a two-variant tagged result oxide, the oxide equivalent of
// Result<T, E>: either Ok holding a T or Err holding an E.
type Res[T, E Oxide] struct {
	IsOk bool
	Ok   Ref[T]
	Err  Ref[E]
}

// Ok builds a successful Res.
func Ok[T, E Oxide](value T) Res[T, E] { return Res[T, E]{IsOk: true, Ok: NewRef(value)} }

// Err builds a failed Res.
func Err[T, E Oxide](err E) Res[T, E] { return Res[T, E]{Err: NewRef(err)} }

func (r Res[T, E]) Schema() Structure {
	var zeroT T
	var zeroE E
	return ResultSchema(Bond(zeroT.Schema()), Bond(zeroE.Schema()))
}

func (r Res[T, E]) Encode() ([]byte, error) {
	if r.IsOk {
		return dagcbor.Marshal(dagcbor.OrderedMap(dagcbor.Entry{Key: dagcbor.Text("ok"), Value: dagcbor.LinkItem(r.Ok.Key())}))
	}
	return dagcbor.Marshal(dagcbor.OrderedMap(dagcbor.Entry{Key: dagcbor.Text("err"), Value: dagcbor.LinkItem(r.Err.Key())}))
}

func (r Res[T, E]) ComputeKey() key.Key { return computeKey(r) }

func (r Res[T, E]) VisitRefs(visit RefVisitor) {
	if r.IsOk {
		r.Ok.VisitRefs(visit)
	} else {
		r.Err.VisitRefs(visit)
	}
}

func (r Res[T, E]) InternRefs(sv *Solvent) Oxide {
	if r.IsOk {
		return Res[T, E]{IsOk: true, Ok: r.Ok.internRefs(sv)}
	}
	return Res[T, E]{Err: r.Err.internRefs(sv)}
}

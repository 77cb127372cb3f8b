package edb

import (
	"iter"

	"github.com/emirpasic/gods/maps/treemap"

	"github.com/roach88/eavstore/internal/ir"
)

// Scan yields every fact matching the pattern across the federation.
//
// Included stores are visited first, depth-first in include order, then the
// local indices. Positions the signature marks free are ignored and may be
// nil; a nil bound position matches nothing. Tombstoned facts and leaves with
// zero multiplicity are never yielded. Stopping the iteration early stops
// the whole federated scan.
//
// An unsupported signature logs a warning and yields nothing from the stores
// that see it.
func (b *EDB) Scan(sig Sig, e, a, v ir.Value) iter.Seq[Fact] {
	return func(yield func(Fact) bool) {
		b.scan(sig, e, a, v, yield)
	}
}

// ScanFunc calls out once per fact Scan would yield.
func (b *EDB) ScanFunc(sig Sig, out Listener, e, a, v ir.Value) {
	b.scan(sig, e, a, v, func(f Fact) bool {
		out(f)
		return true
	})
}

// LocalScan is Scan without the includes.
func (b *EDB) LocalScan(sig Sig, e, a, v ir.Value) iter.Seq[Fact] {
	return func(yield func(Fact) bool) {
		b.scanLocal(sig, e, a, v, yield)
	}
}

func (b *EDB) scan(sig Sig, e, a, v ir.Value, yield func(Fact) bool) bool {
	for _, inc := range b.includes {
		if !inc.scan(sig, e, a, v, yield) {
			return false
		}
	}
	return b.scanLocal(sig, e, a, v, yield)
}

func (b *EDB) scanLocal(sig Sig, e, a, v ir.Value, yield func(Fact) bool) bool {
	emit := func(e, a, v ir.Value, h handle) bool {
		leaf := b.leaves.get(h)
		return yield(Fact{E: e, A: a, V: v, M: leaf.M, Provenance: leaf.Provenance})
	}

	switch sig {
	case Sigeav:
		return eachLevel(b.eav, func(e ir.Value, al *treemap.Map) bool {
			return eachLevel(al, func(a ir.Value, vl *treemap.Map) bool {
				return b.eachLive(vl, func(v ir.Value, h handle) bool {
					return emit(e, a, v, h)
				})
			})
		})

	case SigEAV:
		al, ok := levelFind(b.eav, e)
		if !ok {
			return true
		}
		vl, ok := levelFind(al, a)
		if !ok {
			return true
		}
		if h := slotFind(vl, v); h != tombstone && b.leaves.get(h).M != 0 {
			return emit(e, a, v, h)
		}
		return true

	case SigEAv:
		al, ok := levelFind(b.eav, e)
		if !ok {
			return true
		}
		vl, ok := levelFind(al, a)
		if !ok {
			return true
		}
		return b.eachLive(vl, func(v ir.Value, h handle) bool {
			return emit(e, a, v, h)
		})

	case SigEav:
		al, ok := levelFind(b.eav, e)
		if !ok {
			return true
		}
		return eachLevel(al, func(a ir.Value, vl *treemap.Map) bool {
			return b.eachLive(vl, func(v ir.Value, h handle) bool {
				return emit(e, a, v, h)
			})
		})

	case SigeAV:
		vl, ok := levelFind(b.ave, a)
		if !ok {
			return true
		}
		el, ok := levelFind(vl, v)
		if !ok {
			return true
		}
		return b.eachLive(el, func(e ir.Value, h handle) bool {
			return emit(e, a, v, h)
		})

	case SigeAv:
		vl, ok := levelFind(b.ave, a)
		if !ok {
			return true
		}
		return eachLevel(vl, func(v ir.Value, el *treemap.Map) bool {
			return b.eachLive(el, func(e ir.Value, h handle) bool {
				return emit(e, a, v, h)
			})
		})

	default:
		b.logger.Warn("unknown scan signature",
			"sig", sig.String(),
			"store", b.id.String(),
		)
		return true
	}
}

// eachLive is eachSlot restricted to leaves with nonzero multiplicity.
func (b *EDB) eachLive(terminal *treemap.Map, fn func(key ir.Value, h handle) bool) bool {
	return eachSlot(terminal, func(key ir.Value, h handle) bool {
		if b.leaves.get(h).M == 0 {
			return true
		}
		return fn(key, h)
	})
}

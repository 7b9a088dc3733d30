package cur

// instantiation.go deduplicates the generic container instantiations
// and struct/enum forward declarations the code generator emits,
// mirroring the original source's gen->generated_typedefs list (a
// linear scan checked before every CurSliceDef/CurArray1dDef/
// CurOptionDef/typedef-forward-declaration insertion, so each mangled
// name is written at most once per translation unit, per spec.md §8's
// idempotence property).
type InstantiationCache struct {
	seen map[string]bool
}

func newInstantiationCache() *InstantiationCache {
	return &InstantiationCache{seen: map[string]bool{}}
}

// tryMark reports whether key has not been seen before, marking it
// seen as a side effect. Callers use this to guard emission of a
// definition that must appear at most once.
func (c *InstantiationCache) tryMark(key string) bool {
	if c.seen[key] {
		return false
	}
	c.seen[key] = true
	return true
}

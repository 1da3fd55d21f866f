package itemspec

import "strings"

// Registry resolves item type codes to their specification singletons.
// It is built once at startup and read concurrently afterwards.
type Registry struct {
	specs    map[string]Spec
	standard Spec // LC family default
	fallback Spec // generic five-option reading item
}

// NewRegistry wires every known specification.
func NewRegistry() *Registry {
	all := []Spec{
		newRC18(), newRC19(), newRC20(), newRC21(), newRC22(), newRC23(),
		newRC24(), newRC25(), newRC26(), newRC27(), newRC28(), newRC29(),
		newRC30(), newRC31(), newRC32(), newRC33(), newRC34(), newRC35(),
		newRC36(), newRC37(), newRC38(), newRC39(), newRC40(),
		newRC4142(), newRC4345(),
		newLCStandard(), newLC06(),
	}
	r := &Registry{specs: make(map[string]Spec, len(all))}
	for _, s := range all {
		r.specs[s.ID()] = s
	}
	r.standard = r.specs["LC_STANDARD"]
	r.fallback = r.specs["RC34"]
	return r
}

// Resolve maps a caller-supplied type code to a spec. Unknown reading
// codes fall back to the generic five-option item so a request never
// fails just because the code is new.
func (r *Registry) Resolve(itemType string) Spec {
	code := ResolveTypeAlias(itemType)
	if s, ok := r.specs[code]; ok {
		return s
	}
	if strings.HasPrefix(code, "LC") {
		return r.standard
	}
	if rcSetRangeRE.MatchString(code) {
		return r.specs["RC41_42"]
	}
	return r.fallback
}

// Known reports whether the code resolves to a dedicated spec rather
// than the generic fallback.
func (r *Registry) Known(itemType string) bool {
	_, ok := r.specs[ResolveTypeAlias(itemType)]
	return ok
}

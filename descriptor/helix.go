package descriptor

import "github.com/soypat/dnacurve"

// Helix binds a helix of a design to its curve. A helix without a curve
// descriptor is straight.
type Helix struct {
	Curve *Shared

	instantiated *Instantiated
	discretized  *dnacurve.Discretized
	// discretizedFrom is the instantiation discretized was computed from.
	discretizedFrom *Instantiated
}

// NeedsDescriptorUpdate reports whether the curve descriptor of h must be
// instantiated again. A straight helix needs an update only to forget a
// previous instantiation.
func (h *Helix) NeedsDescriptorUpdate(src Source) bool {
	if h.Curve == nil {
		return h.instantiated != nil
	}
	return h.instantiated == nil || !h.instantiated.UpToDate(h.Curve, src)
}

// NeedsCurveUpdate reports whether the discretized curve of h is stale.
func (h *Helix) NeedsCurveUpdate(src Source) bool {
	return h.NeedsDescriptorUpdate(src) || h.discretizedFrom != h.instantiated
}

// Update instantiates and discretizes the curve of h if they are stale.
// cache may be nil.
func (h *Helix) Update(src Source, hp dnacurve.HelixParameters, cache *Cache) {
	if h.NeedsDescriptorUpdate(src) {
		if h.Curve == nil {
			h.instantiated = nil
		} else {
			h.instantiated = Instantiate(h.Curve, src)
		}
	}
	if h.instantiated == nil {
		h.discretized, h.discretizedFrom = nil, nil
		return
	}
	if h.discretizedFrom != h.instantiated {
		h.discretized = h.instantiated.Curve(hp, cache)
		h.discretizedFrom = h.instantiated
	}
}

// TryUpdate instantiates and discretizes the curve of h when that needs
// neither the design nor a cache. It leaves h unchanged otherwise.
func (h *Helix) TryUpdate(hp dnacurve.HelixParameters) {
	if h.Curve == nil {
		return
	}
	inst, ok := TryInstantiate(h.Curve)
	if !ok {
		return
	}
	h.instantiated = inst
	if disc, ok := inst.TryCurve(hp); ok {
		h.discretized, h.discretizedFrom = disc, inst
	}
}

// Instantiated returns the current instantiation of the curve of h, nil for
// straight helices.
func (h *Helix) Instantiated() *Instantiated { return h.instantiated }

// Discretized returns the current discretized curve of h, nil for straight
// helices or before the first update.
func (h *Helix) Discretized() *dnacurve.Discretized { return h.discretized }

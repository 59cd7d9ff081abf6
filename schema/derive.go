package schema

import "strings"

// TypeBase returns the last segment of a payload-type reference, so that a
// path-qualified reference like "core::messaging::Standard" derives the same
// endpoint names as a bare "Standard".
func TypeBase(ref string) string {
	if i := strings.LastIndex(ref, "::"); i >= 0 {
		return ref[i+2:]
	}
	return ref
}

// DeriveEndpoints builds the conventional endpoint pair for every
// single-payload variant in the message set: a "<type>_handle" handle and a
// "<type>_rx" receiver, both bound to the variant's payload type. Variants
// with zero or multiple payloads derive nothing. The result is in variant
// declaration order.
func DeriveEndpoints(ms *MessageSet) ([]Handle, []Receiver) {
	var handles []Handle
	var receivers []Receiver
	for i := range ms.Variants {
		payload, ok := ms.Variants[i].SolePayload()
		if !ok {
			continue
		}
		base := strings.ToLower(TypeBase(payload))
		handles = append(handles, Handle{Ident: base + "_handle", Payload: payload})
		receivers = append(receivers, Receiver{Ident: base + "_rx", Payload: payload})
	}
	return handles, receivers
}

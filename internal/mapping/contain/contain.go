// Package contain manages contained sub-resources: attaching a child to a
// parent under a synthetic local id, and resolving "#id" references back.
package contain

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ehr/hvfhir/internal/platform/fhir"
)

// IDFunc generates the unique part of a contained resource id.
type IDFunc func() string

// UUID is the default IDFunc.
func UUID() string { return uuid.NewString() }

// Attach assigns child an id of the form "<lowercase type>-<generated>",
// appends it to parent's contained list and returns a local reference to it.
// A nil newID uses UUID.
func Attach(parent, child fhir.Resource, newID IDFunc) fhir.Reference {
	if newID == nil {
		newID = UUID
	}
	d := parent.Domain()
	for _, c := range d.Contained {
		if c == child {
			return fhir.Reference{Reference: "#" + child.GetID()}
		}
	}
	id := strings.ToLower(child.GetResourceType()) + "-" + newID()
	child.SetID(id)
	d.Contained = append(d.Contained, child)
	return fhir.Reference{Reference: "#" + id}
}

// Find returns the contained resource a local reference points to, or nil.
func Find(parent fhir.Resource, ref *fhir.Reference) fhir.Resource {
	if parent == nil || ref == nil || !strings.HasPrefix(ref.Reference, "#") {
		return nil
	}
	id := strings.TrimPrefix(ref.Reference, "#")
	for _, c := range parent.Domain().Contained {
		if c.GetID() == id {
			return c
		}
	}
	return nil
}

// Resolve returns the contained resource ref points to when it has type T. If
// ref is not a resolvable local reference but carries a display string, the
// placeholder built from that display is returned instead. Otherwise the zero
// value and false are returned.
func Resolve[T fhir.Resource](parent fhir.Resource, ref *fhir.Reference, placeholder func(display string) T) (T, bool) {
	var zero T
	if ref == nil {
		return zero, false
	}
	if r, ok := Find(parent, ref).(T); ok {
		return r, true
	}
	if ref.Display != "" && placeholder != nil {
		return placeholder(ref.Display), true
	}
	return zero, false
}

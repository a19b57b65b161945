package data

// View is a non-owning projection over a Data, passed to synopsis probes so
// a lookup never has to copy the value it is testing against. Its lifetime
// is scoped to the call that created it.
type View struct {
	data *Data
}

// NewView returns a View over d. The caller must keep d alive for the
// lifetime of the View.
func NewView(d *Data) View { return View{data: d} }

// Get returns the Data the view projects, by value: a shallow copy whose
// list and map contents share storage with the backing Data. It does not
// allocate.
func (v View) Get() Data {
	if v.data == nil {
		return None()
	}
	return *v.data
}

// ViewOf is a convenience that takes a Data by value and returns a View
// over a freshly-boxed copy. Use NewView instead when the caller already
// owns addressable storage for the Data.
func ViewOf(d Data) View {
	return View{data: &d}
}

package tree

// Disposable is a release-once handle for a live subscription or
// registration. Dispose must tolerate being called on an already-released
// resource.
type Disposable interface {
	Dispose()
}

// DisposeFunc adapts a plain function to the Disposable interface.
type DisposeFunc func()

func (f DisposeFunc) Dispose() { f() }

func disposeAll(ds []Disposable) {
	for _, d := range ds {
		if d != nil {
			d.Dispose()
		}
	}
}

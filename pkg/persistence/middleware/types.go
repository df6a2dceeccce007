package middleware

import "github.com/aretw0/triplet/pkg/ports"

// Middleware allows wrapping an AnnotationStore to add behavior.
type Middleware func(ports.AnnotationStore) ports.AnnotationStore

// Chain wraps store so that the first middleware is the outermost.
func Chain(store ports.AnnotationStore, mws ...Middleware) ports.AnnotationStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}

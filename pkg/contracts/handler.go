package contracts

import "github.com/julienschmidt/httprouter"

// Handler registers its routes on the application router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// Stopper is a background worker stopped during graceful shutdown.
type Stopper interface {
	Stop()
}

// StopFunc adapts a plain function to Stopper.
type StopFunc func()

func (f StopFunc) Stop() { f() }

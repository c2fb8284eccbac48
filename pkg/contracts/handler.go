package contracts

import "github.com/julienschmidt/httprouter"

// Handler is a set of routes mounted on the application router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

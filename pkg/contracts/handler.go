package contracts

import "github.com/julienschmidt/httprouter"

// Handler registers its routes on the service router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

package contracts

import "github.com/julienschmidt/httprouter"

type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

type compositeHandler struct {
	handlers []Handler
}

// Compose bundles several handlers into one so a service can mount all
// of its endpoints through a single registration point.
func Compose(handlers ...Handler) Handler {
	return &compositeHandler{handlers: handlers}
}

func (c *compositeHandler) RegisterRoutes(router *httprouter.Router) {
	for _, h := range c.handlers {
		h.RegisterRoutes(router)
	}
}

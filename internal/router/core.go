package router

import (
	"net/http"

	"go.uber.org/fx"

	"github.com/go-chi/chi/v5"
)

// Handler owns one or more routes on the shared mux.
type Handler interface {
	RegisterRoute(r *chi.Mux)
	Handle(w http.ResponseWriter, r *http.Request)
}

func AsRoute(constructor any) any {
	return fx.Annotate(
		constructor,
		fx.As(new(Handler)),
		fx.ResultTags(`group:"handlers"`),
	)
}

// Routes provides every constructor into the handlers group.
func Routes(constructors ...any) fx.Option {
	annotated := make([]any, 0, len(constructors))
	for _, c := range constructors {
		annotated = append(annotated, AsRoute(c))
	}
	return fx.Provide(annotated...)
}

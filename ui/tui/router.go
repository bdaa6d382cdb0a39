package tui

import (
	"go.uber.org/zap"

	"menucatalog/ui/tui/components"
	"menucatalog/ui/tui/state"
)

// Router maps route paths to pages and remembers where a login started.
type Router struct {
	page     state.Page
	returnTo string
	log      *zap.Logger
}

func NewRouter(log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{page: state.PageMenu, log: log.Named("router")}
}

// Navigate implements components.Navigator. Unknown paths are ignored.
func (r *Router) Navigate(path string, st components.NavState) {
	page, ok := state.PageForPath(path)
	if !ok {
		r.log.Warn("unknown route", zap.String("path", path))
		return
	}
	if page == state.PageLogin {
		r.returnTo = st.From
	}
	r.log.Debug("navigate", zap.String("path", path), zap.String("from", st.From))
	r.page = page
}

func (r *Router) Page() state.Page { return r.page }

// ReturnPath is where a successful login goes back to.
func (r *Router) ReturnPath() string {
	if r.returnTo == "" || r.returnTo == state.PathLogin {
		return state.PathMenu
	}
	return r.returnTo
}

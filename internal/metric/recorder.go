package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives menu and cart events.
type Recorder interface {
	Search()
	CategoryFilter(category string)
	CartAddition(category string)
	LoginRedirect()
	CatalogLoad(result string)
}

// Catalog load results.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// PromRecorder counts events in a Prometheus registry.
type PromRecorder struct {
	searches       IncrementalCounter
	filters        IncrementalCounter
	cartAdditions  IncrementalCounter
	loginRedirects IncrementalCounter
	catalogLoads   IncrementalCounter
}

// NewPromRecorder registers the menucatalog counters with reg.
func NewPromRecorder(reg prometheus.Registerer) *PromRecorder {
	return &PromRecorder{
		searches:       NewCounterWithRegistry(reg, "menucatalog_searches_total", "Search queries applied to the menu."),
		filters:        NewCounterWithRegistry(reg, "menucatalog_category_filters_total", "Category filters applied to the menu.", "category"),
		cartAdditions:  NewCounterWithRegistry(reg, "menucatalog_cart_additions_total", "Items added to a cart.", "category"),
		loginRedirects: NewCounterWithRegistry(reg, "menucatalog_login_redirects_total", "Add-to-cart attempts redirected to login."),
		catalogLoads:   NewCounterWithRegistry(reg, "menucatalog_catalog_loads_total", "Catalog loads by result.", "result"),
	}
}

func (r *PromRecorder) Search()                        { r.searches.Increment() }
func (r *PromRecorder) CategoryFilter(category string) { r.filters.Increment(category) }
func (r *PromRecorder) CartAddition(category string)   { r.cartAdditions.Increment(category) }
func (r *PromRecorder) LoginRedirect()                 { r.loginRedirects.Increment() }
func (r *PromRecorder) CatalogLoad(result string)      { r.catalogLoads.Increment(result) }

// Nop discards every event.
type Nop struct{}

func (Nop) Search()               {}
func (Nop) CategoryFilter(string) {}
func (Nop) CartAddition(string)   {}
func (Nop) LoginRedirect()        {}
func (Nop) CatalogLoad(string)    {}

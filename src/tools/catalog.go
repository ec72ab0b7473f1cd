package tools

import (
	concierge "github.com/goodfoods/concierge"
	"github.com/goodfoods/concierge/src/booking"
	"github.com/goodfoods/concierge/src/recommend"
	"github.com/goodfoods/concierge/src/store"
)

// NewCatalog registers the complete reservation tool set. The set is fixed;
// nothing registers tools after startup.
func NewCatalog(s store.Store, engine *booking.Engine, ranker *recommend.Ranker) (*concierge.StaticToolCatalog, error) {
	return concierge.NewStaticToolCatalog([]concierge.Tool{
		NewSearchTool(s),
		NewRecommendTool(ranker),
		NewAvailabilityTool(engine),
		NewCreateReservationTool(engine, s),
		NewModifyReservationTool(engine),
		NewCancelReservationTool(engine),
		NewLookupByPhoneTool(s),
	})
}

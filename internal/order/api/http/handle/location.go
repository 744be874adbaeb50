package handle

import (
	"net/http"
	"strconv"

	"dely-backend/internal/location"
	"dely-backend/internal/order/app/core"
	"dely-backend/pkg/logger"
)

type LocationHandler struct {
	locationService *location.Service
	mylog           logger.Logger
}

func NewLocationHandler(locationService *location.Service, mylog logger.Logger) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
		mylog:           mylog,
	}
}

// List returns a shop's locations with each one's open state resolved.
func (lh *LocationHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopID, err := strconv.ParseInt(r.URL.Query().Get("shopId"), 10, 64)
		if err != nil {
			jsonFailed(w, http.StatusOK, []core.FieldError{
				{Value: r.URL.Query().Get("shopId"), Param: "shopId", Msg: core.MsgInvalidValue},
			})
			return
		}

		locations, err := lh.locationService.ListWithOpenState(r.Context(), shopID)
		if err != nil {
			jsonError(w, err)
			return
		}
		jsonSuccess(w, locations)
	}
}

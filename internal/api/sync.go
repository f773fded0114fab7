package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SergeyKozhin/shared-calendar/internal/business/events"
	"github.com/SergeyKozhin/shared-calendar/internal/pkg/validator"
)

func (a *Api) syncHandler(w http.ResponseWriter, r *http.Request) {
	if a.connect == nil {
		a.serviceUnavailableResponse(w, r, "remote calendar sync is not configured")
		return
	}

	req := &struct {
		AuthCode string `json:"auth_code"`
	}{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(req.AuthCode != "", "auth_code", "auth_code must be provided")
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	imported, err := a.eventsService.Sync(r.Context(), func(ctx context.Context) (events.RemoteCalendar, error) {
		return a.connect(ctx, req.AuthCode)
	})
	if err != nil {
		a.badGatewayResponse(w, r, fmt.Errorf("sync: %w", err))
		return
	}

	if err := a.writeJSON(w, http.StatusOK, map[string]int{"imported": imported}, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

package server

import (
	"context"
	"fmt"
	"net/http"

	"sky_mods/internal/domain/entity"
	"sky_mods/internal/domain/value"
	"sky_mods/pkg/httpx/reply"
	"sky_mods/pkg/httpx/req"
	"sky_mods/pkg/rest"
)

type settingsService interface {
	Get(context.Context, value.AccountID) (entity.Settings, error)
	Put(context.Context, value.AccountID, entity.Settings) error
}

type SettingsServer struct {
	settingsService settingsService
}

func NewSettingsServer(settingsService settingsService) SettingsServer {
	return SettingsServer{
		settingsService: settingsService,
	}
}

func (s SettingsServer) getV1Settings(w http.ResponseWriter, r *http.Request) error {
	id, err := parseAccountID(r.PathValue("accountId"))
	if err != nil {
		return err
	}

	ctx := withAccount(r.Context(), id)

	settings, err := s.settingsService.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("settingsService.Get: %w", domainError(err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSettings(settings))

	return nil
}

func (s SettingsServer) putV1Settings(w http.ResponseWriter, r *http.Request) error {
	id, err := parseAccountID(r.PathValue("accountId"))
	if err != nil {
		return err
	}

	ctx := withAccount(r.Context(), id)

	var request rest.Settings

	if err = req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	settings, err := newDomainSettings(request)
	if err != nil {
		return err
	}

	if err = s.settingsService.Put(ctx, id, settings); err != nil {
		return fmt.Errorf("settingsService.Put: %w", domainError(err))
	}

	reply.OK(w)

	return nil
}

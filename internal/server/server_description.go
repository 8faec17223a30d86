package server

import (
	"context"
	"fmt"
	"net/http"

	"sky_mods/internal/domain/service/description"
	"sky_mods/pkg/httpx/reply"
	"sky_mods/pkg/httpx/req"
	"sky_mods/pkg/rest"
)

type descriptionService interface {
	Describe(context.Context, description.Request) (*description.Description, error)
}

type DescriptionServer struct {
	descriptionService descriptionService
}

func NewDescriptionServer(descriptionService descriptionService) DescriptionServer {
	return DescriptionServer{
		descriptionService: descriptionService,
	}
}

func (s DescriptionServer) describe(r *http.Request) (context.Context, *description.Description, error) {
	ctx := r.Context()

	var request rest.DescriptionRequest

	if err := req.Read(r, &request); err != nil {
		return ctx, nil, fmt.Errorf("req.Read: %w", err)
	}

	in, err := newDomainRequest(request)
	if err != nil {
		return ctx, nil, fmt.Errorf("newDomainRequest: %w", err)
	}

	if in.AccountID != "" {
		ctx = withAccount(ctx, in.AccountID)
	}

	d, err := s.descriptionService.Describe(ctx, in)
	if err != nil {
		return ctx, nil, fmt.Errorf("descriptionService.Describe: %w", domainError(err))
	}

	return ctx, d, nil
}

func (s DescriptionServer) postV1Description(w http.ResponseWriter, r *http.Request) error {
	ctx, d, err := s.describe(r)
	if err != nil {
		return err
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDescription(d))

	return nil
}

func (s DescriptionServer) postV1DescriptionRendered(w http.ResponseWriter, r *http.Request) error {
	ctx, d, err := s.describe(r)
	if err != nil {
		return err
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTRendered(d))

	return nil
}

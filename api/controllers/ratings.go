package controllers

import (
	"net/http"

	"github.com/photoshare/backend/api/responses"
	"github.com/photoshare/backend/api/validators"
	"github.com/photoshare/backend/internal/ratings"
	pkgerrors "github.com/photoshare/backend/pkg/errors"
	"github.com/photoshare/backend/pkg/logger"
)

// RatingsCreate records the caller's one-time rating for a photo and returns
// the refreshed aggregate.
func RatingsCreate(svc ratings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ratings service unavailable"))
			return
		}

		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		photoID, err := uuidURLParam(r, "photoId", "photo id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body ratings.CreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Rate(r.Context(), actor, photoID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

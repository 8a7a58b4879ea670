package controllers

import (
	"net/http"

	"github.com/luxurydrive/backoffice/api/responses"
	"github.com/luxurydrive/backoffice/pkg/config"
	"github.com/luxurydrive/backoffice/pkg/db"
	pkgerrors "github.com/luxurydrive/backoffice/pkg/errors"
	"github.com/luxurydrive/backoffice/pkg/logger"
	"github.com/luxurydrive/backoffice/pkg/storage/cloudinary"
)

const envHeader = "X-LuxDrive-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness: the database must answer, and the media host
// must answer when one is configured.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, media cloudinary.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		ctx := r.Context()

		checks := map[string]string{}

		if dbP == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database not configured"))
			return
		}
		if err := dbP.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}
		checks["database"] = "ok"

		if media != nil {
			if err := media.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "media host unreachable"))
				return
			}
			checks["media_host"] = "ok"
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}

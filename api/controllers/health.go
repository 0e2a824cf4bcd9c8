package controllers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/arielsonkoue/mboashop-backend/api/responses"
	"github.com/arielsonkoue/mboashop-backend/pkg/config"
	"github.com/arielsonkoue/mboashop-backend/pkg/db"
	pkgerrors "github.com/arielsonkoue/mboashop-backend/pkg/errors"
	"github.com/arielsonkoue/mboashop-backend/pkg/logger"
	"github.com/arielsonkoue/mboashop-backend/pkg/redis"
)

const readinessTimeout = 5 * time.Second

// pubsubPinger is satisfied by the Pub/Sub client; it may be nil when the
// publisher runs in a separate process.
type pubsubPinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Mboashop-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, pubsubP pubsubPinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Mboashop-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var errs error
		checks := map[string]string{}
		check := func(name string, ping func(context.Context) error) {
			if err := ping(ctx); err != nil {
				checks[name] = "down"
				errs = multierr.Append(errs, err)
				return
			}
			checks[name] = "up"
		}

		if dbP != nil {
			check("db", dbP.Ping)
		} else {
			checks["db"] = "skipped"
		}
		if redisP != nil {
			check("redis", redisP.Ping)
		} else {
			checks["redis"] = "skipped"
		}
		if pubsubP != nil {
			check("pubsub", pubsubP.Ping)
		} else {
			checks["pubsub"] = "skipped"
		}

		if errs != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "dependencies unavailable").
					WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}

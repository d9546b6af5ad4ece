package server

import (
	"context"
	"net/http"
	"time"

	"github.com/hellofresh/health-go/v5"
	"go.uber.org/zap"

	"github.com/hunt-ops/hunt-manager/global"
	"github.com/hunt-ops/hunt-manager/pkg/store"
)

// pinger is implemented by record stores that can probe their backend.
type pinger interface {
	Ping(ctx context.Context) error
}

func healthcheck(ctx context.Context, s store.Store) http.Handler {
	opts := []health.Option{
		health.WithComponent(health.Component{
			Name:    "hunt-manager",
			Version: global.Version,
		}),
		health.WithSystemInfo(),
	}
	h, err := health.New(opts...)
	if err != nil {
		panic(err)
	}

	if p, ok := s.(pinger); ok {
		_ = h.Register(health.Config{
			Name:    "sqlite",
			Timeout: time.Second,
			Check:   p.Ping,
		})
	}

	if global.Conf.Etcd.Endpoint != "" {
		global.Log().Info(ctx, "registering healthcheck config",
			zap.String("service", "etcd"),
		)
		_ = h.Register(health.Config{
			Name:      "etcd",
			Timeout:   time.Second,
			Check:     global.GetEtcdManager().Healthcheck,
			SkipOnErr: true,
		})
	}

	return h.Handler()
}

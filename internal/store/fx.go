package store

import (
	"github.com/smallbiznis/taxengine/internal/store/service"
	"go.uber.org/fx"
)

var Module = fx.Module("store.service",
	fx.Provide(service.NewService),
)

package taxjournal

import (
	"github.com/smallbiznis/taxengine/internal/taxjournal/repository"
	"github.com/smallbiznis/taxengine/internal/taxjournal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("taxjournal.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)

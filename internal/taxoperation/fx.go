package taxoperation

import (
	"github.com/smallbiznis/taxengine/internal/taxoperation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("taxoperation.service",
	fx.Provide(service.NewTaxOperationService),
	fx.Provide(service.NewReturnTaxOperationService),
)

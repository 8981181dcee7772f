package fx

import (
	"peasydeal-link-converter/internal/app/health"
	"peasydeal-link-converter/internal/router"
)

var Module = router.Routes(health.NewHandler)

package ui

import (
	"go.uber.org/zap"

	"github.com/saravenpi/parley/internal/api"
	"github.com/saravenpi/parley/internal/session"
)

// App bundles the dependencies every view needs. Views hand it to the next
// view's constructor when switching screens.
type App struct {
	Client  *api.Client
	Session *session.Store
	Logger  *zap.SugaredLogger
}

package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/tcroft/mcdm/pkg/core/methods"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Registry *methods.Registry
	Logger   *zap.Logger
	Ctx      context.Context
}

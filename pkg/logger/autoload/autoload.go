// Package autoload initializes the global logger from LOG_* environment
// variables when imported for side effect.
package autoload

import (
	configx "github.com/alessalabs/medassist/pkg/config"
	logx "github.com/alessalabs/medassist/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}

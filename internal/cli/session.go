package cli

import (
	"io"
	"time"

	"github.com/agentx-labs/frictionless/internal/config"
	"github.com/agentx-labs/frictionless/internal/friction"
	"github.com/agentx-labs/frictionless/internal/logging"
	"github.com/agentx-labs/frictionless/internal/runner"
	"github.com/sirupsen/logrus"
)

// newRunner builds the process runner used by the package manager backends.
// Tests replace it to avoid invoking real package managers.
var newRunner = func(timeout time.Duration) runner.Runner {
	return &runner.ExecRunner{Timeout: timeout}
}

// session bundles what a command needs to talk to the engine.
type session struct {
	engine   *friction.Engine
	log      *logrus.Logger
	settings config.Settings
	closer   io.Closer
}

func (s *session) Close() error {
	return s.closer.Close()
}

// openSession loads settings, builds the logger and creates the engine for
// the project selected with --root.
func openSession() (*session, error) {
	settings := config.Current()
	logger, closer := logging.New(settings.Log)

	engine, err := friction.New(friction.Config{
		Root:           flagRoot,
		PackageManager: settings.PackageManager,
		Runner:         newRunner(settings.InstallTimeout),
		InstallTimeout: settings.InstallTimeout,
		HistoryLimit:   settings.HistoryLimit,
		Logger:         logger,
	})
	if err != nil {
		closer.Close()
		return nil, err
	}

	return &session{
		engine:   engine,
		log:      logger,
		settings: settings,
		closer:   closer,
	}, nil
}

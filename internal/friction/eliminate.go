package friction

import (
	"context"
	"time"

	"github.com/agentx-labs/frictionless/internal/pkgmgr"
	"github.com/sirupsen/logrus"
)

// Eliminate tries to fix a friction point and reports whether it is gone.
// Attempted is set before any work so a failure stays observable. Every call
// records exactly one outcome and never panics.
//
// A point must not be eliminated concurrently with itself. Distinct points
// for the same package may race into a duplicate, idempotent install.
func (e *Engine) Eliminate(ctx context.Context, p *Point) (ok bool) {
	if p == nil {
		return false
	}
	p.Attempted = true
	p.finished = false

	log := e.log.WithFields(logrus.Fields{
		"dependency":      p.DependencyName,
		"dependency_type": p.DependencyType,
		"package_manager": p.PackageManager,
	})

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("elimination aborted")
			ok = false
		}
		p.Eliminated = ok
		p.finished = true
		e.record(p, ok)
	}()

	if e.backend == nil {
		log.Warn("no package manager available")
		return false
	}

	// Version conflicts and undeclared packages are installed by definition;
	// they need the reinstall.
	if p.DependencyType != VersionConflict && !p.undeclared && e.backend.CheckInstalled(p.DependencyName) {
		log.Info("dependency already installed")
		return true
	}

	if !p.AutoInstallable {
		log.Info("manual fix required")
		return false
	}

	res := e.backend.Install(ctx, p.DependencyName, pkgmgr.InstallOptions{
		Version: p.RequiredVersion,
		Dev:     p.Dev(),
		Peer:    p.DependencyType == PeerDependency,
	})
	p.LastInstall = &res
	if !res.Success {
		log.WithField("error", res.Error).Warn("install failed")
		return false
	}
	log.WithField("duration", res.Duration).Info("dependency installed")
	return true
}

// EliminateAll eliminates points in order and returns how many are gone.
// It stops early if ctx is done.
func (e *Engine) EliminateAll(ctx context.Context, points []*Point) int {
	n := 0
	for _, p := range points {
		if ctx.Err() != nil {
			break
		}
		if e.Eliminate(ctx, p) {
			n++
		}
	}
	return n
}

func (e *Engine) record(p *Point, eliminated bool) {
	e.history.add(Record{
		PointID:         p.ID,
		DependencyName:  p.DependencyName,
		DependencyType:  p.DependencyType,
		PackageManager:  p.PackageManager,
		AutoInstallable: p.AutoInstallable,
		Eliminated:      eliminated,
		At:              time.Now(),
	})
}

// Stats aggregates the retained history. It is recomputed on every call.
func (e *Engine) Stats() Stats {
	return aggregate(e.history.records(), e.backendName())
}

// History returns the retained outcomes, oldest first.
func (e *Engine) History() []Record {
	return e.history.records()
}

// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"
)

// DBChecker pings the catalog database.
type DBChecker struct {
	db *sql.DB
}

func NewDBChecker(db *sql.DB) *DBChecker {
	return &DBChecker{db: db}
}

func (c *DBChecker) Name() string { return "database" }

func (c *DBChecker) Check(ctx context.Context) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.db.PingContext(ctx); err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy, Message: "database reachable"}
}

// Pinger is anything with a context-aware ping, like the Redis cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingChecker probes an optional backend. Failures degrade rather than
// fail readiness: the service keeps working without its cache.
type PingChecker struct {
	name   string
	target Pinger
}

func NewPingChecker(name string, target Pinger) *PingChecker {
	return &PingChecker{name: name, target: target}
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Check(ctx context.Context) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.target.Ping(ctx); err != nil {
		return CheckResult{Status: StatusDegraded, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy}
}

// DirChecker verifies a writable directory exists, used for the media tree.
type DirChecker struct {
	name string
	path string
}

func NewDirChecker(name, path string) *DirChecker {
	return &DirChecker{name: name, path: path}
}

func (c *DirChecker) Name() string { return c.name }

func (c *DirChecker) Check(_ context.Context) CheckResult {
	if c.path == "" {
		return CheckResult{Status: StatusHealthy, Message: "not configured (optional)"}
	}
	info, err := os.Stat(c.path)
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	if !info.IsDir() {
		return CheckResult{Status: StatusUnhealthy, Error: fmt.Sprintf("%s is not a directory", c.path)}
	}
	return CheckResult{Status: StatusHealthy, Message: "directory present"}
}

package domain

import (
	"time"
)

// HealthChecker reports whether the refresh loop is alive.
type HealthChecker interface {
	IsHealthy() bool
}

type CycleStatus string

const (
	CycleSuccess      CycleStatus = "success"
	CycleSolverError  CycleStatus = "solver_error"
	CycleEmptyCookie  CycleStatus = "empty_cookie"
	CyclePublishError CycleStatus = "publish_error"
)

type Cycle struct {
	ID        string
	Status    CycleStatus
	Cookie    string
	Error     error
	TimeStamp time.Time
}

type CycleResult struct {
	Cycle     Cycle
	Duration  time.Duration
	Completed time.Time
}

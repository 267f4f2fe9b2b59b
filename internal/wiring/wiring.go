// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/kern/internal/adapters/cas"
	_ "go.trai.ch/kern/internal/adapters/config"
	_ "go.trai.ch/kern/internal/adapters/logger"
	_ "go.trai.ch/kern/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/kern/internal/app"
	_ "go.trai.ch/kern/internal/engine/constraint"
	_ "go.trai.ch/kern/internal/engine/scheduler"
)

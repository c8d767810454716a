// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

/*
Package supervisor runs the content proxy's long-lived services under a
suture v4 tree.

	RootSupervisor ("dailycard")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── JanitorService
	├── EventsSupervisor ("events-layer")
	│   └── pick event recorder (if EVENTS_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Each layer counts failures on its own. A service that returns an error is
restarted; after FailureThreshold failures (decaying over FailureDecay
seconds) its layer waits FailureBackoff before the next restart. Returning
nil stops the service for good. Supervisor events are logged through
sutureslog with the logger passed to NewSupervisorTree.

# Usage

	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMaintenanceService(services.NewJanitorService(time.Minute, tasks...))
	tree.AddEventService(recorder)
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))

	return tree.Serve(ctx)

The catalog, the selection engine and the history store are plain values
shared by handlers and are not supervised. The history store is closed by
the caller after Serve returns.
*/
package supervisor

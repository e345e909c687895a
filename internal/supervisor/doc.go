// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

/*
Package supervisor runs the long-lived CineCache services under a suture v4
supervisor tree.

The tree has two layers so a failure in one does not restart the other:

	RootSupervisor ("cinecache")
	├── DataSupervisor ("data-layer")
	│   ├── enrich.Pool       (background enrichment workers)
	│   └── wal.Replayer      (if JOURNAL_ENABLED)
	└── APISupervisor ("api-layer")
	    └── services.HTTPServerService

Supervisor events are logged through sutureslog, which writes to the zerolog
logger via logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfigFromConfig(&cfg.Supervisor))
	tree.AddDataService(orch.Pool())
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	err = tree.Serve(ctx)
*/
package supervisor

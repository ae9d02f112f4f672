// Package bootstrap runs seqkit binaries through a uniform lifecycle.
//
// NewApp applies config defaults, validates the config and sets up the
// logger. Run serves until a signal or context cancellation; RunTask runs a
// finite task. Both execute OnStart and OnReady hooks on the way up and
// OnStop hooks, bounded by the graceful timeout, on the way down.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.OnStart(srv.Start)
//	app.OnStop(srv.Stop)
//	err = app.Run(ctx)
package bootstrap

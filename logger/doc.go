// Package logger provides structured logging for seqkit using zerolog.
//
// Loggers carry a service name and optional component, session, and
// request fields. Output is JSON by default or a console rendering for
// terminals.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "seqeval").WithComponent("plan")
//	log.Info("plan compiled", logger.Fields("stages", 3))
package logger

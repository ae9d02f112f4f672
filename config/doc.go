// Package config loads seqkit binary configuration.
//
// Values come from a YAML file, then a .env file, then the process
// environment. Environment variables carry a service prefix and map onto
// nested keys with underscores, so SEQEVAL_SERVER_PORT sets server.port.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("seqeval", &cfg, config.WithConfigFile(path))
package config

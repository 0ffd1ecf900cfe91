// Package config loads runtime configuration for linkctl.
//
// Sources, later ones winning: built-in defaults, an optional JSON file
// selected with -c or -config, then the -a, -f and -t flags.
//
//	{
//	  "server_url": "https://links.example.com",
//	  "session_file": "/home/ann/.linkctl.db",
//	  "request_timeout": "5s"
//	}
package config

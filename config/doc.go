// Package config loads herosearch configuration using Viper, with support for
// YAML, JSON and TOML files and HEROSEARCH_* environment overrides.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfig("")               // search standard locations
//	cfg, err := config.LoadConfig("./config.yaml")  // explicit file
//
// Without a path the file named config.{yaml,json,toml} is looked up in
// /etc/herosearch, $HOME/.herosearch, the working directory and the
// directory of the executable. A missing file is not an error; defaults and
// environment variables apply.
//
// # Configuration Format
//
//	app_name: herosearch
//	search:
//	  engine: elasticsearch   # elasticsearch | opensearch | meilisearch
//	  scheme: http
//	  host: localhost
//	  port: 9200
//	  entities:
//	    - type: post
//	      index: posts
//	      searchable_fields: [title, body]
//	logger:
//	  level: 4
//	  format: json
//	  output: stderr
//	metrics:
//	  enabled: true
//	  textfile: /var/lib/node_exporter/herosearch.prom
//	observes:
//	  tracer:
//	    endpoint: localhost:4317
//
// # Environment Variables
//
// Every key can be overridden from the environment, with dots replaced by
// underscores: HEROSEARCH_SEARCH_HOST=es.internal.
package config

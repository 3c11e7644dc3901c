package main

import (
	"flag"
	"log"

	"github.com/checkmarble/marble-enrichment/cmd"
)

// Injected at build time with -ldflags "-X main.apiVersion=..."
var apiVersion = "dev"

func main() {
	shouldRunMigrations := flag.Bool("migrations", false, "Run the shared cache backend migrations")
	shouldRunServer := flag.Bool("server", false, "Run an enrichment server instance")
	shouldRunCacheBackend := flag.Bool("cache-backend", false, "Run the shared cache backend")
	shouldCreateApiKey := flag.Bool("create-api-key", false, "Create an api key for an organization and print it")
	shouldClearLocalCache := flag.Bool("clear-local-cache", false,
		"Remove every entry of the configured local cache store, for all organizations")
	organizationId := flag.String("org-id", "", "Organization of the api key to create")
	description := flag.String("description", "", "Description of the api key to create")
	flag.Parse()

	compiledConfig := cmd.CompiledConfig{Version: apiVersion}

	if *shouldRunMigrations {
		if err := cmd.RunMigrations(); err != nil {
			log.Fatal(err)
		}
	}

	if *shouldCreateApiKey {
		if err := cmd.CreateApiKey(*organizationId, *description); err != nil {
			log.Fatal(err)
		}
	}

	if *shouldClearLocalCache {
		if err := cmd.ClearLocalCache(); err != nil {
			log.Fatal(err)
		}
	}

	switch {
	case *shouldRunServer && *shouldRunCacheBackend:
		log.Fatal("-server and -cache-backend cannot run in the same process")
	case *shouldRunServer:
		if err := cmd.RunServer(compiledConfig); err != nil {
			log.Fatal(err)
		}
	case *shouldRunCacheBackend:
		if err := cmd.RunCacheBackend(compiledConfig); err != nil {
			log.Fatal(err)
		}
	}
}

/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package main is the entry point for starting the Flowstack server.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/joho/godotenv"

	"github.com/asgardeo/flowstack/internal/system/config"
	"github.com/asgardeo/flowstack/internal/system/database/provider"
	"github.com/asgardeo/flowstack/internal/system/database/seeder"
	"github.com/asgardeo/flowstack/internal/system/log"
	"github.com/asgardeo/flowstack/internal/system/managers"
)

func main() {
	logger := log.GetLogger()

	flowstackHome := getFlowstackHome(logger)

	cfg := initFlowstackConfigurations(logger, flowstackHome)
	if cfg == nil {
		logger.Fatal("Failed to initialize configurations")
	}

	mux := initMultiplexer(logger)
	if mux == nil {
		logger.Fatal("Failed to initialize multiplexer")
	}

	if cfg.Server.HTTPOnly {
		logger.Info("TLS is not enabled, starting server without TLS")
		startHTTPServer(logger, cfg, mux)
	} else {
		startTLSServer(logger, cfg, mux, flowstackHome)
	}
}

// getFlowstackHome retrieves and returns the Flowstack home directory.
func getFlowstackHome(logger *log.Logger) string {
	// Parse project directory from command line arguments.
	projectHome := ""
	projectHomeFlag := flag.String("flowstackHome", "", "Path to Flowstack home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		logger.Info("Using flowstackHome from command line argument",
			log.String("flowstackHome", *projectHomeFlag))
		projectHome = *projectHomeFlag
	} else {
		// If no command line argument is provided, use the current working directory.
		dir, dirErr := os.Getwd()
		if dirErr != nil {
			logger.Fatal("Failed to get current working directory", log.Error(dirErr))
		}
		projectHome = dir
	}

	return projectHome
}

// initFlowstackConfigurations initializes the Flowstack configurations.
func initFlowstackConfigurations(logger *log.Logger, flowstackHome string) *config.Config {
	// Load provider credentials from a .env file when one exists.
	if err := godotenv.Load(path.Join(flowstackHome, ".env")); err != nil {
		logger.Debug("No .env file loaded", log.Error(err))
	}

	// Load the configurations.
	configFilePath := path.Join(flowstackHome, "repository/conf/deployment.yaml")
	cfg, err := config.LoadConfig(configFilePath)
	if err != nil {
		logger.Fatal("Failed to load configurations", log.Error(err))
	}

	// Initialize runtime configurations.
	if err := config.InitializeFlowstackRuntime(flowstackHome, cfg); err != nil {
		logger.Fatal("Failed to initialize flowstack runtime", log.Error(err))
	}

	// Ensure the runtime database schema exists.
	initRuntimeSchema(logger)

	return cfg
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer(logger *log.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux)

	// Register the services.
	err := serviceManager.RegisterServices()
	if err != nil {
		logger.Fatal("Failed to register the services", log.Error(err))
	}

	return mux
}

// initRuntimeSchema creates the runtime database tables when missing.
func initRuntimeSchema(logger *log.Logger) {
	dbClient, err := provider.GetDBProvider().GetDBClient(provider.DBNameRuntime)
	if err != nil {
		logger.Fatal("Failed to get runtime database client", log.Error(err))
	}
	if err := seeder.NewDBSeeder(dbClient).EnsureSchema(); err != nil {
		logger.Fatal("Failed to ensure runtime database schema", log.Error(err))
	}
}

// startTLSServer starts the HTTPS server with TLS configuration.
func startTLSServer(logger *log.Logger, cfg *config.Config, mux *http.ServeMux, flowstackHome string) {
	server, serverAddr := createHTTPServer(logger, cfg, mux)

	certFile := path.Join(flowstackHome, cfg.Security.CertFile)
	keyFile := path.Join(flowstackHome, cfg.Security.KeyFile)

	logger.Info("Flowstack server started (HTTPS)...", log.String("address", serverAddr))

	if err := server.ListenAndServeTLS(certFile, keyFile); err != nil {
		logger.Fatal("Failed to serve requests", log.Error(err))
	}
}

// startHTTPServer starts the HTTP server without TLS.
func startHTTPServer(logger *log.Logger, cfg *config.Config, mux *http.ServeMux) {
	server, serverAddr := createHTTPServer(logger, cfg, mux)

	logger.Info("Flowstack server started (HTTP)...", log.String("address", serverAddr))

	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("Failed to serve HTTP requests", log.Error(err))
	}
}

// createHTTPServer creates and configures an HTTP server with common settings.
func createHTTPServer(logger *log.Logger, cfg *config.Config, mux *http.ServeMux) (*http.Server, string) {
	// Wrap the multiplexer with AccessLogHandler.
	wrappedMux := log.AccessLogHandler(logger, mux)

	// Build the server address using hostname and port from the configurations.
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Hostname, cfg.Server.Port)

	server := &http.Server{
		Addr:              serverAddr,
		Handler:           wrappedMux,
		ReadHeaderTimeout: 10 * time.Second, // Mitigate Slowloris attacks
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return server, serverAddr
}

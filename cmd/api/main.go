package main

import (
	"database/sql"
	"log"
	"strings"
	"time"

	"backoffice/internal/auth"
	"backoffice/internal/common"
	"backoffice/internal/env"
	"backoffice/internal/v0/cafe"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Auth database
	authDB, err := sql.Open("sqlite3", env.GetEnv(env.EnvAuthDBPath, "./internal/databases/auth.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer authDB.Close()

	// Cafeteria database
	cafeDB, err := sql.Open("sqlite3", env.GetEnv(env.EnvCafeDBPath, "./internal/databases/cafe.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer cafeDB.Close()

	// Initialize auth components
	authRepo := auth.NewRepository(authDB)
	if err := authRepo.EnableWAL(); err != nil {
		log.Printf("Warning: Failed to enable WAL mode on auth db: %v", err)
	}

	// Initialize cafeteria components
	cafeRepo := cafe.NewRepository(cafeDB)
	if err := cafeRepo.EnableWAL(); err != nil {
		log.Printf("Warning: Failed to enable WAL mode on cafe db: %v", err)
	}
	// Vote rows cascade off menu options; sqlite needs this per connection
	if err := cafeRepo.EnableForeignKeys(); err != nil {
		log.Fatal(err)
	}

	// OAuth configuration
	oauthConfig := auth.NewOAuthConfig(
		auth.ProviderConfig{
			ClientID:     env.GetEnv(env.EnvGoogleClientID, ""),
			ClientSecret: env.GetEnv(env.EnvGoogleClientSecret, ""),
		},
		auth.ProviderConfig{
			ClientID:     env.GetEnv(env.EnvGitHubClientID, ""),
			ClientSecret: env.GetEnv(env.EnvGitHubClientSecret, ""),
		},
		env.GetEnv(env.EnvAuthCallbackBaseURL, "http://localhost:9240"),
	)

	// Auth stores and handlers
	stateStore := auth.NewOAuthStateStore(authRepo)
	sessionStore := auth.NewSessionStore(
		authRepo,
		env.GetDuration(env.EnvSessionDuration, 7*24*time.Hour),
		env.GetBool(env.EnvSecureCookies, false),
	)
	authHandler := auth.NewHandler(authRepo, oauthConfig, stateStore, sessionStore)
	adminHandler := auth.NewAdminHandler(authRepo)
	authMiddleware := auth.NewMiddleware(sessionStore)

	// Voting window policy
	loc, err := time.LoadLocation(env.GetEnv(env.EnvCafeTimezone, "Local"))
	if err != nil {
		log.Fatalf("Invalid %s: %v", env.EnvCafeTimezone, err)
	}
	window := cafe.NewVotingWindow(
		cafe.NewSystemClock(loc),
		env.GetInt(env.EnvCafeCutoffHour, cafe.DefaultCutoffHour),
	)
	cafeHandler := cafe.NewHandler(cafeRepo, window)

	router := gin.Default()

	// CORS for the dashboard and widget consumers
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(env.GetEnv(env.EnvCORSAllowOrigins, "http://localhost:3000"), ",")
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Global routes
	global := router.Group("/api")
	common.RegisterRoutes(global)

	// Auth routes (public + session-protected + admin)
	auth.RegisterRoutes(global, authHandler, adminHandler, authMiddleware)

	// v0 API routes
	v0Group := router.Group("/api/v0")
	{
		cafe.RegisterRoutes(v0Group, cafeHandler, authMiddleware)
	}

	err = router.Run(env.GetEnv(env.EnvListenAddr, ":9240"))
	if err != nil {
		log.Fatal(err)
	}
}

/*
This project is the monolithic back office API for the Meltemi Trade & Logistics platform:
shipments, contracts, customs and finance tooling for the operations teams, plus the
internal cafeteria services.
Copyright (C) 2026 Meltemi Logistics
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

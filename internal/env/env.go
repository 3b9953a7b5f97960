package env

import (
	"os"
	"strconv"
	"time"
)

// Typed getters over the process environment. Unset or unparseable values
// fall back to the given default rather than failing.

func GetEnv(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return value
}

func GetInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func GetBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// Environment variable keys
const (
	// Server
	EnvListenAddr       = "LISTEN_ADDR"
	EnvCORSAllowOrigins = "CORS_ALLOW_ORIGINS"

	// Databases
	EnvAuthDBPath = "AUTH_DB_PATH"
	EnvCafeDBPath = "CAFE_DB_PATH"

	// Cafeteria voting
	EnvCafeCutoffHour = "CAFE_CUTOFF_HOUR"
	EnvCafeTimezone   = "CAFE_TIMEZONE"

	// OAuth Providers
	EnvGoogleClientID     = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret = "GOOGLE_CLIENT_SECRET"
	EnvGitHubClientID     = "GITHUB_CLIENT_ID"
	EnvGitHubClientSecret = "GITHUB_CLIENT_SECRET"

	// Auth Configuration
	EnvAuthCallbackBaseURL = "AUTH_CALLBACK_BASE_URL"
	EnvSessionDuration     = "SESSION_DURATION"
	EnvSecureCookies       = "SECURE_COOKIES"
)

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

package common

import (
	"time"

	"github.com/google/uuid"
)

// Every v0 endpoint replies with the same envelope: a data payload, a list
// of error strings, and response metadata carrying a request ID for support
// tickets.

const apiVersion = "v0"

type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	RequestID string    `json:"requestId"`
}

type APIResponse struct {
	Data     interface{} `json:"data"`
	Errors   []string    `json:"errors"`
	Metadata Metadata    `json:"metadata"`
}

// CreateAPIResponse builds the envelope. An empty requestID gets a fresh
// UUID so every response is traceable.
func CreateAPIResponse(data interface{}, errors []string, requestID string) APIResponse {
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return APIResponse{
		Data:   data,
		Errors: errors,
		Metadata: Metadata{
			Timestamp: time.Now(),
			Version:   apiVersion,
			RequestID: requestID,
		},
	}
}

func CreateSuccessResponse(data interface{}) APIResponse {
	return CreateAPIResponse(data, []string{}, "")
}

func CreateErrorResponse(errors []string) APIResponse {
	return CreateAPIResponse(nil, errors, "")
}

//This project is the monolithic back office API for the Meltemi Trade & Logistics platform.
//Copyright (C) 2026 Meltemi Logistics
//This program is free software: you can redistribute it and/or modify
//it under the terms of the GNU General Public License as published by
//the Free Software Foundation, either version 3 of the License, or
//(at your option) any later version.
//
//This program is distributed in the hope that it will be useful,
//but WITHOUT ANY WARRANTY; without even the implied warranty of
//MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//GNU General Public License for more details.
//
//You should have received a copy of the GNU General Public License
//along with this program.  If not, see <https://www.gnu.org/licenses/>.

package common

import (
	"net/http"
	"time"

	v0 "backoffice/internal/v0/common"

	"github.com/gin-gonic/gin"
)

type StatusResponse struct {
	Service               string `json:"service"`
	Uptime                string `json:"uptime"`
	InternalServerLatency string `json:"internal_server_latency"`
}

var startTime = time.Now()

// Status is the liveness endpoint for the load balancer and dashboards
func Status(c *gin.Context) {
	begin := time.Now()
	data := StatusResponse{
		Service:               "backoffice",
		Uptime:                time.Since(startTime).Truncate(time.Second).String(),
		InternalServerLatency: time.Since(begin).String(),
	}
	c.JSON(http.StatusOK, v0.CreateSuccessResponse(data))
}

// RegisterRoutes registers the global service routes
func RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/status", Status)
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

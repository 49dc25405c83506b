// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package api serves the estimation engine over HTTP, under /api.
package api

import (
	"github.com/alvinbaena/crack-time/internal/simulate"
	"github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter builds the gin engine with recovery, request ids, request logging and CORS in
// front of the estimation routes.
func NewRouter(estimator *simulate.Estimator, origins ...string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(logger.SetLogger(logger.WithLogger(func(c *gin.Context, z zerolog.Logger) zerolog.Logger {
		return zerolog.New(gin.DefaultWriter).With().Timestamp().Str(requestIDKey, c.GetString(requestIDKey)).Logger()
	})))
	router.Use(CORS(origins...))

	RegisterEstimateApi(router.Group("/api"), estimator)
	return router
}

// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"net/http"

	"github.com/alvinbaena/crack-time/internal/simulate"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// minCompared is the number of inputs a comparison needs.
const minCompared = 2

type estimateApi struct {
	estimator *simulate.Estimator
}

func (a *estimateApi) estimate(c *gin.Context) {
	var req estimateRequest
	if !bind(c, &req) {
		return
	}

	resp, err := a.estimator.Estimate(req.Password,
		orDefault(req.Algorithm, DefaultAlgorithm), orDefault(req.HardwareTier, DefaultTier))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a *estimateApi) batch(c *gin.Context) {
	var req batchRequest
	if !bind(c, &req) {
		return
	}

	resp, err := a.estimator.Batch(req.Passwords,
		orDefault(req.Algorithm, DefaultAlgorithm), orDefault(req.HardwareTier, DefaultTier))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a *estimateApi) comparePasswords(c *gin.Context) {
	var req batchRequest
	if !bind(c, &req) {
		return
	}

	if len(req.Passwords) < minCompared {
		fail(c, http.StatusBadRequest, "Need at least 2 passwords to compare")
		return
	}

	resp, err := a.estimator.ComparePasswords(req.Passwords,
		orDefault(req.Algorithm, DefaultAlgorithm), orDefault(req.HardwareTier, DefaultTier))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a *estimateApi) compareAlgorithms(c *gin.Context) {
	var req compareAlgorithmsRequest
	if !bind(c, &req) {
		return
	}

	if len(req.Algorithms) < minCompared {
		fail(c, http.StatusBadRequest, "Need at least 2 algorithms to compare")
		return
	}

	resp, err := a.estimator.CompareAlgorithms(req.Password, req.Algorithms, orDefault(req.HardwareTier, DefaultTier))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a *estimateApi) compareAttackers(c *gin.Context) {
	var req compareAttackersRequest
	if !bind(c, &req) {
		return
	}

	if len(req.HardwareTiers) < minCompared {
		fail(c, http.StatusBadRequest, "Need at least 2 hardware tiers to compare")
		return
	}

	resp, err := a.estimator.CompareAttackers(req.Password, orDefault(req.Algorithm, DefaultAlgorithm), req.HardwareTiers)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a *estimateApi) targeted(c *gin.Context) {
	var req targetedRequest
	if !bind(c, &req) {
		return
	}

	resp, err := a.estimator.Targeted(req.Password,
		orDefault(req.Algorithm, DefaultAlgorithm), orDefault(req.HardwareTier, DefaultTier), req.Context)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a *estimateApi) metadata(c *gin.Context) {
	c.JSON(http.StatusOK, a.estimator.Catalog().Metadata())
}

// bind decodes the JSON body into req. On failure it answers 422 and returns false.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	return true
}

func fail(c *gin.Context, status int, detail string) {
	log.Debug().Str("request_id", c.GetString(requestIDKey)).Msgf("%s %s failed with %d: %s",
		c.Request.Method, c.FullPath(), status, detail)
	c.AbortWithStatusJSON(status, errorResponse{Detail: detail})
}

func RegisterEstimateApi(group *gin.RouterGroup, estimator *simulate.Estimator) {
	a := &estimateApi{estimator: estimator}

	group.POST("/estimate", a.estimate)
	group.POST("/batch", a.batch)
	group.POST("/targeted", a.targeted)
	group.GET("/metadata", a.metadata)

	compare := group.Group("/compare")
	compare.POST("/passwords", a.comparePasswords)
	compare.POST("/algorithms", a.compareAlgorithms)
	compare.POST("/attackers", a.compareAttackers)
}

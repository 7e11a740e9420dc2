package handler

import (
	"Omnisell/internal/workflow"
	"Omnisell/pkg/apperr"
	"Omnisell/pkg/context"
	"Omnisell/pkg/response"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func actorOf(c *gin.Context) (workflow.Actor, error) {
	actor, err := context.GetActor(c)
	if err != nil {
		return workflow.Actor{}, response.NewError(http.StatusUnauthorized, err.Error())
	}
	return actor, nil
}

func paramID(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid %s %q", name, c.Param(name))
	}
	return id, nil
}

func bindError(err error) error {
	return apperr.Validation("invalid request: %s", err.Error())
}

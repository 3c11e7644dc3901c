package dto

import (
	"github.com/checkmarble/marble-enrichment/models"
	"github.com/checkmarble/marble-enrichment/pure_utils"
)

type HealthStatusResponse struct {
	Status []HealthItemStatusResponse `json:"status"`
}

type HealthItemStatusResponse struct {
	Name   string `json:"name"`
	IsLive bool   `json:"is_live"`
}

func AdaptHealthItemStatus(status models.HealthItemStatus) HealthItemStatusResponse {
	return HealthItemStatusResponse{
		Name:   string(status.Name),
		IsLive: status.Status,
	}
}

func AdaptHealthStatus(status models.HealthStatus) HealthStatusResponse {
	return HealthStatusResponse{
		Status: pure_utils.Map(status.Statuses, AdaptHealthItemStatus),
	}
}

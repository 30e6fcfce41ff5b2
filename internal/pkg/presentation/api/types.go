package api

import "github.com/airlight/airquality-mgmt/pkg/types"

type thresholdsRequest struct {
	Standard   string            `json:"standard"`
	Thresholds []types.Threshold `json:"thresholds"`
}

type thresholdsResponse struct {
	Standard   string            `json:"standard"`
	Version    int               `json:"version"`
	Thresholds []types.Threshold `json:"thresholds"`
}

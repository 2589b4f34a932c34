package apps

import (
	"github.com/sparkdock/sparkdock/pkg/spark"
)

// Summary is one application in a listing response.
type Summary struct {
	AppID   string `json:"app_id"`
	Status  string `json:"status"`
	UIProxy bool   `json:"spark_ui_proxy"`
}

func ComposeSummary(s spark.AppSummary) Summary {
	return Summary{
		AppID:   s.ID,
		Status:  s.Status.String(),
		UIProxy: s.UIProxy,
	}
}

func ComposeSummaries(ss []spark.AppSummary) []Summary {
	summaries := make([]Summary, len(ss))
	for i, s := range ss {
		summaries[i] = ComposeSummary(s)
	}
	return summaries
}

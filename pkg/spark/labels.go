package spark

import (
	"github.com/sparkdock/sparkdock/pkg/cluster"
)

// Labels put on every resource belonging to one application.
const (
	LabelAppName = "spark-app-name"
	LabelAppID   = "spark-app-id"
	LabelRole    = "spark-role"

	// marks applications whose UI is served behind the reverse proxy.
	LabelUIProxy = "spark-ui-proxy"

	RoleDriver = "driver"
)

// AppLabels are the labels of the driver pod of the application `id`.
func AppLabels(id Identity, uiProxy bool) map[string]string {
	labels := map[string]string{
		LabelAppName: id.Name,
		LabelAppID:   id.ID,
		LabelRole:    RoleDriver,
	}
	if uiProxy {
		labels[LabelUIProxy] = "true"
	}
	return labels
}

// DriverSelector matches the driver pod of the application `appID`.
func DriverSelector(appID string) cluster.LabelSelector {
	return cluster.LabelSelector{
		LabelAppID: cluster.Eq(appID),
		LabelRole:  cluster.Eq(RoleDriver),
	}
}

// DriversSelector matches all driver pods in a namespace.
func DriversSelector() cluster.LabelSelector {
	return cluster.LabelSelector{
		LabelRole: cluster.Eq(RoleDriver),
	}
}

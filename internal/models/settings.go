package models

// MonitorSettings holds the connection-monitor configuration managed by
// admins through the settings endpoints.
type MonitorSettings struct {
	Enabled            bool `json:"enabled"`
	IntervalSeconds    int  `json:"intervalSeconds"`
	NotifyOnDisconnect bool `json:"notifyOnDisconnect"`
}

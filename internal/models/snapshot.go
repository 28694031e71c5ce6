package models

// Snapshot is the full serialized state of settings and every record collection.
type Snapshot struct {
	Version  int             `json:"version"`
	Settings Settings        `json:"settings"`
	Books    []Book          `json:"books"`
	Logs     []MinutesEntry  `json:"logs"`
	Progress []ProgressEntry `json:"progress"`
}

package domain

type ItemStatus string

const (
	ItemPending    ItemStatus = "pending"
	ItemInstalling ItemStatus = "installing"
	ItemDone       ItemStatus = "done"
	ItemFailed     ItemStatus = "failed"
)

type ItemSource string

const (
	SourceGit ItemSource = "git"
	SourceCNR ItemSource = "cnr"
)

// Item is one custom node from the backup snapshot manifest. Git-sourced
// items carry the normalized repo URL as a secondary lookup key since the
// restore script logs them sometimes by name and sometimes by URL.
type Item struct {
	Key     string     `json:"key"`
	Name    string     `json:"name"`
	Source  ItemSource `json:"source"`
	Repo    string     `json:"repo,omitempty"`
	Version string     `json:"version,omitempty"`
	Status  ItemStatus `json:"status"`
}

// RestoreState summarizes backup restore progress for the page.
type RestoreState struct {
	Enabled     bool   `json:"enabled"`
	Repo        string `json:"repo"`
	Items       []Item `json:"nodes"`
	HasManifest bool   `json:"has_manifest"`
	Message     string `json:"message"`
}

package domain

type StageStatus string

const (
	StagePending StageStatus = "pending"
	StageActive  StageStatus = "active"
	StageDone    StageStatus = "done"
)

// StageState is one phase of the provisioning pipeline as reported to the
// page. Skipped stages keep Status == StageDone with Skipped set; the page
// renders them struck through and the matcher never selects them as active.
type StageState struct {
	ID      string      `json:"id"`
	Label   string      `json:"label"`
	Detail  string      `json:"detail"`
	Status  StageStatus `json:"status"`
	Skipped bool        `json:"skipped"`
}

package wip

import "fmt"

// Status is the closed set of aggregate work item states reported by the MES.
type Status string

const (
	StatusCreated    Status = "CREATED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusConverted  Status = "CONVERTED"
	StatusFailed     Status = "FAILED"
)

// DisplayStatus maps a work item's raw status and active process id to the
// single label shown on the dashboard. An item that is mid-process reports
// its process number regardless of the coarser status field, which can lag
// behind the process assignment. currentProcessID <= 0 means no active
// process. Unrecognized statuses fall through to "Not Started" rather than
// erroring.
func DisplayStatus(status Status, currentProcessID int64) string {
	if currentProcessID > 0 {
		return fmt.Sprintf("Process #%d", currentProcessID)
	}

	switch status {
	case StatusConverted:
		return "Converted"
	case StatusCompleted:
		return "All Processes Completed, Awaiting Conversion"
	case StatusFailed:
		return "Failed"
	case StatusInProgress:
		return "Between Processes"
	default:
		return "Not Started"
	}
}

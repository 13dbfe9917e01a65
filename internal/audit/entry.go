package audit

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionRead   Action = "READ"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionError  Action = "ERROR"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Record is what a caller hands to Trail.Log; the trail adds the timestamp.
type Record struct {
	Action      Action
	ActorUserID string
	Reason      string
	BeforeState map[string]any
	AfterState  map[string]any
	Metadata    map[string]any
}

// Entry is a stamped Record as stored in the trail.
type Entry struct {
	Timestamp   string         `json:"timestamp"`
	Action      Action         `json:"action"`
	ActorUserID string         `json:"actorUserId"`
	Reason      string         `json:"reason,omitempty"`
	BeforeState map[string]any `json:"beforeState"`
	AfterState  map[string]any `json:"afterState"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

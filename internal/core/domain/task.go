package domain

type TaskStatus string

const (
	TaskStatusOK    TaskStatus = "OK"
	TaskStatusError TaskStatus = "ERROR"
)

// AisleTask is one aisle's share of an order, broadcast to the whole robot
// fleet. Robots discard tasks for aisles they do not serve. The correlation
// id is unique per task and is the only key a reply is matched on.
type AisleTask struct {
	CorrelationID string    `json:"correlation_id"`
	OrderID       string    `json:"order_id"`
	Kind          OrderKind `json:"kind"`
	Aisle         Aisle     `json:"aisle"`
	Lines         []Line    `json:"lines"`
}

// AisleResult is a robot's report for one task.
type AisleResult struct {
	CorrelationID string     `json:"correlation_id"`
	Aisle         Aisle      `json:"aisle"`
	Status        TaskStatus `json:"status"`
	Lines         []Line     `json:"lines"`
	RobotID       string     `json:"robot_id"`
}

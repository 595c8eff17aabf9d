package taskfile

// TaskID indexes a task in the tree arena. IDs are 1-based; NoTaskID
// means "no task".
type TaskID uint32

const NoTaskID TaskID = 0

func (id TaskID) IsValid() bool { return id != NoTaskID }

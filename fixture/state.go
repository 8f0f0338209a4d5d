package fixture

// State is a worker's position in its gate sequence.
type State int32

const (
	Created State = iota
	AwaitingStart
	AtCheckpoint
	AwaitingTermination
	Finished
	Failed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case AwaitingStart:
		return "awaiting-start"
	case AtCheckpoint:
		return "at-checkpoint"
	case AwaitingTermination:
		return "awaiting-termination"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	}
	return "unknown"
}

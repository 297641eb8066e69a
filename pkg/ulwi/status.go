package ulwi

// Status is the outcome of progress style queries.
// The values other than Unresponsive are the indices of StatusCandidates.
type Status int

// Status values.
const (
	Unresponsive Status = iota - 1
	Successful
	Unsuccessful
	InProgress
	NotAttempted
)

// StatusCandidates are the tokens replied to progress queries.
var StatusCandidates = Candidates{"S", "U", "P", "N"}

// StatusFromIndex converts a match index of StatusCandidates.
func StatusFromIndex(index int) Status {
	if index < int(Successful) || index > int(NotAttempted) {
		return Unresponsive
	}
	return Status(index)
}

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Successful:
		return "successful"
	case Unsuccessful:
		return "unsuccessful"
	case InProgress:
		return "in-progress"
	case NotAttempted:
		return "not-attempted"
	}
	return "unresponsive"
}

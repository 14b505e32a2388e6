package pipeline

// ConfirmSource answers yes/no questions, such as whether to add reference audio.
type ConfirmSource interface {
	Confirm(question string) (bool, error)
}

// StaticConfirm answers every question with the same value; it backs the
// --audio and --no-audio flags.
type StaticConfirm bool

// Confirm implements ConfirmSource.
func (s StaticConfirm) Confirm(string) (bool, error) {
	return bool(s), nil
}

// AudioQuestion is asked once per run when audio is offered.
const AudioQuestion = "Add reference audio to the review video?"

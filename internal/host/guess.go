package host

// Atom categories and types recognized when guessing a receiving node.
const (
	CategoryPeople = "People"
	CategorySound  = "Sound"

	TypeAudioSource       = "AudioSource"
	TypeRhythmAudioSource = "RhythmAudioSource"
	TypeAptSpeaker        = "AptSpeaker"

	NodeNone = "None"
)

// GuessReceivingNode returns the node that usually carries the audio source
// for an atom of the given category and type.
func GuessReceivingNode(category, atomType string) string {
	switch category {
	case CategoryPeople:
		return "HeadAudioSource"
	case CategorySound:
		switch atomType {
		case TypeAudioSource:
			return "AudioSource"
		case TypeRhythmAudioSource:
			return "RhythmSource"
		case TypeAptSpeaker:
			return "AptSpeaker_Import"
		}
	}
	return NodeNone
}

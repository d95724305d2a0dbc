package engine

// Answer labels recognised by the builder. Matching is case-sensitive.
const (
	AnswerYes           = "Yes"
	AnswerNo            = "No"
	AnswerNotApplicable = "Not applicable (N/A)"
)

// ResponseSet maps a control question to the labels selected for it
type ResponseSet map[string][]string

// AnswerKind is the normalized meaning of a single answer label
type AnswerKind int

const (
	AnswerNegative AnswerKind = iota
	AnswerAffirmative
	AnswerExcluded
)

func (k AnswerKind) String() string {
	switch k {
	case AnswerAffirmative:
		return "affirmative"
	case AnswerExcluded:
		return "not-applicable"
	default:
		return "negative"
	}
}

// Sentinels holds the labels the answer UI uses for yes, no and not applicable.
// Anything that is not the affirmative or not-applicable label counts as negative,
// including Negative itself.
type Sentinels struct {
	Affirmative   string
	Negative      string
	NotApplicable string
}

// DefaultSentinels returns the labels used by the answer-collection UI.
func DefaultSentinels() Sentinels {
	return Sentinels{
		Affirmative:   AnswerYes,
		Negative:      AnswerNo,
		NotApplicable: AnswerNotApplicable,
	}
}

// Classify maps one label to its kind. Labels must equal a sentinel exactly;
// padded or blank labels are negative.
func (s Sentinels) Classify(label string) AnswerKind {
	switch label {
	case s.Affirmative:
		return AnswerAffirmative
	case s.NotApplicable:
		return AnswerExcluded
	default:
		return AnswerNegative
	}
}

// answerTally counts the kinds present in one control's label list
type answerTally struct {
	affirmative int
	negative    int
	excluded    int
}

func (s Sentinels) tally(labels []string) answerTally {
	var t answerTally
	for _, l := range labels {
		switch s.Classify(l) {
		case AnswerAffirmative:
			t.affirmative++
		case AnswerExcluded:
			t.excluded++
		default:
			t.negative++
		}
	}
	return t
}

// ControlStatus is the per-control outcome of a baseline build
type ControlStatus string

const (
	StatusUnanswered ControlStatus = "unanswered"
	StatusExcluded   ControlStatus = "excluded"
	StatusSatisfied  ControlStatus = "satisfied"
	StatusPartial    ControlStatus = "partial"
	StatusMissing    ControlStatus = "missing"
)

// status resolves a tally into a control status.
// Not-applicable labels alongside real answers are ignored.
func (t answerTally) status() ControlStatus {
	switch {
	case t.affirmative > 0 && t.negative > 0:
		return StatusPartial
	case t.affirmative > 0:
		return StatusSatisfied
	case t.negative > 0:
		return StatusMissing
	case t.excluded > 0:
		return StatusExcluded
	default:
		return StatusUnanswered
	}
}

// Package status defines the canonical application status vocabulary and
// the normalizer that maps legacy status labels onto it.  Every read from
// storage and every write before persistence goes through Normalize so
// that stored and returned values are always canonical.
package status

// Canonical application statuses.  Automation only ever moves forward
// along Applied -> Reviewed -> Interview -> Offer; Rejected is reachable
// from any non-terminal state via explicit manual action.
const (
	Applied   = "Applied"
	Reviewed  = "Reviewed"
	Interview = "Interview"
	Offer     = "Offer"
	Rejected  = "Rejected"
)

// All lists the canonical statuses in progression order (Rejected last).
var All = []string{Applied, Reviewed, Interview, Offer, Rejected}

// aliases maps legacy labels that appeared in earlier data exports onto
// the canonical vocabulary.
var aliases = map[string]string{
	"Submitted":           Applied,
	"Under Review":        Reviewed,
	"Interview Scheduled": Interview,
	"Offer Extended":      Offer,
	"Accepted":            Offer,
}

// Normalize maps a status label to its canonical form.  Canonical labels
// are returned as-is.  Unknown labels are returned unchanged rather than
// coerced to a default: this is a deliberate leniency so that downstream
// enum validation (IsCanonical) rejects them loudly instead of a bad
// value being silently rewritten.
func Normalize(label string) string {
	if canonical, ok := aliases[label]; ok {
		return canonical
	}
	return label
}

// IsCanonical reports whether label is one of the five canonical statuses.
// Callers should normalize first; IsCanonical does not apply aliases.
func IsCanonical(label string) bool {
	switch label {
	case Applied, Reviewed, Interview, Offer, Rejected:
		return true
	}
	return false
}

// Terminal reports whether the automation considers the status final.
// Manual overrides by Admin or Bot Mimic are still permitted on terminal
// applications within their job-type scope.
func Terminal(label string) bool {
	return label == Offer || label == Rejected
}

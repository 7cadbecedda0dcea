// Package skills computes the match rate between a job's required skill
// set and an applicant's declared skill set.  Matching is exact-string
// and case-sensitive; inputs are treated as sets, so duplicates and
// ordering do not affect the result.
package skills

// ReviewThreshold is the minimum match rate at which an application is
// considered ready to progress from Applied to Reviewed.
const ReviewThreshold = 0.5

// Match is the result of evaluating an applicant's skills against a
// job's requirements.
type Match struct {
	Rate     float64 // fraction of required skills present, in [0,1]
	Matched  int     // number of distinct required skills the applicant has
	Required int     // number of distinct required skills
}

// Evaluate computes the match between required and having.  When required
// is empty the rate is 1: a job with no listed skills has no requirement
// to fail against.
func Evaluate(required, having []string) Match {
	req := toSet(required)
	have := toSet(having)

	m := Match{Required: len(req)}
	if len(req) == 0 {
		m.Rate = 1
		return m
	}
	for skill := range req {
		if _, ok := have[skill]; ok {
			m.Matched++
		}
	}
	m.Rate = float64(m.Matched) / float64(m.Required)
	return m
}

// ReadyForReview reports whether the match meets the review threshold.
// Exactly 50% qualifies.
func (m Match) ReadyForReview() bool {
	return m.Rate >= ReviewThreshold
}

// Percent returns the match rate as a rounded whole percentage.
func (m Match) Percent() int {
	return int(m.Rate*100 + 0.5)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

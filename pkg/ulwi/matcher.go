package ulwi

import "strings"

// NoMatch is returned by matching operations when no candidate
// completed before the timeout.
const NoMatch = -1

// CandidateSep separates tokens in a candidate list, e.g. "S;U;P;N".
const CandidateSep = ";"

// Candidates is an ordered set of expected reply tokens.
// The index of a token is the result code on match.
type Candidates []string

// ParseCandidates splits a semicolon delimited candidate list.
func ParseCandidates(list string) Candidates {
	return Candidates(strings.Split(list, CandidateSep))
}

// Validate checks the set is usable for matching.
func (c Candidates) Validate() error {
	if len(c) == 0 {
		return ErrNoCandidates
	}
	for _, token := range c {
		if token == "" {
			return ErrEmptyCandidate
		}
	}
	return nil
}

// String implements fmt.Stringer.
func (c Candidates) String() string {
	return strings.Join(c, CandidateSep)
}

type tokenState struct {
	token   string
	matched int
}

// Matcher tracks partial matches of all candidates against a byte stream.
// Every candidate is an independent state machine: a byte which fails to
// extend a partial match resets it without being re-tested at offset 0.
// When one candidate is a strict prefix of another, the shorter one wins
// as soon as it completes.
type Matcher struct {
	states []tokenState
}

// NewMatcher creates a Matcher with all partial matches reset.
func NewMatcher(c Candidates) (*Matcher, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	m := &Matcher{states: make([]tokenState, len(c))}
	for n, token := range c {
		m.states[n].token = token
	}
	return m, nil
}

// Reset clears all partial matches.
func (m *Matcher) Reset() {
	for n := range m.states {
		m.states[n].matched = 0
	}
}

// Feed consumes one byte and returns the index of the first candidate
// (in set order) completed by it, or NoMatch. A match resets all
// candidates so feeding can continue.
func (m *Matcher) Feed(b byte) int {
	for n := range m.states {
		s := &m.states[n]
		if b == s.token[s.matched] {
			s.matched++
		} else if s.matched > 0 {
			s.matched = 0
		}
		if s.matched == len(s.token) {
			m.Reset()
			return n
		}
	}
	return NoMatch
}

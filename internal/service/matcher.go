package service

import "github.com/cloo-solutions/hackscout/internal/domain"

// NameMatcher links a name emitted by the model back to an input participant.
type NameMatcher func(name string, participants []domain.Participant) (domain.Participant, bool)

// ExactNameMatch returns the first participant whose name equals name
// byte for byte. Case, accents and nicknames are not reconciled and a
// duplicate name always binds to its first occurrence.
func ExactNameMatch(name string, participants []domain.Participant) (domain.Participant, bool) {
	for _, p := range participants {
		if p.Name == name {
			return p, true
		}
	}
	return domain.Participant{}, false
}

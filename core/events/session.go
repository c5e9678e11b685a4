package events

// KindIdentityUpdated identifies a change of the session identity.
const KindIdentityUpdated Kind = "identity.updated"

// IdentityUpdated carries the identity the next call will use.
type IdentityUpdated struct {
	Base
	ConversationID string
	ParticipantID  string
}

// NewIdentityUpdated creates an identity updated event.
func NewIdentityUpdated(conversationID, participantID string) IdentityUpdated {
	return IdentityUpdated{Base: NewBase(KindIdentityUpdated), ConversationID: conversationID, ParticipantID: participantID}
}

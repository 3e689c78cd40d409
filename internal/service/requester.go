package service

import "github.com/google/uuid"

// Requester identifies who is calling: an authenticated user, an anonymous
// browser session, or neither yet.
type Requester struct {
	UserID     *uuid.UUID
	IsStaff    bool
	SessionKey string
}

func (r Requester) Authenticated() bool { return r.UserID != nil }

func Anonymous(sessionKey string) Requester { return Requester{SessionKey: sessionKey} }

func User(id uuid.UUID, isStaff bool) Requester {
	uid := id
	return Requester{UserID: &uid, IsStaff: isStaff}
}

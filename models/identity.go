package models

// Identity is the caller identity resolved from the Authorization header.
// A request without a token is a valid Guest identity: guests share the
// single NULL-owner cart. An invalid or expired token never reaches this
// type; the middleware rejects it with 401.
type Identity struct {
	UserID        int
	Email         string
	Authenticated bool
}

func Authenticated(userID int, email string) Identity {
	return Identity{UserID: userID, Email: email, Authenticated: true}
}

func Guest() Identity {
	return Identity{}
}

// OwnerID maps the identity to the nullable cart owner column.
func (i Identity) OwnerID() *int {
	if !i.Authenticated {
		return nil
	}
	id := i.UserID
	return &id
}

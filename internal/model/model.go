package model

// Credentials is the caller's OAuth token pair for a single sync run.
type Credentials struct {
	AccessToken  string
	AccessSecret string
}

// Present reports whether both halves of the token pair were supplied.
func (c Credentials) Present() bool {
	return c.AccessToken != "" && c.AccessSecret != ""
}

// ListRecord is a platform list owned by the caller.
type ListRecord struct {
	ID    string // id_str; empty when the platform returned none
	Slug  string
	Owner string // owning account's screen name
	URI   string // canonical path, eg: "/alice_owner/lists/bob"
}

// HasID reports whether the platform assigned the list an identity.
func (l *ListRecord) HasID() bool {
	return l != nil && l.ID != ""
}

// --- bulk membership ---

// BatchFailure describes one create_all call that did not succeed.
type BatchFailure struct {
	Index int   // zero-based batch position
	Size  int   // number of user IDs in the batch
	Err   error // cause reported by the platform client
}

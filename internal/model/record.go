package model

// Image is a persisted image record. Identity is the only stored attribute: the
// converted file's location is derived from the id by convention, never stored.
type Image struct {
	ID string `json:"id"`
}

// User exists purely as a bearer token: possession of a valid id is the whole
// authorization signal. No password, scope or expiry.
type User struct {
	ID string `json:"id"`
}

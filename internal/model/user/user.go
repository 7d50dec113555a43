package user

// DefaultID is used whenever a request does not name a user.
const DefaultID = "default_user"

// ResolveID returns id, or DefaultID when id is empty.
func ResolveID(id string) string {
	if id == "" {
		return DefaultID
	}
	return id
}

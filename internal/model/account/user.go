package account

// User is a registered identity document. Password holds the bcrypt
// hash and must never reach an API response.
type User struct {
	ID       string `json:"id" bson:"_id"`
	Email    string `json:"email" bson:"email"`
	Password string `json:"-" bson:"password"`
}

// Public is the client-facing projection returned by auth endpoints.
type Public struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Public strips everything but the identity fields.
func (u User) Public() Public {
	return Public{ID: u.ID, Email: u.Email}
}

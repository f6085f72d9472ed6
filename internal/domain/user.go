package domain

// User is an account record. The cart engine only ever consumes the
// id; credentials stay inside the auth package.
type User struct {
	ID           string `bson:"_id,omitempty" json:"id"`
	Username     string `bson:"username" json:"username"`
	PasswordHash string `bson:"password_hash" json:"-"`
}

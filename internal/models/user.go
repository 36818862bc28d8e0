package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User represents a user record in the users collection
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username string             `bson:"username" json:"username"`
	Password string             `bson:"password" json:"-"` // bcrypt digest, not serialized
	Roles    []string           `bson:"roles" json:"roles"`
	Active   bool               `bson:"active" json:"active"`
}

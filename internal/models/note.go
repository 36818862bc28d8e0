package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Note represents a note record owned by a user. This service only reads
// notes to guard user deletion; note CRUD lives elsewhere.
type Note struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Title     string             `bson:"title" json:"title"`
	Text      string             `bson:"text" json:"text"`
	Completed bool               `bson:"completed" json:"completed"`
}

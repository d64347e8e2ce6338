// models/user.go
package models

import "time"

// User carries the balance fields the parking core mutates as settlement side
// effects. Identity and authentication are owned by the auth provider; the
// middleware supplies the authenticated id and role per request.
type User struct {
	ID          string    `bson:"id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Email       string    `bson:"email" json:"email"`
	Role        string    `bson:"role" json:"role"`
	Wallet      float64   `bson:"wallet" json:"wallet"`
	DueAmount   float64   `bson:"due_amount" json:"dueAmount"`
	SpecialPass bool      `bson:"special_pass" json:"specialPass"`
	FCMToken    string    `bson:"fcm_token,omitempty" json:"-"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

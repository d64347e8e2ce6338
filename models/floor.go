package models

import "time"

// Floor holds capacity attributes for one parking level. Individual spot
// numbers are not tracked; availability is capacity minus open bookings.
type Floor struct {
	ID              string    `bson:"id" json:"id"`
	Name            string    `bson:"name" json:"name"`
	NormalSpots     int       `bson:"normal_spots" json:"normalSpots"`
	DisabilitySpots int       `bson:"disability_spots" json:"disabilitySpots"`
	IsActive        bool      `bson:"is_active" json:"isActive"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updatedAt"`
}

// FloorAvailability is the display snapshot returned to clients. Disability
// counts are informational only; admission always books against normal spots.
type FloorAvailability struct {
	FloorID                  string `json:"floorId"`
	Name                     string `json:"name"`
	NormalSpots              int    `json:"normalSpots"`
	DisabilitySpots          int    `json:"disabilitySpots"`
	AvailableNormalSpots     int    `json:"availableNormalSpots"`
	AvailableDisabilitySpots int    `json:"availableDisabilitySpots"`
	IsActive                 bool   `json:"isActive"`
}

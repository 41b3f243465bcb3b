package types

import "time"

// Rating is a single user rating as ingested. Immutable once loaded.
type Rating struct {
	Score int       `json:"score"`
	Date  time.Time `json:"date"`
}

// Business holds a business and its raw ratings. Derived values such as the
// trust score are never written back here; they live in scoring results.
type Business struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Ratings  []Rating `json:"ratings"`
}

// RawRating is a rating before date parsing and score validation.
type RawRating struct {
	Score int    `json:"score"`
	Date  string `json:"date"`
}

// RawBusiness mirrors Business with string dates, as received on the wire.
type RawBusiness struct {
	Name     string      `json:"name"`
	Category string      `json:"category"`
	Ratings  []RawRating `json:"ratings"`
}

// LoadDatasetRequest is the request body for the dataset endpoint.
type LoadDatasetRequest struct {
	Businesses []RawBusiness `json:"businesses" binding:"required"`
}

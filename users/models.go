// Package users implements profile management: listing and fetching users,
// partial profile updates and the experience/education sub-records.
package users

import (
	"time"

	"github.com/user/linkup-go/auth"
)

// Summary is the shallow profile projection embedded in posts, likes,
// comments and follower lists.
type Summary struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	FirstName      *string `json:"firstName,omitempty"`
	LastName       *string `json:"lastName,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

// Experience is a work-history sub-record owned by a user.
type Experience struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    *string    `json:"location,omitempty"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Current     bool       `json:"current"`
	Description *string    `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Education is an education-history sub-record owned by a user.
type Education struct {
	ID           int64      `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy *string    `json:"fieldOfStudy,omitempty"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	Current      bool       `json:"current"`
	Description  *string    `json:"description,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Detail is the full single-user view: the account plus sub-records and the
// follower/following sets rendered as shallow projections. The sets are a
// derived view over the follows table, not stored arrays.
type Detail struct {
	auth.User
	Experiences []Experience `json:"experiences"`
	Education   []Education  `json:"education"`
	Followers   []Summary    `json:"followers"`
	Following   []Summary    `json:"following"`
}

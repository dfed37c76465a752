package users

// UpdateProfileRequest carries the editable profile fields. All fields are
// optional; only supplied ones are applied.
type UpdateProfileRequest struct {
	FirstName      *string `json:"firstName,omitempty" validate:"omitempty,max=50"`
	LastName       *string `json:"lastName,omitempty" validate:"omitempty,max=50"`
	Bio            *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Location       *string `json:"location,omitempty" validate:"omitempty,max=100"`
	Website        *string `json:"website,omitempty" validate:"omitempty,url"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
	CoverPicture   *string `json:"coverPicture,omitempty"`
}

// ExperienceRequest creates a new experience sub-record. Dates are ISO 8601
// strings ("2006-01-02" or RFC 3339).
type ExperienceRequest struct {
	Title       string  `json:"title" validate:"required,max=100"`
	Company     string  `json:"company" validate:"required,max=100"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=100"`
	StartDate   string  `json:"startDate" validate:"required"`
	EndDate     *string `json:"endDate,omitempty"`
	Current     bool    `json:"current,omitempty"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// ExperienceUpdateRequest merges supplied fields into an existing experience
// record.
type ExperienceUpdateRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=100"`
	Company     *string `json:"company,omitempty" validate:"omitempty,max=100"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=100"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	Current     *bool   `json:"current,omitempty"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// EducationRequest creates a new education sub-record.
type EducationRequest struct {
	School       string  `json:"school" validate:"required,max=100"`
	Degree       string  `json:"degree" validate:"required,max=100"`
	FieldOfStudy *string `json:"fieldOfStudy,omitempty" validate:"omitempty,max=100"`
	StartDate    string  `json:"startDate" validate:"required"`
	EndDate      *string `json:"endDate,omitempty"`
	Current      bool    `json:"current,omitempty"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// EducationUpdateRequest merges supplied fields into an existing education
// record.
type EducationUpdateRequest struct {
	School       *string `json:"school,omitempty" validate:"omitempty,max=100"`
	Degree       *string `json:"degree,omitempty" validate:"omitempty,max=100"`
	FieldOfStudy *string `json:"fieldOfStudy,omitempty" validate:"omitempty,max=100"`
	StartDate    *string `json:"startDate,omitempty"`
	EndDate      *string `json:"endDate,omitempty"`
	Current      *bool   `json:"current,omitempty"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

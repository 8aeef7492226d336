package apiclient

import "time"

// LoginRequest is the request body for POST /v1/users/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the response body for POST /v1/users/login.
type LoginResponse struct {
	Token string `json:"token"`
}

// SignupRequest is the request body for POST /v1/users/signup.
type SignupRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Username string `json:"username" validate:"required"`
	Bio      string `json:"bio"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is the request body for PUT /v1/users.
// Empty fields are left unchanged by the server.
type UpdateProfileRequest struct {
	FullName string `json:"full_name,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// LinkRequest is the request body for POST /v1/links and PUT /v1/links/{id}.
type LinkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Analytics is the click counter attached to a link. The server bumps the
// row's UpdatedAt on every recorded click, so it doubles as the last click
// time once ClickCount is non-zero.
type Analytics struct {
	ClickCount uint       `json:"click_count"`
	UpdatedAt  *time.Time `json:"UpdatedAt,omitempty"`
}

// LastClicked returns the time of the most recent click, or nil if the
// link has never been clicked.
func (a Analytics) LastClicked() *time.Time {
	if a.ClickCount == 0 || a.UpdatedAt == nil {
		return nil
	}
	t := *a.UpdatedAt
	return &t
}

// Link is a shareable link as it appears in a profile's link list.
type Link struct {
	ID        uint      `json:"ID"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Analytics Analytics `json:"analytics"`
}

// Profile is the response body of GET /v1/users/{username}.
type Profile struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Bio      string `json:"bio"`
	Links    []Link `json:"links"`
}

// Clone returns a deep copy of p.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	if p.Links != nil {
		c.Links = make([]Link, len(p.Links))
		for i, l := range p.Links {
			if l.Analytics.UpdatedAt != nil {
				t := *l.Analytics.UpdatedAt
				l.Analytics.UpdatedAt = &t
			}
			c.Links[i] = l
		}
	}
	return &c
}

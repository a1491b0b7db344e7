package types

import (
	"errors"
	"strings"
)

// UserProfile is the client-side cache of the authenticated principal.
type UserProfile struct {
	ID           string `json:"id,omitempty"`
	Username     string `json:"username,omitempty"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
	IsDeleted    bool   `json:"isDeleted"`
	DateJoined   string `json:"dateJoined,omitempty"`
	LastUpdated  string `json:"lastUpdated,omitempty"`
}

// Merge returns p with every non-empty field of partial applied on top.
// IsDeleted is only ever raised, never cleared, by a partial update.
func (p UserProfile) Merge(partial UserProfile) UserProfile {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&p.ID, partial.ID)
	set(&p.Username, partial.Username)
	set(&p.FirstName, partial.FirstName)
	set(&p.LastName, partial.LastName)
	set(&p.EmailAddress, partial.EmailAddress)
	set(&p.DateJoined, partial.DateJoined)
	set(&p.LastUpdated, partial.LastUpdated)
	if partial.IsDeleted {
		p.IsDeleted = true
	}
	return p
}

// IsZero reports whether no identity field is set.
func (p UserProfile) IsZero() bool {
	return p.ID == "" && p.Username == "" && p.EmailAddress == "" &&
		p.FirstName == "" && p.LastName == ""
}

// DisplayName joins first and last name, falling back to the username and
// then the email address.
func (p UserProfile) DisplayName() string {
	if name := strings.TrimSpace(p.FirstName + " " + p.LastName); name != "" {
		return name
	}
	if p.Username != "" {
		return p.Username
	}
	return p.EmailAddress
}

// Credentials is the login form.
type Credentials struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Registration is the sign-up form. ConfirmPassword never leaves the client.
type Registration struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	EmailAddress    string `json:"emailAddress"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
}

// Auth form validation errors.
var (
	ErrCredentialsMissing     = errors.New("please provide all data")
	ErrRegistrationIncomplete = errors.New("please fill all fields")
	ErrPasswordMismatch       = errors.New("passwords do not match")
)

// Validate requires both the identifier and the password.
func (c Credentials) Validate() error {
	if c.Identifier == "" || c.Password == "" {
		return ErrCredentialsMissing
	}
	return nil
}

// Validate requires every field and matching passwords.
func (r Registration) Validate() error {
	for _, v := range []string{r.FirstName, r.LastName, r.EmailAddress, r.Username, r.Password, r.ConfirmPassword} {
		if v == "" {
			return ErrRegistrationIncomplete
		}
	}
	if r.Password != r.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

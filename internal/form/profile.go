package form

import (
	"strings"
	"time"

	"skillshare/internal/model"
)

// MinAge is the youngest a member may be, in calendar years.
const MinAge = 10

type ProfileForm struct {
	FirstName       string `json:"firstName" validate:"required,letters"`
	LastName        string `json:"lastName" validate:"required,letters"`
	Bio             string `json:"bio"`
	ContactNumber   string `json:"contactNumber" validate:"omitempty,phone10"`
	Gender          string `json:"gender"`
	Address         string `json:"address"`
	Birthday        string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	ProfileImageURL string `json:"profileImageUrl"`
	PublicStatus    bool   `json:"publicStatus"`
}

var profileMessages = map[string]string{
	"firstName.required": "First name is required",
	"firstName":          "First name should contain only letters",
	"lastName.required":  "Last name is required",
	"lastName":           "Last name should contain only letters",
	"contactNumber":      "Contact number must be 10 digits",
	"birthday":           "Birthday must be a valid date",
}

func ProfileFormFrom(u model.User) ProfileForm {
	return ProfileForm{
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Bio:             u.Bio,
		ContactNumber:   u.ContactNumber,
		Gender:          u.Gender,
		Address:         u.Address,
		Birthday:        u.Birthday,
		ProfileImageURL: u.ProfileImageURL,
		PublicStatus:    u.PublicStatus,
	}
}

// Validate checks the form; the age rule is relative to now.
func (f ProfileForm) Validate(now time.Time) Errors {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.ContactNumber = strings.TrimSpace(f.ContactNumber)

	errs := check(f, profileMessages)
	if _, bad := errs["birthday"]; !bad && f.Birthday != "" {
		born, _ := time.Parse(time.DateOnly, f.Birthday)
		if now.Year()-born.Year() < MinAge {
			errs["birthday"] = "You must be at least 10 years old"
		}
	}
	return errs
}

func (f ProfileForm) Request(now time.Time) (model.UpdateUserRequest, error) {
	if err := f.Validate(now).Err(); err != nil {
		return model.UpdateUserRequest{}, err
	}
	return model.UpdateUserRequest{
		FirstName:       strings.TrimSpace(f.FirstName),
		LastName:        strings.TrimSpace(f.LastName),
		Bio:             f.Bio,
		ContactNumber:   strings.TrimSpace(f.ContactNumber),
		Gender:          f.Gender,
		Address:         f.Address,
		Birthday:        f.Birthday,
		ProfileImageURL: f.ProfileImageURL,
		PublicStatus:    f.PublicStatus,
	}, nil
}

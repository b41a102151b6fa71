package handlers

import (
	"github.com/camden-git/campaidbackend/database"
)

// Create payloads. Pointer numbers tell a missing property from a zero.

type campNew struct {
	Location string `json:"location" validate:"required,min=1"`
	City     string `json:"city" validate:"required,min=1"`
	Country  string `json:"country" validate:"required,min=1"`
}

func (c campNew) fields() database.CampFields {
	return database.CampFields{Location: c.Location, City: c.City, Country: c.Country}
}

type familyNew struct {
	CampID *int64 `json:"camp_id" validate:"required,min=1"`
	Head   *int64 `json:"head" validate:"required,min=0"`
}

func (f familyNew) fields() database.FamilyFields {
	return database.FamilyFields{CampID: *f.CampID, Head: *f.Head}
}

type personNew struct {
	FirstName string `json:"first_name" validate:"required,min=1"`
	LastName  string `json:"last_name" validate:"required,min=1"`
	DOB       string `json:"dob" validate:"required,datetime=2006-01-02"`
	Sex       string `json:"sex" validate:"required,min=1"`
	NID       string `json:"nid" validate:"required,min=1"`
}

func (p personNew) fields() (database.PersonFields, error) {
	dob, err := database.ParseDate(p.DOB)
	if err != nil {
		return database.PersonFields{}, err
	}
	return database.PersonFields{FirstName: p.FirstName, LastName: p.LastName, DOB: dob, Sex: p.Sex, NID: p.NID}, nil
}

type donationNew struct {
	StartDate   string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	Target      *float64 `json:"target" validate:"required,min=0"`
	Description string   `json:"description" validate:"required,min=1"`
}

func (d donationNew) fields() (database.DonationFields, error) {
	start, err := database.ParseDate(d.StartDate)
	if err != nil {
		return database.DonationFields{}, err
	}
	end, err := database.ParseDate(d.EndDate)
	if err != nil {
		return database.DonationFields{}, err
	}
	return database.DonationFields{StartDate: start, EndDate: end, Target: *d.Target, Description: d.Description}, nil
}

// Update payloads. Every property is optional; a present property must still
// satisfy its rule.

type campUpdate struct {
	Location *string `json:"location" validate:"omitempty,min=1"`
	City     *string `json:"city" validate:"omitempty,min=1"`
	Country  *string `json:"country" validate:"omitempty,min=1"`
}

func (c campUpdate) patch(order []string) (database.Patch, error) {
	return orderedPatch(order, map[string]any{
		"location": c.Location,
		"city":     c.City,
		"country":  c.Country,
	})
}

type familyUpdate struct {
	CampID *int64 `json:"camp_id" validate:"omitempty,min=1"`
	Head   *int64 `json:"head" validate:"omitempty,min=0"`
}

func (f familyUpdate) patch(order []string) (database.Patch, error) {
	return orderedPatch(order, map[string]any{
		"camp_id": f.CampID,
		"head":    f.Head,
	})
}

type personUpdate struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1"`
	DOB       *string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Sex       *string `json:"sex" validate:"omitempty,min=1"`
	NID       *string `json:"nid" validate:"omitempty,min=1"`
}

func (p personUpdate) patch(order []string) (database.Patch, error) {
	return orderedPatch(order, map[string]any{
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"dob":        dateValue(p.DOB),
		"sex":        p.Sex,
		"nid":        p.NID,
	})
}

type donationUpdate struct {
	StartDate   *string  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string  `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Target      *float64 `json:"target" validate:"omitempty,min=0"`
	Description *string  `json:"description" validate:"omitempty,min=1"`
}

func (d donationUpdate) patch(order []string) (database.Patch, error) {
	return orderedPatch(order, map[string]any{
		"start_date":  dateValue(d.StartDate),
		"end_date":    dateValue(d.EndDate),
		"target":      d.Target,
		"description": d.Description,
	})
}

// dateString is a validated YYYY-MM-DD value still waiting to be parsed.
type dateString string

func dateValue(s *string) any {
	if s == nil {
		return (*dateString)(nil)
	}
	v := dateString(*s)
	return &v
}

// orderedPatch builds a patch from the non-nil values, following the order the
// client sent the properties in.
func orderedPatch(order []string, values map[string]any) (database.Patch, error) {
	var p database.Patch
	for _, key := range order {
		v, ok := values[key]
		if !ok {
			continue
		}
		switch tv := v.(type) {
		case *string:
			if tv != nil {
				p.Set(key, *tv)
			}
		case *int64:
			if tv != nil {
				p.Set(key, *tv)
			}
		case *float64:
			if tv != nil {
				p.Set(key, *tv)
			}
		case *dateString:
			if tv != nil {
				d, err := database.ParseDate(string(*tv))
				if err != nil {
					return database.Patch{}, err
				}
				p.Set(key, d)
			}
		}
	}
	return p, nil
}

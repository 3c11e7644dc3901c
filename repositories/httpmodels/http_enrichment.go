package httpmodels

import (
	"github.com/checkmarble/marble-enrichment/models"
	"github.com/checkmarble/marble-enrichment/pure_utils"
)

// HTTPEnrichmentResponse is the 2xx body of the enrichment service. Data is null
// when nothing matched.
type HTTPEnrichmentResponse[T any] struct {
	Status     int `json:"status"`
	Likelihood int `json:"likelihood"`
	Data       *T  `json:"data"`
}

type HTTPEnrichmentError struct {
	Status int `json:"status"`
	Error  struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

type HTTPPersonEmail struct {
	Address string `json:"address"`
	Type    string `json:"type"`
}

type HTTPNamed struct {
	Name string `json:"name"`
}

type HTTPPersonExperience struct {
	Company   HTTPNamed `json:"company"`
	Title     HTTPNamed `json:"title"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	IsPrimary bool      `json:"is_primary"`
}

type HTTPPersonEducation struct {
	School    HTTPNamed `json:"school"`
	Degrees   []string  `json:"degrees"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
}

type HTTPPerson struct {
	Id             string                 `json:"id"`
	FullName       string                 `json:"full_name"`
	FirstName      string                 `json:"first_name"`
	LastName       string                 `json:"last_name"`
	Emails         []HTTPPersonEmail      `json:"emails"`
	PhoneNumbers   []string               `json:"phone_numbers"`
	JobTitle       string                 `json:"job_title"`
	JobCompanyName string                 `json:"job_company_name"`
	LocationName   string                 `json:"location_name"`
	LinkedinUrl    string                 `json:"linkedin_url"`
	Experience     []HTTPPersonExperience `json:"experience"`
	Education      []HTTPPersonEducation  `json:"education"`
	Skills         []string               `json:"skills"`
}

type HTTPCompany struct {
	Id                 string    `json:"id"`
	Name               string    `json:"name"`
	DisplayName        string    `json:"display_name"`
	Website            string    `json:"website"`
	Emails             []string  `json:"emails"`
	Phone              string    `json:"phone"`
	Size               string    `json:"size"`
	Industry           string    `json:"industry"`
	EmployeeCount      int       `json:"employee_count"`
	Founded            int       `json:"founded"`
	TotalFundingRaised float64   `json:"total_funding_raised"`
	LatestFundingStage string    `json:"latest_funding_stage"`
	EmployeeGrowthRate float64   `json:"employee_growth_rate_12_month"`
	Location           HTTPNamed `json:"location"`
	LinkedinUrl        string    `json:"linkedin_url"`
}

func AdaptPerson(p HTTPPerson) models.PersonProfile {
	return models.PersonProfile{
		Id:             p.Id,
		FullName:       p.FullName,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Emails:         pure_utils.Map(p.Emails, func(e HTTPPersonEmail) string { return e.Address }),
		PhoneNumbers:   p.PhoneNumbers,
		JobTitle:       p.JobTitle,
		JobCompanyName: p.JobCompanyName,
		LocationName:   p.LocationName,
		LinkedinUrl:    p.LinkedinUrl,
		Experience: pure_utils.Map(p.Experience, func(e HTTPPersonExperience) models.PersonExperience {
			return models.PersonExperience{
				CompanyName: e.Company.Name,
				Title:       e.Title.Name,
				StartDate:   e.StartDate,
				EndDate:     e.EndDate,
				IsPrimary:   e.IsPrimary,
			}
		}),
		Education: pure_utils.Map(p.Education, func(e HTTPPersonEducation) models.PersonEducation {
			return models.PersonEducation{
				SchoolName: e.School.Name,
				Degrees:    e.Degrees,
				StartDate:  e.StartDate,
				EndDate:    e.EndDate,
			}
		}),
		Skills: p.Skills,
	}
}

func AdaptCompany(c HTTPCompany) models.CompanyProfile {
	return models.CompanyProfile{
		Id:                 c.Id,
		Name:               c.Name,
		DisplayName:        c.DisplayName,
		Website:            c.Website,
		Emails:             c.Emails,
		Phone:              c.Phone,
		Size:               c.Size,
		Industry:           c.Industry,
		EmployeeCount:      c.EmployeeCount,
		Founded:            c.Founded,
		TotalFundingRaised: c.TotalFundingRaised,
		LatestFundingStage: c.LatestFundingStage,
		EmployeeGrowthRate: c.EmployeeGrowthRate,
		LocationName:       c.Location.Name,
		LinkedinUrl:        c.LinkedinUrl,
	}
}

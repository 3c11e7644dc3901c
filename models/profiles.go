package models

// Profiles are serialized as is in both cache tiers.

type PersonExperience struct {
	CompanyName string `json:"company_name"`
	Title       string `json:"title"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	IsPrimary   bool   `json:"is_primary"`
}

type PersonEducation struct {
	SchoolName string   `json:"school_name"`
	Degrees    []string `json:"degrees,omitempty"`
	StartDate  string   `json:"start_date,omitempty"`
	EndDate    string   `json:"end_date,omitempty"`
}

type PersonProfile struct {
	Id             string             `json:"id"`
	FullName       string             `json:"full_name"`
	FirstName      string             `json:"first_name"`
	LastName       string             `json:"last_name"`
	Emails         []string           `json:"emails,omitempty"`
	PhoneNumbers   []string           `json:"phone_numbers,omitempty"`
	JobTitle       string             `json:"job_title,omitempty"`
	JobCompanyName string             `json:"job_company_name,omitempty"`
	LocationName   string             `json:"location_name,omitempty"`
	LinkedinUrl    string             `json:"linkedin_url,omitempty"`
	Experience     []PersonExperience `json:"experience,omitempty"`
	Education      []PersonEducation  `json:"education,omitempty"`
	Skills         []string           `json:"skills,omitempty"`
}

type CompanyProfile struct {
	Id                 string   `json:"id"`
	Name               string   `json:"name"`
	DisplayName        string   `json:"display_name,omitempty"`
	Website            string   `json:"website,omitempty"`
	Emails             []string `json:"emails,omitempty"`
	Phone              string   `json:"phone,omitempty"`
	Size               string   `json:"size,omitempty"`
	Industry           string   `json:"industry,omitempty"`
	EmployeeCount      int      `json:"employee_count,omitempty"`
	Founded            int      `json:"founded,omitempty"`
	TotalFundingRaised float64  `json:"total_funding_raised,omitempty"`
	LatestFundingStage string   `json:"latest_funding_stage,omitempty"`
	EmployeeGrowthRate float64  `json:"employee_growth_rate,omitempty"`
	LocationName       string   `json:"location_name,omitempty"`
	LinkedinUrl        string   `json:"linkedin_url,omitempty"`
}

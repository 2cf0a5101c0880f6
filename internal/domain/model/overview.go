package model

// NamedCount pairs a label with a number of records.
type NamedCount struct {
	Name  string
	Count int
}

// Overview holds the dashboard statistics computed from stored visits.
type Overview struct {
	TotalVisits     int
	UniqueCompanies int
	PPOCount        int
	TopCompanies    []NamedCount
	VisitTypes      []NamedCount
	Locations       []NamedCount
}

// Company is a directory entry derived from visit records.
type Company struct {
	RecordID      string
	Name          string
	Address       string
	Location      string
	ContactPerson string
	MailID        string
	ContactNumber string
	CompanyType   string
	Visits        int
}

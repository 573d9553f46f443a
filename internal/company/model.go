package company

// Company represents a row in the companies table.
type Company struct {
	ID   int64
	Name string
}

// Unit represents a row in the branches table. Every unit belongs to
// exactly one company.
type Unit struct {
	ID        int64
	CompanyID int64
	Name      string
}

// CompanyWithUnits pairs a company with its active units, as returned
// by the login flow. A company with no active unit carries an empty
// slice, not an error.
type CompanyWithUnits struct {
	Company
	Units []Unit
}

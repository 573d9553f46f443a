package auth

// User represents a row in the users table joined to the user's group.
// The login lookup reads exactly one group row; when a user belongs to
// several groups the lowest group id wins (permission aggregation still
// considers all of them).
type User struct {
	Login     string
	Name      string
	Email     string
	Active    bool
	Admin     bool
	Locale    string
	Picture   *string
	GroupID   int64
	GroupName string
}

// PermissionSet holds the six independent capabilities a group grants
// for one application.
type PermissionSet struct {
	Access bool `json:"access"`
	Insert bool `json:"insert"`
	Delete bool `json:"delete"`
	Update bool `json:"update"`
	Export bool `json:"export"`
	Print  bool `json:"print"`
}

// PermissionGrant is one row of the group_apps table.
type PermissionGrant struct {
	GroupID int64
	AppName string
	PermissionSet
}

// Profile is the user payload returned by a successful login.
// PractitionerID and StudentID are supplemental fields attached by
// profile extensions.
type Profile struct {
	Login          string
	Name           string
	Email          string
	Admin          bool
	GroupID        int64
	GroupName      string
	Picture        *string
	PractitionerID *int64
	StudentID      string
}

// LoginResult carries everything the frontend needs after authentication.
type LoginResult struct {
	Token       string
	User        Profile
	Permissions map[string]PermissionSet
	Companies   []CompanyWithUnits
	Locale      string
}

// CompanyWithUnits mirrors company.CompanyWithUnits for the login payload.
type CompanyWithUnits struct {
	ID    int64
	Name  string
	Units []Ref
}

// Ref identifies a company or unit by id and display name.
type Ref struct {
	ID   int64
	Name string
}

// SelectionResult carries the scoped token and the resolved display
// names after a company/unit selection.
type SelectionResult struct {
	Token           string
	SelectedCompany Ref
	SelectedUnit    Ref
}

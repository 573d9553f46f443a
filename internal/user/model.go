package user

// User represents a row in the users table as seen by the directory
// CRUD endpoints. Optional columns are pointers.
type User struct {
	Login    string
	Name     string
	Email    string
	Phone    string
	Picture  *string
	Profile  *string
	Level    *string
	UnitID   *int64
	City     *string
	Position *string
	Active   bool
}

// GroupRef identifies one group membership.
type GroupRef struct {
	ID   int64
	Name string
}

// CompanyRef identifies one company membership.
type CompanyRef struct {
	ID   int64
	Name string
}

// Detail is a user with memberships attached.
type Detail struct {
	User
	Groups    []GroupRef
	Companies []CompanyRef
}

// Summary is one row of the paginated directory listing. Group and
// company names are aggregated into comma-separated strings by the
// listing query.
type Summary struct {
	Login     string
	Name      string
	Email     string
	Phone     string
	Picture   *string
	Profile   *string
	Level     *string
	UnitID    *int64
	UnitName  *string
	City      *string
	Position  *string
	Groups    *string
	Companies *string
}

// Filter narrows the directory listing.
type Filter struct {
	CompanyID *int64
	UnitID    *int64
	Login     string
	Page      int
	Limit     int
}

// NewUser carries the fields needed to register a user. Digest is the
// already-computed password digest.
type NewUser struct {
	Login     string
	Name      string
	Email     string
	Phone     string
	Digest    string
	Picture   *string
	Profile   *string
	Level     *string
	UnitID    *int64
	City      *string
	Position  *string
	Groups    []int64
	Companies []int64
}

// Update carries the mutable fields of a user. Nil slices leave the
// memberships untouched; empty Digest leaves the password untouched.
type Update struct {
	Login     string
	Name      string
	Email     string
	Phone     string
	Digest    string
	Picture   *string
	Profile   *string
	Level     *string
	UnitID    *int64
	City      *string
	Position  *string
	Groups    []int64
	Companies []int64
}

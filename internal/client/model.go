package client

// Client represents a row in the clients follow-up table. Clients are
// deduplicated by (phone, company): registering an existing phone for
// the same company updates the row instead of inserting a second one.
type Client struct {
	ID        int64
	CompanyID int64
	FullName  string
	Email     string
	Phone     string
	SignupAt  string
	Photo     *string
}

// LinkedProfile is the client record linked to a user, served with the
// user's picture.
type LinkedProfile struct {
	Picture  *string
	ClientID *int64
	FullName *string
	Phone    *string
}

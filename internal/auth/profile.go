package auth

import "context"

// ProfileExtension attaches group-specific optional fields to a login
// profile. Extensions are registered on the Service at construction,
// so new groups can contribute fields without touching the login flow.
type ProfileExtension interface {
	// AppliesTo reports whether the extension has supplemental data for
	// the given group.
	AppliesTo(groupID int64) bool
	// Apply mutates the profile with the extension's fields.
	Apply(ctx context.Context, login string, p *Profile) error
}

// PractitionerExtension attaches the linked practitioner id for users
// in the designated specialist group.
type PractitionerExtension struct {
	repo    Repository
	groupID int64
}

// NewPractitionerExtension creates the extension bound to the
// specialist group id.
func NewPractitionerExtension(repo Repository, groupID int64) *PractitionerExtension {
	return &PractitionerExtension{repo: repo, groupID: groupID}
}

func (e *PractitionerExtension) AppliesTo(groupID int64) bool {
	return groupID == e.groupID
}

func (e *PractitionerExtension) Apply(ctx context.Context, login string, p *Profile) error {
	id, err := e.repo.PractitionerID(ctx, login)
	if err != nil {
		return err
	}
	p.PractitionerID = id
	return nil
}

// StudentExtension attaches the linked student id for every group,
// defaulting to empty when no row is linked.
type StudentExtension struct {
	repo Repository
}

// NewStudentExtension creates the extension.
func NewStudentExtension(repo Repository) *StudentExtension {
	return &StudentExtension{repo: repo}
}

func (e *StudentExtension) AppliesTo(int64) bool { return true }

func (e *StudentExtension) Apply(ctx context.Context, login string, p *Profile) error {
	id, err := e.repo.StudentID(ctx, login)
	if err != nil {
		return err
	}
	p.StudentID = id
	return nil
}

package models

import (
	"fmt"
)

var (
	ErrParentNotFound = fmt.Errorf("parent not found")
)

/*
Parent is the signed-in account that owns child profiles and uploaded
artwork. Parents sign in with a passcode.
*/
type Parent struct {
	BaseModel

	Password string `db:"password"`
	Name     string `db:"name"`
	Email    string `db:"email"`
}

/*
Identity is what the rest of the application knows about the current user.
*/
type Identity struct {
	SignedIn    bool
	ID          uint
	DisplayName string
	Email       string
}

func (p *Parent) Identity() Identity {
	if p == nil || p.ID == 0 {
		return Identity{}
	}

	return Identity{
		SignedIn:    true,
		ID:          p.ID,
		DisplayName: p.Name,
		Email:       p.Email,
	}
}

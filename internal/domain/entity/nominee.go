package entity

import "time"

type Nominee struct {
	Name            string    `json:"nominee_name"`
	CredentialsLink string    `json:"credentials_link"`
	ApplicationTime time.Time `json:"application_time"`
}

func NewNominee(name, credentialsLink string, now time.Time) *Nominee {
	return &Nominee{Name: name, CredentialsLink: credentialsLink, ApplicationTime: now}
}

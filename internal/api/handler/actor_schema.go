package handler

import "time"

const birthdateLayout = "2006-01-02"

type actorRequest struct {
	UserID     string `form:"user_id" validate:"omitempty"`
	NPI        string `form:"npi" validate:"required,len=11,numeric"`
	NRIB       string `form:"n_rib" validate:"required,len=32,alphanum"`
	Birthdate  string `form:"birthdate" validate:"required,datetime=2006-01-02"`
	Birthplace string `form:"birthplace" validate:"required"`
	Diploma    string `form:"diploma" validate:"required,oneof=BAC LICENCE MASTER DOCTORAT"`
	Bank       string `form:"bank" validate:"required,oneof=NSIA UBA ECOBANK BOA 'LA POSTE' CORIS ORABANK"`
	Phone      string `form:"phone" validate:"omitempty,len=10,numeric"`
}

func (r actorRequest) birthdate() time.Time {
	t, _ := time.Parse(birthdateLayout, r.Birthdate)
	return t
}

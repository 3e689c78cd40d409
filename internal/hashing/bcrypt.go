package hashing

import "golang.org/x/crypto/bcrypt"

// bcrypt не принимает пароли длиннее 72 байт
const maxPasswordBytes = 72

type Bcrypt struct {
	cost int
}

func NewBcrypt(cost int) *Bcrypt {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(password string) (string, error) {
	pw := []byte(password)
	if len(pw) > maxPasswordBytes {
		pw = pw[:maxPasswordBytes]
	}
	h, err := bcrypt.GenerateFromPassword(pw, b.cost)
	return string(h), err
}

func (b *Bcrypt) Compare(hash, password string) bool {
	pw := []byte(password)
	if len(pw) > maxPasswordBytes {
		pw = pw[:maxPasswordBytes]
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), pw) == nil
}

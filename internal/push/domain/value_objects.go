package domain

type ID string

func (vo ID) String() string {
	return string(vo)
}

type AccountType string

func (vo AccountType) String() string {
	return string(vo)
}

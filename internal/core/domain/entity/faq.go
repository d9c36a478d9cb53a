package entity

type FAQ struct {
	ID       int64
	Question string
	Answer   string
	IsActive bool
}

package types

type StatusType int

const (
	AddedStatus    StatusType = 0
	ModifiedStatus StatusType = 1
	DeletedStatus  StatusType = 2
)

package common

type SessionState uint

const (
	LogDiveView SessionState = iota
	ListDivesView
	CreateUserView
	UpdateDiveList
	FollowUserView
	FollowersView
)

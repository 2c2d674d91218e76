package store

import "errors"

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomExists     = errors.New("room code already exists")
	ErrPlayerNotFound = errors.New("player not found")
)

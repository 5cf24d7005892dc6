package models

// ProfilePicture is the opaque image payload owned by a user.
type ProfilePicture struct {
	OwnerID int64
	Data    []byte
}

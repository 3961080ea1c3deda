package models

import "time"

// UserProfile is the per-user account record holding the credit balance.
// Collection: users (_id = uid)
type UserProfile struct {
	UID                string    `bson:"_id" json:"uid"`
	Email              string    `bson:"email" json:"email"`
	FullName           string    `bson:"full_name" json:"full_name"`
	YouTubeChannelName string    `bson:"youtube_channel_name" json:"youtube_channel_name"`
	Address            string    `bson:"address" json:"address"`
	PhoneNumber        string    `bson:"phone_number" json:"phone_number"`
	Credits            int       `bson:"credits" json:"credits"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
}

// ProfileUpdate carries the user-editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	FullName           *string `bson:"full_name,omitempty" json:"full_name,omitempty"`
	YouTubeChannelName *string `bson:"youtube_channel_name,omitempty" json:"youtube_channel_name,omitempty"`
	Address            *string `bson:"address,omitempty" json:"address,omitempty"`
	PhoneNumber        *string `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
}

// IsEmpty reports whether the update would change nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.FullName == nil && u.YouTubeChannelName == nil && u.Address == nil && u.PhoneNumber == nil
}

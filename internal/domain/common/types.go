package common

import "errors"

// ErrNotFound is returned by repositories when a record does not exist
var ErrNotFound = errors.New("record not found")

// Collection names, shared by the storage layer, reports and the live feed
const (
	CollectionInvitees       = "invitees"
	CollectionRSVPs          = "rsvps"
	CollectionGifts          = "gifts"
	CollectionEventSettings  = "event_settings"
	CollectionManualSettings = "manual_settings"
	CollectionManualImages   = "manual_images"
)

// SingletonID is the fixed key of the settings documents
const SingletonID = "main_settings"

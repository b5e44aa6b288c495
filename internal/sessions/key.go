// Package sessions builds the keys that scope per-user conversation state.
//
// User keys have the form:
//
//	{channel}:{userId}
//
// Examples:
//
//	discord:80351110224678912
//	telegram:386246614
//	web:visitor-7
//
// The channel prefix keeps ids from different platforms from colliding in the
// shared conversation store.
package sessions

// UserKey builds the conversation key for a user on a channel.
// An empty channel yields the bare user id.
func UserKey(channel, userID string) string {
	if channel == "" {
		return userID
	}
	return channel + ":" + userID
}

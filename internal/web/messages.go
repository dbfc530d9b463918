package web

import "github.com/mikequentel/otherside/internal/listsync"

// Message is the explanation shown next to the form for a failed sync.
type Message struct {
	Title  string
	Detail string
}

const rateLimitDetail = "Twitter imposes a limit on how often third party services can access your account. Please wait 15 minutes then try again."

var messages = map[listsync.Code]Message{
	listsync.CodeAuth: {
		Title: "Could not authenticate you with Twitter",
	},
	listsync.CodeTarget: {
		Title:  "Could not find that Twitter user",
		Detail: "Please make sure you’ve typed their username correctly. Twitter usernames can only contain letters, numbers, and underscores.",
	},
	listsync.CodeFollowers: {
		Title:  "Could not retrieve followed accounts",
		Detail: "Does this user have a private account?",
	},
	listsync.CodeCreateList: {
		Title:  "Could not create list",
		Detail: rateLimitDetail,
	},
	listsync.CodeModifyList: {
		Title:  "Could not modify list",
		Detail: rateLimitDetail,
	},
}

// MessageFor maps a sync error code to its display text. Unknown codes have
// no message.
func MessageFor(code listsync.Code) (Message, bool) {
	m, ok := messages[code]
	return m, ok
}

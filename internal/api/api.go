// Package api holds one typed client per backend resource. Each is a thin
// request builder over rest.Client; none of them keep state.
package api

import (
	"net/url"

	"skillshare/internal/transport/rest"
)

// Client bundles every resource client over one transport.
type Client struct {
	Auth     *Auth
	Users    *Users
	Posts    *Posts
	Likes    *Likes
	Comments *Comments
	Plans    *Plans
	Progress *Progress
	Chat     *Chat
}

func New(rc *rest.Client) *Client {
	return &Client{
		Auth:     &Auth{rc: rc},
		Users:    &Users{rc: rc},
		Posts:    &Posts{rc: rc},
		Likes:    &Likes{rc: rc},
		Comments: &Comments{rc: rc},
		Plans:    &Plans{rc: rc},
		Progress: &Progress{rc: rc},
		Chat:     &Chat{rc: rc},
	}
}

func seg(id string) string {
	return url.PathEscape(id)
}

package client

import (
	"context"
	"fmt"
	"strconv"

	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

// Feed returns one page of activity from followed users.
func (c *Client) Feed(ctx context.Context, page int) (*domain.Page[domain.FeedItem], error) {
	return getPage[domain.FeedItem](ctx, c, "/social/feed/", pageQuery(page))
}

func (c *Client) Following(ctx context.Context, page int) (*domain.Page[domain.FollowUser], error) {
	return getPage[domain.FollowUser](ctx, c, "/social/following/", pageQuery(page))
}

func (c *Client) Followers(ctx context.Context, page int) (*domain.Page[domain.FollowUser], error) {
	return getPage[domain.FollowUser](ctx, c, "/social/followers/", pageQuery(page))
}

func (c *Client) Follow(ctx context.Context, userID int64) error {
	if err := requireID("user id", userID); err != nil {
		return err
	}
	return c.gw.Post(ctx, fmt.Sprintf("/social/follow/%d/", userID), nil, nil)
}

func (c *Client) Unfollow(ctx context.Context, userID int64) error {
	if err := requireID("user id", userID); err != nil {
		return err
	}
	return c.gw.Delete(ctx, fmt.Sprintf("/social/follow/%d/", userID), nil)
}

// Conversations returns one page of direct-message threads.
func (c *Client) Conversations(ctx context.Context, page int) (*domain.Page[domain.Conversation], error) {
	return getPage[domain.Conversation](ctx, c, "/social/messages/", pageQuery(page))
}

// Messages returns one page of a conversation's messages.
func (c *Client) Messages(ctx context.Context, conversationID int64, page int) (*domain.Page[domain.Message], error) {
	if err := requireID("conversation id", conversationID); err != nil {
		return nil, err
	}
	return getPage[domain.Message](ctx, c, fmt.Sprintf("/social/messages/%d/", conversationID), pageQuery(page))
}

func (c *Client) SendMessage(ctx context.Context, req domain.MessageInput) (*domain.Message, error) {
	if err := c.check(req); err != nil {
		return nil, err
	}
	var m domain.Message
	if err := c.gw.Post(ctx, "/social/messages/send/", req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) ForumCategories(ctx context.Context) ([]domain.ForumCategory, error) {
	var cats []domain.ForumCategory
	if err := c.gw.Get(ctx, "/social/forums/", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// Threads returns one page of forum threads. A zero categoryID lists every
// category.
func (c *Client) Threads(ctx context.Context, categoryID int64, page int) (*domain.Page[domain.ForumThread], error) {
	q := pageQuery(page)
	if categoryID > 0 {
		q.Set("category", strconv.FormatInt(categoryID, 10))
	}
	return getPage[domain.ForumThread](ctx, c, "/social/forums/threads/", q)
}

func (c *Client) Thread(ctx context.Context, id int64) (*domain.ForumThread, error) {
	if err := requireID("thread id", id); err != nil {
		return nil, err
	}
	var th domain.ForumThread
	if err := c.gw.Get(ctx, fmt.Sprintf("/social/forums/threads/%d/", id), nil, &th); err != nil {
		return nil, err
	}
	return &th, nil
}

func (c *Client) ThreadPosts(ctx context.Context, threadID int64, page int) (*domain.Page[domain.ForumPost], error) {
	if err := requireID("thread id", threadID); err != nil {
		return nil, err
	}
	return getPage[domain.ForumPost](ctx, c, fmt.Sprintf("/social/forums/threads/%d/posts/", threadID), pageQuery(page))
}

func (c *Client) CreateThread(ctx context.Context, req domain.ThreadInput) (*domain.ForumThread, error) {
	if err := c.check(req); err != nil {
		return nil, err
	}
	var th domain.ForumThread
	if err := c.gw.Post(ctx, "/social/forums/threads/", req, &th); err != nil {
		return nil, err
	}
	return &th, nil
}

func (c *Client) ReplyToThread(ctx context.Context, threadID int64, req domain.PostInput) (*domain.ForumPost, error) {
	if err := requireID("thread id", threadID); err != nil {
		return nil, err
	}
	if err := c.check(req); err != nil {
		return nil, err
	}
	var p domain.ForumPost
	if err := c.gw.Post(ctx, fmt.Sprintf("/social/forums/threads/%d/posts/", threadID), req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

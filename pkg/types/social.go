package domain

// FeedUser is the actor summary on a feed item.
type FeedUser struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// FeedContent is what a feed item refers to. Which fields are set depends
// on the item type.
type FeedContent struct {
	ListingID      *int64 `json:"listing_id,omitempty"`
	ListingTitle   string `json:"listing_title,omitempty"`
	ListingImage   string `json:"listing_image,omitempty"`
	CollectionID   *int64 `json:"collection_id,omitempty"`
	CollectionName string `json:"collection_name,omitempty"`
	Message        string `json:"message,omitempty"`
}

// FeedItem is one entry in the activity feed of followed users.
type FeedItem struct {
	ID      int64       `json:"id"`
	Type    string      `json:"type"`
	User    FeedUser    `json:"user"`
	Content FeedContent `json:"content"`
	Created *Timestamp  `json:"created,omitempty"`
}

// FollowUser is a follower or followed user.
type FollowUser struct {
	Username    string `json:"username"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Bio         string `json:"bio,omitempty"`
	IsFollowing bool   `json:"is_following"`
}

// Conversation is a direct-message thread with one other user.
type Conversation struct {
	ID            int64      `json:"id"`
	OtherUser     FeedUser   `json:"other_user"`
	LastMessage   string     `json:"last_message,omitempty"`
	LastMessageAt *Timestamp `json:"last_message_at,omitempty"`
	UnreadCount   int        `json:"unread_count"`
}

// Message is one direct message.
type Message struct {
	ID      int64      `json:"id"`
	Sender  string     `json:"sender"`
	Content string     `json:"content"`
	IsRead  bool       `json:"is_read"`
	Created *Timestamp `json:"created,omitempty"`
}

// MessageInput is the body for sending a direct message.
type MessageInput struct {
	ToUserID int64  `json:"to_user_id" validate:"required,gt=0"`
	Content  string `json:"content"    validate:"required,max=5000"`
}

// ForumCategory is a forum section.
type ForumCategory struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	ThreadCount int    `json:"thread_count"`
	PostCount   int    `json:"post_count"`
}

// ForumThread is a discussion thread.
type ForumThread struct {
	ID              int64          `json:"id"`
	Title           string         `json:"title"`
	Author          string         `json:"author"`
	AuthorAvatarURL string         `json:"author_avatar_url,omitempty"`
	Category        *ForumCategory `json:"category,omitempty"`
	ReplyCount      int            `json:"reply_count"`
	ViewCount       int            `json:"view_count"`
	IsPinned        bool           `json:"is_pinned"`
	IsLocked        bool           `json:"is_locked"`
	LastPostAt      *Timestamp     `json:"last_post_at,omitempty"`
	Created         *Timestamp     `json:"created,omitempty"`
}

// ForumPost is one post in a thread.
type ForumPost struct {
	ID              int64      `json:"id"`
	Content         string     `json:"content"`
	Author          string     `json:"author"`
	AuthorAvatarURL string     `json:"author_avatar_url,omitempty"`
	Created         *Timestamp `json:"created,omitempty"`
	Updated         *Timestamp `json:"updated,omitempty"`
}

// ThreadInput is the body for starting a forum thread.
type ThreadInput struct {
	CategoryID int64  `json:"category_id" validate:"required,gt=0"`
	Title      string `json:"title"       validate:"required,max=200"`
	Content    string `json:"content"     validate:"required"`
}

// PostInput is the body for replying to a thread.
type PostInput struct {
	Content string `json:"content" validate:"required"`
}

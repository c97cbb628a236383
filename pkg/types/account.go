package domain

// AuthTokens is the credential pair issued by login, registration and
// social sign-in.
type AuthTokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginRequest is the body for username/password login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body for account registration.
type RegisterRequest struct {
	Username        string `json:"username"         validate:"required,min=3,max=150"`
	Email           string `json:"email"            validate:"required,email"`
	Password        string `json:"password"         validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// User is the minimal account record.
type User struct {
	ID         int64      `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	DateJoined *Timestamp `json:"date_joined,omitempty"`
}

// Profile is the authenticated user's own profile. Boolean flags default to
// false and counts to zero when absent from the payload.
type Profile struct {
	ID                    int64      `json:"id"`
	Username              string     `json:"username"`
	Email                 string     `json:"email"`
	Avatar                string     `json:"avatar,omitempty"`
	AvatarURL             string     `json:"avatar_url,omitempty"`
	Bio                   string     `json:"bio,omitempty"`
	Location              string     `json:"location,omitempty"`
	Website               string     `json:"website,omitempty"`
	IsSellerVerified      bool       `json:"is_seller_verified"`
	IsTrustedSeller       bool       `json:"is_trusted_seller"`
	IsFoundingMember      bool       `json:"is_founding_member"`
	StripeAccountComplete bool       `json:"stripe_account_complete"`
	SellerTier            string     `json:"seller_tier,omitempty"`
	Rating                *float64   `json:"rating,omitempty"`
	RatingCount           int        `json:"rating_count"`
	TotalSalesCount       int        `json:"total_sales_count"`
	IsPublic              bool       `json:"is_public"`
	EmailNotifications    bool       `json:"email_notifications"`
	Created               *Timestamp `json:"created,omitempty"`
}

// ProfileUpdate is the partial body for updating the current profile.
type ProfileUpdate struct {
	Bio      *string `json:"bio,omitempty"      validate:"omitempty,max=500"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=100"`
	Website  *string `json:"website,omitempty"  validate:"omitempty,url"`
	IsPublic *bool   `json:"is_public,omitempty"`
}

// PasswordChange is the body for changing the current password.
type PasswordChange struct {
	OldPassword     string `json:"old_password"         validate:"required"`
	NewPassword     string `json:"new_password"         validate:"required,min=8"`
	NewPasswordConf string `json:"new_password_confirm" validate:"required,eqfield=NewPassword"`
}

// SocialLoginRequest exchanges a Google or Apple identity token for a
// credential pair. Names are only sent for Apple.
type SocialLoginRequest struct {
	IDToken   string `json:"id_token"             validate:"required"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// PasswordResetRequest starts a password reset by email.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirm completes a password reset started by email.
type PasswordResetConfirm struct {
	UID             string `json:"uid"                  validate:"required"`
	Token           string `json:"token"                validate:"required"`
	NewPassword     string `json:"new_password"         validate:"required,min=8"`
	NewPasswordConf string `json:"new_password_confirm" validate:"required,eqfield=NewPassword"`
}

// NotificationSettings are the per-user push and email preferences.
type NotificationSettings struct {
	EmailNotifications bool `json:"email_notifications"`
	PushNewBid         bool `json:"push_new_bid"`
	PushOutbid         bool `json:"push_outbid"`
	PushOffer          bool `json:"push_offer"`
	PushOrderShipped   bool `json:"push_order_shipped"`
	PushMessage        bool `json:"push_message"`
	PushPriceAlert     bool `json:"push_price_alert"`
}

// NotificationSettingsUpdate changes only the fields that are set.
type NotificationSettingsUpdate struct {
	EmailNotifications *bool `json:"email_notifications,omitempty"`
	PushNewBid         *bool `json:"push_new_bid,omitempty"`
	PushOutbid         *bool `json:"push_outbid,omitempty"`
	PushOffer          *bool `json:"push_offer,omitempty"`
	PushOrderShipped   *bool `json:"push_order_shipped,omitempty"`
	PushMessage        *bool `json:"push_message,omitempty"`
	PushPriceAlert     *bool `json:"push_price_alert,omitempty"`
}
